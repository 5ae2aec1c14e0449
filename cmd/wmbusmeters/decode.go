package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/2007M4N/wmbusmeters/internal/logging"
	"github.com/2007M4N/wmbusmeters/internal/meterkeys"
	"github.com/2007M4N/wmbusmeters/internal/meters"
	"github.com/2007M4N/wmbusmeters/internal/output"
	"github.com/2007M4N/wmbusmeters/internal/sigcache"
	"github.com/2007M4N/wmbusmeters/internal/source"
	"github.com/2007M4N/wmbusmeters/internal/telegram"
)

var (
	decodeKey      string
	decodeAuthKey  string
	decodeLogLevel string
	decodeJSON     bool
)

var decodeCmd = &cobra.Command{
	Use:   "decode <driver> [hexfile]",
	Short: "Decode one or more hex-encoded telegrams against a single driver",
	Long: `Reads hex-encoded telegrams, one per line, from hexfile (or stdin if
omitted), decodes each against the named driver, and prints a reading per
accepted telegram.`,
	Example: `  wmbusmeters decode multical21 --key 00112233445566778899AABBCCDDEEFF telegrams.hex
  cat telegrams.hex | wmbusmeters decode omnipower --key ... --json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().StringVar(&decodeKey, "key", "", "16-byte hex confidentiality key")
	decodeCmd.Flags().StringVar(&decodeAuthKey, "auth-key", "", "16-byte hex authentication key (mode 7 only)")
	decodeCmd.Flags().StringVar(&decodeLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "emit JSON instead of tab-separated text")
}

func runDecode(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(decodeLogLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	driverName := args[0]

	var r io.Reader = os.Stdin
	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("open %s: %w", args[1], err)
		}
		defer f.Close()
		r = f
	}

	keys, err := meterkeys.Parse(decodeKey, decodeAuthKey, decodeKey == "")
	if err != nil {
		return fmt.Errorf("invalid keys: %w", err)
	}

	decoder, err := meters.New(driverName, driverName, []string{"*"})
	if err != nil {
		return err
	}

	cache := sigcache.NewSeeded()
	src := source.NewHexText(r)
	defer src.Close()

	ctx := context.Background()
	count := 0
	for {
		raw, err := src.Read(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read telegram: %w", err)
		}

		tel, err := telegram.Parse(raw, keys, cache)
		if err != nil {
			logging.LogTelegramRejected("", "parse", err.Error())
			continue
		}

		if err := decoder.Decode(tel.Records, tel.APL); err != nil {
			logging.LogTelegramRejected(tel.ID, "decode", err.Error())
			continue
		}
		logging.LogTelegramAccepted(tel.ID, driverName, "decode")

		update := output.Update{
			Media:     driverName,
			Meter:     driverName,
			ID:        tel.ID,
			Fields:    decoder.CommonState().Fields,
			Timestamp: time.Now(),
		}

		if decodeJSON {
			data, err := output.JSON(update)
			if err != nil {
				return fmt.Errorf("render JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			line, err := output.Human(update)
			if err != nil {
				return fmt.Errorf("render output: %w", err)
			}
			fmt.Println(line)
		}
		count++
	}

	if count == 0 {
		fmt.Fprintln(os.Stderr, "no telegrams accepted")
	}
	return nil
}
