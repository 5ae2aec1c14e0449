package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/2007M4N/wmbusmeters/internal/broadcast"
	"github.com/2007M4N/wmbusmeters/internal/config"
	"github.com/2007M4N/wmbusmeters/internal/hooks"
	"github.com/2007M4N/wmbusmeters/internal/logging"
	"github.com/2007M4N/wmbusmeters/internal/meterkeys"
	"github.com/2007M4N/wmbusmeters/internal/meters"
	"github.com/2007M4N/wmbusmeters/internal/output"
	"github.com/2007M4N/wmbusmeters/internal/sigcache"
	"github.com/2007M4N/wmbusmeters/internal/source"
	"github.com/2007M4N/wmbusmeters/internal/telegram"
)

// hookTimeout bounds how long a per-meter shell hook may run before it is
// killed and reported as a warning (error kind 7: never drops the telegram).
const hookTimeout = 5 * time.Second

var (
	listenBridgeAddr   string
	listenBroadcast    bool
	listenBroadcastOn  int
	listenLogLevel     string
	listenFieldsSep    string
	listenMeterFileDir string
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Listen for telegrams from a network-attached bridge and decode them",
	Long: `Connects to a length-prefixed wM-Bus bridge over TCP, decodes incoming
telegrams against the meters configured in meters.yaml, and prints a
reading per accepted telegram. With --broadcast, every accepted reading is
also pushed as JSON to connected WebSocket clients.`,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().StringVar(&listenBridgeAddr, "bridge", "", "bridge address, host:port (required)")
	listenCmd.Flags().BoolVar(&listenBroadcast, "broadcast", false, "also push readings to WebSocket clients")
	listenCmd.Flags().IntVar(&listenBroadcastOn, "broadcast-port", 8080, "broadcast server port")
	listenCmd.Flags().StringVar(&listenLogLevel, "log-level", "", "log level (debug, info, warn, error)")
	listenCmd.Flags().StringVar(&listenFieldsSep, "fields-separator", "", "also print a separator-delimited fields line, using this separator")
	listenCmd.Flags().StringVar(&listenMeterFileDir, "meter-file-dir", "", "directory to write one JSON meter file per meter into")
	_ = listenCmd.MarkFlagRequired("bridge")
}

func runListen(cmd *cobra.Command, args []string) error {
	if err := logging.Initialize(listenLogLevel); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Sync()

	list, err := config.LoadMeterList()
	if err != nil {
		return fmt.Errorf("load meters.yaml: %w", err)
	}
	if len(list.Meters) == 0 {
		return fmt.Errorf("no meters configured; add at least one to meters.yaml")
	}

	decoders := make(map[string]meters.Decoder, len(list.Meters))
	keysByName := make(map[string]meterkeys.Keys, len(list.Meters))
	for _, entry := range list.Meters {
		d, err := meters.New(entry.Driver, entry.Name, []string{entry.ID})
		if err != nil {
			return fmt.Errorf("meter %q: %w", entry.Name, err)
		}
		decoders[entry.Name] = d

		k, err := meterkeys.Parse(entry.Key, entry.AuthKey, entry.Key == "")
		if err != nil {
			return fmt.Errorf("meter %q: %w", entry.Name, err)
		}
		keysByName[entry.Name] = k
	}

	ctx := context.Background()

	src, err := source.DialTCP(ctx, listenBridgeAddr)
	if err != nil {
		return err
	}
	defer src.Close()

	var bc *broadcast.Server
	if listenBroadcast {
		bc = broadcast.New(broadcast.Config{Host: "", Port: listenBroadcastOn})
		go func() {
			if err := bc.Start(); err != nil {
				logging.Error("broadcast server stopped", zap.Error(err))
			}
		}()
	}

	cache := sigcache.NewSeeded()

	for {
		raw, err := src.Read(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read from bridge: %w", err)
		}

		for _, entry := range list.Meters {
			decoder := decoders[entry.Name]
			keys := keysByName[entry.Name]

			tel, err := telegram.Parse(raw, keys, cache)
			if err != nil {
				logging.LogTelegramRejected("", "parse", err.Error())
				continue
			}
			if !decoder.CommonState().Matches(tel.ID) {
				continue
			}

			if err := decoder.Decode(tel.Records, tel.APL); err != nil {
				logging.LogTelegramRejected(tel.ID, "decode", err.Error())
				continue
			}
			logging.LogTelegramAccepted(tel.ID, entry.Driver, "listen")

			update := output.Update{
				Media:     entry.Driver,
				Meter:     entry.Name,
				ID:        tel.ID,
				Fields:    decoder.CommonState().Fields,
				Timestamp: time.Now(),
				ExtraJSON: entry.ExtraJSON,
			}

			line, err := output.Human(update)
			if err == nil {
				fmt.Println(line)
			}

			if listenFieldsSep != "" {
				if line, err := output.Fields(update, listenFieldsSep); err == nil {
					fmt.Println(line)
				}
			}

			data, jsonErr := output.JSON(update)
			if jsonErr == nil && bc != nil {
				bc.Publish(data)
			}

			if listenMeterFileDir != "" && jsonErr == nil {
				if err := hooks.WriteMeterFile(listenMeterFileDir, entry.Name, data); err != nil {
					logging.Warn("meter file write failed", zap.Error(err))
				}
			}

			if entry.Shell != "" {
				env, err := output.EnvVars(update)
				if err != nil {
					logging.Warn("building hook environment failed", zap.Error(err))
				} else if err := hooks.Run(ctx, entry.Shell, env, hookTimeout); err != nil {
					logging.Warn("meter shell hook failed", zap.Error(err))
				}
			}
		}
	}
}
