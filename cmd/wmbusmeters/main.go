// Wmbusmeters decodes wireless M-Bus telegrams from utility meters (water,
// heat, electricity, heat-cost allocators) into structured readings.
//
// Usage:
//
//	wmbusmeters decode [flags] <driver> <hexfile>
//	wmbusmeters listen [flags]
//	wmbusmeters drivers
//
// See 'wmbusmeters <command> --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2007M4N/wmbusmeters/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "wmbusmeters",
	Short: "Wireless M-Bus telegram decoder",
	Long: `Receives wireless M-Bus radio telegrams from utility meters, decrypts and
decodes them, and emits structured readings as tab-separated text, a
separator-delimited line, or JSON.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(driversCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("wmbusmeters %s (commit: %s)\n", version.Version, version.Commit)
	},
}
