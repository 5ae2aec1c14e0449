// Wmbusmeters-monitor is a terminal dashboard that connects to a
// network-attached wM-Bus bridge (or discovers one via mDNS) and displays
// live meter readings as they are decoded.
//
// Usage:
//
//	wmbusmeters-monitor --bridge host:port
//	wmbusmeters-monitor --discover
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2007M4N/wmbusmeters/internal/config"
	"github.com/2007M4N/wmbusmeters/internal/discovery"
	"github.com/2007M4N/wmbusmeters/internal/logging"
	"github.com/2007M4N/wmbusmeters/internal/meterkeys"
	"github.com/2007M4N/wmbusmeters/internal/meters"
	"github.com/2007M4N/wmbusmeters/internal/sigcache"
	"github.com/2007M4N/wmbusmeters/internal/source"
)

func main() {
	bridgeAddr := flag.String("bridge", "", "bridge address, host:port")
	discover := flag.Bool("discover", false, "discover a bridge via mDNS instead of --bridge")
	logLevel := flag.String("log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	if err := logging.Initialize(*logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	addr := *bridgeAddr
	if *discover {
		bridge, err := discovery.QuickScan()
		if err != nil || len(bridge) == 0 {
			fmt.Fprintln(os.Stderr, "no bridge discovered on the local network")
			os.Exit(1)
		}
		addr = bridge[0].Addr()
	}
	if addr == "" {
		fmt.Fprintln(os.Stderr, "either --bridge or --discover is required")
		os.Exit(1)
	}

	list, err := config.LoadMeterList()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load meters.yaml: %v\n", err)
		os.Exit(1)
	}

	decoders := make(map[string]meters.Decoder, len(list.Meters))
	keysByName := make(map[string]meterkeys.Keys, len(list.Meters))
	for _, entry := range list.Meters {
		d, err := meters.New(entry.Driver, entry.Name, []string{entry.ID})
		if err != nil {
			fmt.Fprintf(os.Stderr, "meter %q: %v\n", entry.Name, err)
			os.Exit(1)
		}
		decoders[entry.Name] = d

		k, err := meterkeys.Parse(entry.Key, entry.AuthKey, entry.Key == "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "meter %q: %v\n", entry.Name, err)
			os.Exit(1)
		}
		keysByName[entry.Name] = k
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := source.DialTCP(ctx, addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dial bridge %s: %v\n", addr, err)
		os.Exit(1)
	}
	defer src.Close()

	feed := newFeed(src, list.Meters, decoders, keysByName, sigcache.NewSeeded())

	model := newModel(addr, feed)
	program := tea.NewProgram(model, tea.WithAltScreen())
	go feed.run(ctx, program)

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "monitor: %v\n", err)
		os.Exit(1)
	}
}
