package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/2007M4N/wmbusmeters/internal/config"
	"github.com/2007M4N/wmbusmeters/internal/logging"
	"github.com/2007M4N/wmbusmeters/internal/meterkeys"
	"github.com/2007M4N/wmbusmeters/internal/meters"
	"github.com/2007M4N/wmbusmeters/internal/sigcache"
	"github.com/2007M4N/wmbusmeters/internal/source"
	"github.com/2007M4N/wmbusmeters/internal/telegram"
)

// reading is one accepted-telegram decode, delivered to the TUI as a
// bubbletea message.
type reading struct {
	meter  string
	driver string
	id     string
	fields []meters.Field
}

// feedErr carries a non-fatal read or parse error for display in the log pane.
type feedErr struct{ err error }

// feedDone signals the bridge connection ended.
type feedDone struct{}

// feed reads raw telegrams off a TelegramSource, decodes them against every
// configured meter, and forwards results to a bubbletea program as messages.
type feed struct {
	src        source.TelegramSource
	entries    []*config.MeterEntry
	decoders   map[string]meters.Decoder
	keysByName map[string]meterkeys.Keys
	cache      *sigcache.Cache
}

func newFeed(src source.TelegramSource, entries []*config.MeterEntry, decoders map[string]meters.Decoder, keysByName map[string]meterkeys.Keys, cache *sigcache.Cache) *feed {
	return &feed{src: src, entries: entries, decoders: decoders, keysByName: keysByName, cache: cache}
}

// run drains the source until ctx is cancelled or the connection closes,
// pushing a reading, feedErr, or feedDone message to program for every
// telegram processed.
func (f *feed) run(ctx context.Context, program *tea.Program) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		raw, err := f.src.Read(ctx)
		if err == io.EOF || ctx.Err() != nil {
			program.Send(feedDone{})
			return
		}
		if err != nil {
			program.Send(feedErr{err})
			continue
		}

		for _, entry := range f.entries {
			decoder := f.decoders[entry.Name]
			keys := f.keysByName[entry.Name]

			tel, err := telegram.Parse(raw, keys, f.cache)
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
			logging.LogTelegramAccepted(tel.ID, entry.Driver, "monitor")

			program.Send(reading{
				meter:  entry.Name,
				driver: entry.Driver,
				id:     tel.ID,
				fields: decoder.CommonState().Fields,
			})
		}
	}
}
