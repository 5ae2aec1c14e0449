// Package logging provides structured logging for the wmbusmeters decode pipeline.
//
// It wraps zap with convenience functions for the events the pipeline cares
// about: frame detection, telegram acceptance/rejection, and crypto failures.
// Logging is silent by default (a Nop logger) so that library callers and
// test binaries never produce unexpected output; set WMBUS_LOG_LEVEL or call
// Initialize explicitly to turn it on.
//
// # Log Levels
//
//   - Debug: per-stage parse tracing (DLL/ELL/NWL/AFL/TPL), hex dumps
//   - Info: accepted telegrams, driver matches, discovered bridges
//   - Warn: recoverable decode issues (unknown CI field, signature miss)
//   - Error: unrecoverable issues (malformed frame, MAC failure)
//
// # Configuration
//
//	if err := logging.Initialize("debug"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
package logging
