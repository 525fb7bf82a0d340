// Package logger provides structured logging for cardcrawl.
//
// It wraps zerolog behind a small Logger interface. Console output is
// human-readable and goes to stderr; setting logging.file in the
// configuration adds a JSON log file rotated by lumberjack.
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	log := logger.GetLogger().WithField("component", "crawler")
//	log.InfoWithFields("Discovery finished", map[string]interface{}{
//	    "identifiers": 120,
//	})
//
// Tests use NewTestLogger to capture entries, or NewNopLogger to drop them.
package logger
