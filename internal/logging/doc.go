// Package logging provides the operator log for chemviz.
//
// The operator log is a JSON-lines file written through log/slog. It is the
// channel for failures that are deliberately kept away from the user: a
// history refresh that failed, a report that could not be opened, or the
// underlying cause behind the generic upload failure banner.
//
// # Basic Usage
//
//	logger, err := logging.NewLoggerWithRotation(dir, "INFO", logging.RotationConfig{
//	    MaxSizeMB:  5,
//	    MaxBackups: 3,
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithComponent("history").Warn("history refresh failed", "error", err)
//
// Output:
//
//	{"time":"...","level":"WARN","msg":"history refresh failed","component":"history","error":"..."}
//
// # Context
//
// [Logger.WithComponent] and [Logger.WithRequest] return child loggers that
// share the parent's file. [Logger.With] attaches arbitrary pairs.
//
// # Reading Logs
//
// [ReadEntries], [FilterLogs] and [WriteEntries] back the `chemviz logs`
// command:
//
//	entries, _ := logging.ReadEntries(path)
//	entries = logging.FilterLogs(entries, logging.LogFilter{Level: "WARN"})
//	_ = logging.WriteEntries(os.Stdout, logging.Tail(entries, 50), "text")
//
// # Thread Safety
//
// [Logger] and [RotatingWriter] are safe for concurrent use.
package logging
