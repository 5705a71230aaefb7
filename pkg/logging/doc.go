// Package logging provides a structured logging facade for dbsmoke built on
// Go's standard slog package.
//
// All diagnostic output from the internal packages goes through this facade
// so that every entry carries a subsystem identifier (Config, MLflow,
// Databricks, Tracing, Smoke, ...) alongside the level, timestamp, and
// message. Formatted check output is written to stdout by the formatting
// package; logging always targets stderr so the two never interleave.
//
// Usage:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Config", "loaded profile %q", profile)
//	logging.Debug("MLflow", "POST %s", path)
//	logging.Error("Tracing", err, "trace export failed")
//
// The --debug flag lowers the filter level to Debug; --quiet raises it to
// Error. Logging is safe for concurrent use.
package logging
