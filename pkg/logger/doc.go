// Package logger builds the slog loggers used by the dispatch engine.
//
// Loggers write JSON (or text) records and can be decorated with context
// extractors, functions that pull request-scoped values out of a context
// on every log call. The engine stores a run ID in the context of each
// dispatch; RunIDExtractor adds it to every record logged during that run:
//
//	log := logger.New(logger.RunIDExtractor())
//	app := viewcontroller.New(viewcontroller.WithCustomLogger(log))
//
// NewWithSentry additionally forwards warnings and errors to Sentry. With an
// empty DSN it behaves like NewWithConfig.
package logger
