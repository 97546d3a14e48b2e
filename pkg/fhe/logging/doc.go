// Package logging is the logging facade of the fhe packages.
//
// Logger wraps the context-aware half of log/slog:
//
//	logger := logging.New(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
//	ctx, err := fhe.NewContext(params, fhe.WithLogger(logger))
//
// Contexts log their construction, enabled features, key generation and
// evaluation-key installs. Key tags are logged; key material never is. Use
// Redacted where an attribute would otherwise carry a secret:
//
//	logger.Debug(ctx, "private key bound", "tag", tag, logging.Redacted("key"))
//	// key="[redacted]"
//
// Discard returns a Logger that drops everything, for tests and for callers
// that configure no logger.
package logging
