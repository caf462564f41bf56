// Package logging builds the zap loggers used across domshim.
//
// Two modes are available:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Components take a *zap.Logger and name their own child logger, so every
// line carries where it came from ("sandbox", "shim", "host").
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	defer logger.Sync()
//	logger.Info("script finished", zap.String("script", "main.js"))
package logging
