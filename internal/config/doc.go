// Package config provides 12-factor configuration management for domshim.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Sandbox: Script timeout, call stack limit, console capture
//   - Host: innerHTML sanitizing policy
//   - Logging: Log level and output format
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	rt, err := sandbox.New(cfg.Sandbox.Runtime(), bridge, logger)
//
// Environment Variables:
//   - DOMSHIM_TIMEOUT, DOMSHIM_MAX_CALL_STACK, DOMSHIM_CAPTURE_CONSOLE
//   - DOMSHIM_SANITIZE
//   - DOMSHIM_LOG_LEVEL, DOMSHIM_LOG_DEV
package config
