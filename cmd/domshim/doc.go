// Package main is the domshim command line tool.
//
// It loads an HTML document, runs page scripts against it through the DOM
// shim, fires host events at matching nodes, and prints the resulting
// document.
//
// Usage:
//
//	# Run scripts against a page and print the mutated HTML
//	domshim -html page.html main.js widgets.js
//
//	# Run a manifest and print a JSON report
//	domshim -manifest page.yaml -json
//
//	# Development mode (colored debug logs on stderr)
//	domshim -dev -html page.html main.js
//
// Configuration:
//   - Environment variables (DOMSHIM_*)
//   - CLI flags (override env vars)
package main
