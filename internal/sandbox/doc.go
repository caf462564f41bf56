/*
Package sandbox runs page scripts against the DOM shim inside a goja runtime.

# Overview

A Runtime is one scripting session bound to one host Bridge. It owns:

  - a goja VM with Node.js style globals removed
  - the DOM shim and its listener registry
  - a recorder that captures console output and innerHTML writes per call
  - a watchdog that interrupts the VM on timeout or context cancellation

Every entry into the VM goes through the Runtime's lock, so the shim only
ever runs on one goroutine at a time.

# Usage Example

	rt, err := sandbox.New(sandbox.DefaultConfig(), doc, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	result, err := rt.Execute(ctx, "main.js", script)
	if err != nil {
		logger.Error("script failed", zap.Error(err))
	}

	doDefault, err := rt.DispatchEvent(ctx, handle, "click")

# Errors

Script exceptions and bridge failures come back as the goja error returned by
the VM. Timeouts wrap ErrTimeout and cancellations wrap the context error.
*/
package sandbox
