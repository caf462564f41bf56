/*
Package shim emulates a small slice of the browser DOM inside a goja runtime.

# Overview

Scripts see the familiar globals:

  - console.log
  - document.querySelectorAll
  - Node with getAttribute, a write-only innerHTML, addEventListener and dispatchEvent
  - Event with preventDefault

None of the real DOM work happens here. Queries, attribute reads, innerHTML
writes and log lines are forwarded to a Bridge supplied by the host. Event
listeners are the exception: they are stored and fired locally, the host is
never involved in dispatch.

# Handles

A Node carries exactly one opaque Handle issued by the host. Listeners are
keyed by handle value, so two Node objects wrapping the same handle share one
listener list.

# Lifetime

A Shim and its Registry live for the whole session of the runtime they were
installed into. Listeners are never removed; growth is bounded only by the
session.

# Usage Example

	vm := goja.New()
	s, err := shim.Install(vm, bridge, logger)
	if err != nil {
		return err
	}
	_, err = vm.RunString(`document.querySelectorAll("p")[0].innerHTML = "hi"`)

# Errors

Bridge failures are raised into JavaScript unchanged; listener exceptions abort
the rest of that dispatch and propagate to whoever called dispatchEvent.
*/
package shim
