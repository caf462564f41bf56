/*
Package monitoring provides Prometheus metrics for host bridge traffic.

# Overview

InstrumentBridge wraps a shim.Bridge so every call is counted and timed per
operation (log, query_selector_all, get_attribute, innerHTML_set). Totals are
also kept in a Snapshot for callers that want plain numbers instead of a
scrape.

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)
	bridge := monitoring.InstrumentBridge(doc, metrics)

	// ... run scripts ...

	snap := metrics.Snapshot()
	fmt.Println(snap.Calls["query_selector_all"])
*/
package monitoring
