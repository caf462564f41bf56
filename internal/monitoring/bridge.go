package monitoring

import (
	"time"

	"github.com/GriffinCanCode/domshim/internal/shim"
)

type instrumentedBridge struct {
	next    shim.Bridge
	metrics *Metrics
}

// InstrumentBridge returns a Bridge that records every call on b into m.
func InstrumentBridge(b shim.Bridge, m *Metrics) shim.Bridge {
	return &instrumentedBridge{next: b, metrics: m}
}

func (b *instrumentedBridge) Log(message string) error {
	start := time.Now()
	err := b.next.Log(message)
	b.metrics.RecordBridgeCall(shim.OpLog, time.Since(start), err)
	return err
}

func (b *instrumentedBridge) QuerySelectorAll(selector string) ([]shim.Handle, error) {
	start := time.Now()
	handles, err := b.next.QuerySelectorAll(selector)
	b.metrics.RecordBridgeCall(shim.OpQuerySelectorAll, time.Since(start), err)
	return handles, err
}

func (b *instrumentedBridge) GetAttribute(h shim.Handle, name string) (string, bool, error) {
	start := time.Now()
	value, ok, err := b.next.GetAttribute(h, name)
	b.metrics.RecordBridgeCall(shim.OpGetAttribute, time.Since(start), err)
	return value, ok, err
}

func (b *instrumentedBridge) SetInnerHTML(h shim.Handle, html string) error {
	start := time.Now()
	err := b.next.SetInnerHTML(h, html)
	b.metrics.RecordBridgeCall(shim.OpInnerHTMLSet, time.Since(start), err)
	return err
}
