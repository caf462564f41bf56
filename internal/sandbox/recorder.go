package sandbox

import (
	"time"

	"github.com/GriffinCanCode/domshim/internal/shim"
)

// recorder forwards every call to the host bridge and remembers console
// lines and innerHTML writes until the next reset.
type recorder struct {
	next           shim.Bridge
	captureConsole bool

	console   []LogEntry
	mutations []Mutation
}

func (r *recorder) Log(message string) error {
	if r.captureConsole {
		r.console = append(r.console, LogEntry{Message: message, Time: time.Now()})
	}
	return r.next.Log(message)
}

func (r *recorder) QuerySelectorAll(selector string) ([]shim.Handle, error) {
	return r.next.QuerySelectorAll(selector)
}

func (r *recorder) GetAttribute(h shim.Handle, name string) (string, bool, error) {
	return r.next.GetAttribute(h, name)
}

func (r *recorder) SetInnerHTML(h shim.Handle, html string) error {
	if err := r.next.SetInnerHTML(h, html); err != nil {
		return err
	}
	r.mutations = append(r.mutations, Mutation{Handle: h, HTML: html})
	return nil
}

// drain returns what was recorded and starts over.
func (r *recorder) drain() ([]LogEntry, []Mutation) {
	console, mutations := r.console, r.mutations
	r.console, r.mutations = nil, nil
	return console, mutations
}
