package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/GriffinCanCode/domshim/internal/config"
	"github.com/GriffinCanCode/domshim/internal/host"
	"github.com/GriffinCanCode/domshim/internal/manifest"
	"github.com/GriffinCanCode/domshim/internal/monitoring"
	"github.com/GriffinCanCode/domshim/internal/sandbox"
	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type script struct {
	name   string
	source string
}

// page is everything needed for one run.
type page struct {
	html    string
	scripts []script
	events  []manifest.Event
}

type scriptReport struct {
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	Mutations  int    `json:"mutations"`
	Error      string `json:"error,omitempty"`
}

type eventReport struct {
	Selector  string `json:"selector"`
	Type      string `json:"type"`
	Handle    string `json:"handle,omitempty"`
	DoDefault bool   `json:"do_default"`
	Error     string `json:"error,omitempty"`
}

type report struct {
	HTML    string              `json:"html"`
	Console []string            `json:"console"`
	Scripts []scriptReport      `json:"scripts"`
	Events  []eventReport       `json:"events"`
	Metrics monitoring.Snapshot `json:"metrics"`
}

// loadPage builds a page from either a manifest or an HTML path plus script
// arguments. Scripts given on the command line run after manifest scripts.
func loadPage(htmlPath, manifestPath string, args []string) (*page, error) {
	p := &page{}
	var scriptPaths []string

	switch {
	case manifestPath != "":
		m, err := manifest.Load(manifestPath)
		if err != nil {
			return nil, err
		}
		htmlPath = m.HTMLPath()
		scriptPaths = m.ScriptPaths()
		p.events = m.Events
	case htmlPath == "":
		return nil, errors.New("either -html or -manifest is required")
	}

	data, err := os.ReadFile(htmlPath)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	p.html = string(data)

	for _, path := range append(scriptPaths, args...) {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		p.scripts = append(p.scripts, script{name: path, source: string(src)})
	}
	return p, nil
}

// run executes every script in one session, then fires the page events.
// Script and listener failures are reported, not returned; only setup
// failures abort the run.
func run(ctx context.Context, cfg *config.Config, p *page, logger *zap.Logger) (*report, error) {
	doc, err := host.ParseString(p.html, host.Options{
		Sanitize: cfg.Host.Sanitize,
		Logger:   logger.Named("host"),
	})
	if err != nil {
		return nil, err
	}

	metrics := monitoring.NewMetrics(prometheus.NewRegistry())
	bridge := monitoring.InstrumentBridge(doc, metrics)

	rt, err := sandbox.New(cfg.Sandbox.Runtime(), bridge, logger.Named("sandbox"))
	if err != nil {
		return nil, err
	}
	defer rt.Close()

	rep := &report{}
	for _, s := range p.scripts {
		result, err := rt.Execute(ctx, s.name, s.source)
		sr := scriptReport{Name: s.name}
		if result != nil {
			sr.DurationMS = result.Duration.Milliseconds()
			sr.Mutations = len(result.Mutations)
		}
		if err != nil {
			sr.Error = err.Error()
			logger.Warn("Script failed", zap.String("script", s.name), zap.Error(err))
		}
		rep.Scripts = append(rep.Scripts, sr)
	}

	for _, ev := range p.events {
		handles, err := doc.QuerySelectorAll(ev.Selector)
		if err != nil {
			rep.Events = append(rep.Events, eventReport{Selector: ev.Selector, Type: ev.Type, Error: err.Error()})
			continue
		}
		for _, h := range handles {
			er := eventReport{Selector: ev.Selector, Type: ev.Type, Handle: string(h)}
			doDefault, err := rt.DispatchEvent(ctx, h, ev.Type)
			if err != nil {
				er.Error = err.Error()
				logger.Warn("Dispatch failed", zap.String("type", ev.Type), zap.String("handle", string(h)), zap.Error(err))
			} else {
				er.DoDefault = doDefault
				metrics.RecordDispatch(ev.Type, doDefault)
			}
			rep.Events = append(rep.Events, er)
		}
	}

	if rep.HTML, err = doc.Render(); err != nil {
		return nil, err
	}
	rep.Console = doc.Console()
	rep.Metrics = metrics.Snapshot()
	return rep, nil
}

func (r *report) failed() bool {
	for _, s := range r.Scripts {
		if s.Error != "" {
			return true
		}
	}
	for _, e := range r.Events {
		if e.Error != "" {
			return true
		}
	}
	return false
}

func (r *report) write(w io.Writer, asJSON bool) error {
	if !asJSON {
		_, err := io.WriteString(w, r.HTML+"\n")
		return err
	}
	data, err := sonic.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
