package shim

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Shim is the DOM emulation installed into one goja runtime.
type Shim struct {
	vm       *goja.Runtime
	bridge   Bridge
	registry *Registry
	log      *zap.Logger

	nodeProto  *goja.Object
	eventProto *goja.Object
	dispatchFn goja.Callable
}

// Install defines console, document, Node and Event on the global object of
// vm. A nil logger disables logging.
func Install(vm *goja.Runtime, bridge Bridge, log *zap.Logger) (*Shim, error) {
	if bridge == nil {
		return nil, fmt.Errorf("shim: nil bridge")
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &Shim{
		vm:       vm,
		bridge:   bridge,
		registry: NewRegistry(),
		log:      log,
	}

	steps := []struct {
		name  string
		setup func() error
	}{
		{"console", s.setupConsole},
		{"Node", s.setupNode},
		{"Event", s.setupEvent},
		{"document", s.setupDocument},
	}
	for _, step := range steps {
		if err := step.setup(); err != nil {
			return nil, fmt.Errorf("shim: setup %s: %w", step.name, err)
		}
	}

	return s, nil
}

// Registry returns the listener registry owned by this shim.
func (s *Shim) Registry() *Registry {
	return s.registry
}

// NewNode wraps h in a fresh Node object.
func (s *Shim) NewNode(h Handle) *goja.Object {
	obj := s.vm.NewObject()
	if err := obj.SetPrototype(s.nodeProto); err != nil {
		panic(s.vm.NewGoError(err))
	}
	s.bindHandle(obj, h)
	return obj
}

// NewEvent creates an Event object of the given type, as `new Event(type)` would.
func (s *Shim) NewEvent(eventType string) *goja.Object {
	obj := s.vm.NewObject()
	if err := obj.SetPrototype(s.eventProto); err != nil {
		panic(s.vm.NewGoError(err))
	}
	initEvent(obj, s.vm.ToValue(eventType))
	return obj
}

// Dispatch fires a fresh Event of eventType at the node behind h and reports
// whether the default action should still run. It must be called from the
// goroutine that owns the VM.
func (s *Shim) Dispatch(h Handle, eventType string) (doDefault bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shim: dispatch %q on %s: %v", eventType, h, r)
		}
	}()

	node := s.NewNode(h)
	event := s.NewEvent(eventType)
	v, err := s.dispatchFn(node, event)
	if err != nil {
		return false, err
	}

	s.log.Debug("dispatched",
		zap.String("handle", string(h)),
		zap.String("type", eventType),
		zap.Bool("do_default", v.ToBoolean()),
	)
	return v.ToBoolean(), nil
}

func (s *Shim) setupConsole() error {
	console := s.vm.NewObject()
	if err := console.Set("log", s.consoleLog); err != nil {
		return err
	}
	return s.vm.Set("console", console)
}

func (s *Shim) consoleLog(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = arg.String()
	}
	if err := s.bridge.Log(strings.Join(parts, " ")); err != nil {
		s.throw(err)
	}
	return goja.Undefined()
}

func (s *Shim) setupDocument() error {
	document := s.vm.NewObject()
	if err := document.Set("querySelectorAll", s.querySelectorAll); err != nil {
		return err
	}
	return s.vm.Set("document", document)
}

func (s *Shim) querySelectorAll(call goja.FunctionCall) goja.Value {
	selector := call.Argument(0).String()
	handles, err := s.bridge.QuerySelectorAll(selector)
	if err != nil {
		s.throw(err)
	}

	nodes := make([]interface{}, len(handles))
	for i, h := range handles {
		nodes[i] = s.NewNode(h)
	}
	s.log.Debug("query", zap.String("selector", selector), zap.Int("matches", len(nodes)))
	return s.vm.NewArray(nodes...)
}

// throw raises err into the running script as a GoError so the bridge
// error stays reachable through errors.Is on the host side.
func (s *Shim) throw(err error) {
	panic(s.vm.NewGoError(err))
}
