package shim

import (
	"errors"

	"github.com/dop251/goja"
)

const handleKey = "handle"

func (s *Shim) setupNode() error {
	vm := s.vm
	s.nodeProto = vm.NewObject()

	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		s.bindHandle(call.This, Handle(call.Argument(0).String()))
		return nil
	}).ToObject(vm)
	if err := ctor.Set("prototype", s.nodeProto); err != nil {
		return err
	}

	methods := map[string]func(goja.FunctionCall) goja.Value{
		"getAttribute":     s.getAttribute,
		"addEventListener": s.addEventListener,
		"dispatchEvent":    s.dispatchEvent,
	}
	for name, fn := range methods {
		if err := s.nodeProto.Set(name, fn); err != nil {
			return err
		}
	}
	if err := s.nodeProto.Set("constructor", ctor); err != nil {
		return err
	}

	// innerHTML has a setter only; reading it yields undefined.
	setter := vm.ToValue(s.setInnerHTML)
	if err := s.nodeProto.DefineAccessorProperty("innerHTML", nil, setter, goja.FLAG_FALSE, goja.FLAG_TRUE); err != nil {
		return err
	}

	fn, ok := goja.AssertFunction(s.nodeProto.Get("dispatchEvent"))
	if !ok {
		return errors.New("Node.prototype.dispatchEvent is not callable")
	}
	s.dispatchFn = fn

	return vm.Set("Node", ctor)
}

// bindHandle stores h on obj as a read-only, non-configurable property.
func (s *Shim) bindHandle(obj *goja.Object, h Handle) {
	err := obj.DefineDataProperty(handleKey, s.vm.ToValue(string(h)), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_TRUE)
	if err != nil {
		s.throw(err)
	}
}

// handleOf returns the handle of the Node the method was invoked on.
func (s *Shim) handleOf(this goja.Value) Handle {
	if this == nil || goja.IsUndefined(this) || goja.IsNull(this) {
		panic(s.vm.NewTypeError("Illegal invocation"))
	}
	v := this.ToObject(s.vm).Get(handleKey)
	if v == nil {
		panic(s.vm.NewTypeError("Illegal invocation"))
	}
	return Handle(v.String())
}

func (s *Shim) getAttribute(call goja.FunctionCall) goja.Value {
	h := s.handleOf(call.This)
	value, ok, err := s.bridge.GetAttribute(h, call.Argument(0).String())
	if err != nil {
		s.throw(err)
	}
	if !ok {
		return goja.Null()
	}
	return s.vm.ToValue(value)
}

func (s *Shim) setInnerHTML(call goja.FunctionCall) goja.Value {
	h := s.handleOf(call.This)
	if err := s.bridge.SetInnerHTML(h, call.Argument(0).String()); err != nil {
		s.throw(err)
	}
	return goja.Undefined()
}

func (s *Shim) addEventListener(call goja.FunctionCall) goja.Value {
	h := s.handleOf(call.This)
	fn, ok := goja.AssertFunction(call.Argument(1))
	if !ok {
		panic(s.vm.NewTypeError("Failed to execute 'addEventListener': parameter 2 is not a function"))
	}
	s.registry.Add(h, call.Argument(0).String(), fn)
	return goja.Undefined()
}

// dispatchEvent runs every listener for (handle, event.type) in registration
// order with this bound to the node. The list length is re-read each
// iteration, so listeners added mid-dispatch run too.
func (s *Shim) dispatchEvent(call goja.FunctionCall) goja.Value {
	h := s.handleOf(call.This)
	arg := call.Argument(0)
	if goja.IsUndefined(arg) || goja.IsNull(arg) {
		panic(s.vm.NewTypeError("Failed to execute 'dispatchEvent': parameter 1 is not an object"))
	}
	event := arg.ToObject(s.vm)
	eventType := goja.Undefined().String()
	if t := event.Get(typeKey); t != nil {
		eventType = t.String()
	}

	for i := 0; i < s.registry.Len(h, eventType); i++ {
		if _, err := s.registry.At(h, eventType, i)(call.This, event); err != nil {
			panic(err)
		}
	}

	if v := event.Get(doDefaultKey); v != nil {
		return v
	}
	return goja.Undefined()
}
