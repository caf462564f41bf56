package shim

import "github.com/dop251/goja"

const (
	typeKey      = "type"
	doDefaultKey = "do_default"
)

func (s *Shim) setupEvent() error {
	vm := s.vm
	s.eventProto = vm.NewObject()

	ctor := vm.ToValue(func(call goja.ConstructorCall) *goja.Object {
		initEvent(call.This, call.Argument(0))
		return nil
	}).ToObject(vm)
	if err := ctor.Set("prototype", s.eventProto); err != nil {
		return err
	}
	if err := s.eventProto.Set("constructor", ctor); err != nil {
		return err
	}

	preventDefault := func(call goja.FunctionCall) goja.Value {
		call.This.ToObject(vm).Set(doDefaultKey, false)
		return goja.Undefined()
	}
	if err := s.eventProto.Set("preventDefault", preventDefault); err != nil {
		return err
	}

	return vm.Set("Event", ctor)
}

func initEvent(obj *goja.Object, eventType goja.Value) {
	obj.Set(typeKey, eventType)
	obj.Set(doDefaultKey, true)
}
