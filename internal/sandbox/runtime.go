package sandbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GriffinCanCode/domshim/internal/shim"
	"github.com/dop251/goja"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Runtime wraps a goja VM with the DOM shim installed
type Runtime struct {
	id     string
	vm     *goja.Runtime
	shim   *shim.Shim
	rec    *recorder
	config Config
	log    *zap.Logger

	mu     sync.Mutex
	closed bool
}

// New creates a runtime whose DOM calls are served by bridge.
func New(config Config, bridge shim.Bridge, log *zap.Logger) (*Runtime, error) {
	if bridge == nil {
		return nil, errors.New("sandbox: nil bridge")
	}
	if log == nil {
		log = zap.NewNop()
	}

	id := uuid.New().String()
	r := &Runtime{
		id:     id,
		vm:     goja.New(),
		config: config,
		log:    log.With(zap.String("session", id)),
		rec: &recorder{
			next:           bridge,
			captureConsole: config.CaptureConsole,
		},
	}

	if config.MaxCallStackSize > 0 {
		r.vm.SetMaxCallStackSize(config.MaxCallStackSize)
	}

	if err := r.setupGlobals(); err != nil {
		return nil, err
	}

	s, err := shim.Install(r.vm, r.rec, r.log.Named("shim"))
	if err != nil {
		return nil, fmt.Errorf("sandbox: %w", err)
	}
	r.shim = s

	r.log.Debug("runtime created", zap.Duration("timeout", config.Timeout))
	return r, nil
}

// ID returns the session identifier attached to this runtime's logs.
func (r *Runtime) ID() string {
	return r.id
}

// Shim returns the installed DOM shim.
func (r *Runtime) Shim() *shim.Shim {
	return r.shim
}

// Execute runs script with timeout and context cancellation. name is used
// in stack traces and error positions.
func (r *Runtime) Execute(ctx context.Context, name, script string) (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrClosed
	}

	start := time.Now()
	result := &Result{}

	var val goja.Value
	err := r.guard(ctx, func() (err error) {
		val, err = r.vm.RunScript(name, script)
		return err
	})

	result.Duration = time.Since(start)
	result.Console, result.Mutations = r.rec.drain()

	if err != nil {
		result.Error = err
		r.log.Debug("script failed", zap.String("script", name), zap.Error(err))
		return result, err
	}

	result.Value = exportValue(val)
	r.log.Debug("script finished",
		zap.String("script", name),
		zap.Duration("duration", result.Duration),
		zap.Int("mutations", len(result.Mutations)),
	)
	return result, nil
}

// DispatchEvent fires an event of eventType at the node behind h, the way
// the host does for clicks and key presses, and reports whether the host
// should still carry out its default action.
func (r *Runtime) DispatchEvent(ctx context.Context, h shim.Handle, eventType string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false, ErrClosed
	}

	var doDefault bool
	err := r.guard(ctx, func() (err error) {
		doDefault, err = r.shim.Dispatch(h, eventType)
		return err
	})
	r.rec.drain()
	if err != nil {
		return false, err
	}
	return doDefault, nil
}

// Close releases the VM. The listener registry goes with it.
func (r *Runtime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.vm = nil
	r.shim = nil
	r.log.Debug("runtime closed")
	return nil
}

// guard runs fn with a watchdog that interrupts the VM when the timeout
// expires or ctx is done. Panics escaping goja are converted to errors.
func (r *Runtime) guard(ctx context.Context, fn func() error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan struct{})
	exited := make(chan struct{})

	var timeout <-chan time.Time
	if r.config.Timeout > 0 {
		timer := time.NewTimer(r.config.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	go func() {
		defer close(exited)
		select {
		case <-timeout:
			r.vm.Interrupt(ErrTimeout)
		case <-ctx.Done():
			r.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	defer func() {
		close(done)
		<-exited
		r.vm.ClearInterrupt()
	}()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("sandbox: panic: %v", p)
		}
	}()

	return unwrapInterrupt(fn())
}

// unwrapInterrupt makes the reason passed to Interrupt reachable with errors.Is.
func unwrapInterrupt(err error) error {
	var ie *goja.InterruptedError
	if errors.As(err, &ie) {
		if reason, ok := ie.Value().(error); ok {
			return fmt.Errorf("%w: %s", reason, ie.String())
		}
	}
	return err
}

// setupGlobals removes module-system globals scripts must not rely on
func (r *Runtime) setupGlobals() error {
	for _, name := range []string{"require", "process", "module", "exports"} {
		if err := r.vm.Set(name, goja.Undefined()); err != nil {
			return fmt.Errorf("sandbox: clear %s: %w", name, err)
		}
	}
	return nil
}

// exportValue converts goja value to Go value
func exportValue(val goja.Value) interface{} {
	if val == nil || goja.IsUndefined(val) || goja.IsNull(val) {
		return nil
	}
	return val.Export()
}
