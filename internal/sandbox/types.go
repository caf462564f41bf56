package sandbox

import (
	"errors"
	"time"

	"github.com/GriffinCanCode/domshim/internal/shim"
)

var (
	ErrTimeout = errors.New("sandbox: execution timeout exceeded")
	ErrClosed  = errors.New("sandbox: runtime is closed")
)

// Config defines sandbox configuration
type Config struct {
	Timeout          time.Duration // Per-call execution timeout, zero disables it
	MaxCallStackSize int           // goja call stack limit, zero keeps the goja default
	CaptureConsole   bool          // Record console.log lines into Result
}

// Result holds execution result
type Result struct {
	Value     interface{}   // Exported completion value
	Console   []LogEntry    // console.log lines emitted during the call
	Mutations []Mutation    // innerHTML writes forwarded during the call
	Duration  time.Duration // Execution time
	Error     error         // Execution error
}

// LogEntry represents console output
type LogEntry struct {
	Message string
	Time    time.Time
}

// Mutation is one innerHTML write that reached the host.
type Mutation struct {
	Handle shim.Handle
	HTML   string
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Timeout:          5 * time.Second,
		MaxCallStackSize: 1024,
		CaptureConsole:   true,
	}
}
