package media

import (
	"fmt"

	"github.com/samber/mo"
)

const (
	UnknownCategory = "Unknown Category"
	UnknownError    = "Unknown Error"
	UnknownCode     = -1
)

// ErrorInfo is a normalized engine error. Values are only produced by Table.Translate.
type ErrorInfo struct {
	Category string            `json:"category"`
	Code     int               `json:"code"`
	Name     string            `json:"name"`
	Message  mo.Option[string] `json:"message"`
}

// String renders the info as "<category>: <code>: <name>".
func (e ErrorInfo) String() string {
	return fmt.Sprintf("%s: %d: %s", e.Category, e.Code, e.Name)
}

func (e ErrorInfo) Error() string {
	if msg, ok := e.Message.Get(); ok && msg != "" {
		return fmt.Sprintf("%s (%s)", e.String(), msg)
	}
	return e.String()
}

// Known reports whether both the category and the code were found in the table.
func (e ErrorInfo) Known() bool {
	return e.Category != UnknownCategory && e.Name != UnknownError
}

// NativeError is the raw error shape emitted by engines: numeric category and code
// from the engine's own enumeration, plus an optional free-form message.
type NativeError struct {
	Category int
	Code     int
	Message  string
}

func (e *NativeError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("native error %d/%d: %s", e.Category, e.Code, e.Message)
	}
	return fmt.Sprintf("native error %d/%d", e.Category, e.Code)
}

// Kind classifies the faults an adapter can report to its host.
type Kind int

const (
	KindUnsupportedPlatform Kind = iota
	KindLoad
	KindRuntime
	KindTimeout
	KindMissingSource
)

func (k Kind) String() string {
	switch k {
	case KindUnsupportedPlatform:
		return "UnsupportedPlatform"
	case KindLoad:
		return "LoadError"
	case KindRuntime:
		return "RuntimeError"
	case KindTimeout:
		return "Timeout"
	case KindMissingSource:
		return "MissingSource"
	default:
		return "Unknown"
	}
}

// Fault is a reported adapter failure. Faults are terminal for the operation that
// produced them, never for the process.
type Fault struct {
	Kind Kind
	Info ErrorInfo
	Err  error
}

func (f *Fault) Error() string {
	switch f.Kind {
	case KindLoad, KindRuntime:
		return f.Info.String()
	}
	if f.Err != nil {
		return f.Err.Error()
	}
	return f.Kind.String()
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Warning reports whether the fault is reported at warning level.
func (f *Fault) Warning() bool {
	return f.Kind == KindMissingSource
}
