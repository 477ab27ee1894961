// Package simerr defines the error taxonomy shared across the simulator:
// configuration/data errors that are expected to happen and should be
// handled by the caller, and invariant violations that indicate a bug in
// the kernel itself.
package simerr

import "fmt"

// Kind classifies an error for callers that want to branch on it.
type Kind int

const (
	// KindConfig marks invalid or missing configuration, fatal before a run starts.
	KindConfig Kind = iota
	// KindData marks an unparseable dataset row or other input data defect, fatal during configure.
	KindData
	// KindInvariant marks an internal bug: an invariant the kernel itself must uphold was broken.
	KindInvariant
	// KindStrategy marks a consumed search strategy returning an invalid decision.
	KindStrategy
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "ConfigError"
	case KindData:
		return "DataError"
	case KindInvariant:
		return "InvariantViolation"
	case KindStrategy:
		return "StrategyError"
	default:
		return "UnknownError"
	}
}

// Error is a typed, wrappable error carrying a Kind.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Config wraps msg/err as a ConfigError.
func Config(msg string, err error) *Error { return &Error{Kind: KindConfig, Msg: msg, Err: err} }

// Data wraps msg/err as a DataError.
func Data(msg string, err error) *Error { return &Error{Kind: KindData, Msg: msg, Err: err} }

// Invariant wraps msg as an InvariantViolation. Callers that detect a
// broken invariant should panic with this rather than return it:
// invariant violations are fatal-with-diagnostic, not a recoverable
// error path.
func Invariant(msg string, args ...any) *Error {
	return &Error{Kind: KindInvariant, Msg: fmt.Sprintf(msg, args...)}
}

// Strategy wraps msg/err as a StrategyError.
func Strategy(msg string, err error) *Error { return &Error{Kind: KindStrategy, Msg: msg, Err: err} }
