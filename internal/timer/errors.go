package timer

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes configuration failures.
type ErrorKind string

const (
	// KindMalformedDuration indicates an unparseable delay string.
	KindMalformedDuration ErrorKind = "MALFORMED_DURATION"

	// KindMalformedFrequency indicates an unparseable frequency string.
	KindMalformedFrequency ErrorKind = "MALFORMED_FREQUENCY"

	// KindInvalidFrequency indicates a zero or negative clock frequency.
	KindInvalidFrequency ErrorKind = "INVALID_FREQUENCY"

	// KindInvalidDelay indicates a negative delay.
	KindInvalidDelay ErrorKind = "INVALID_DELAY"

	// KindCycleOverflow indicates the cycle count does not fit the 64-bit counter.
	KindCycleOverflow ErrorKind = "CYCLE_OVERFLOW"
)

// Sentinel errors for use with errors.Is.
var (
	ErrMalformedDuration  = errors.New("malformed duration")
	ErrMalformedFrequency = errors.New("malformed frequency")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidDelay       = errors.New("invalid delay")
	ErrCycleOverflow      = errors.New("cycle count overflow")
)

var sentinels = map[ErrorKind]error{
	KindMalformedDuration:  ErrMalformedDuration,
	KindMalformedFrequency: ErrMalformedFrequency,
	KindInvalidFrequency:   ErrInvalidFrequency,
	KindInvalidDelay:       ErrInvalidDelay,
	KindCycleOverflow:      ErrCycleOverflow,
}

// ConfigError is a terminal rejection of an offered configuration.
// Callers that expect a configuration to fail compare Kind, or use
// errors.Is with the matching sentinel.
type ConfigError struct {
	// Kind identifies the failure category.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Input is the offending value as the caller supplied it.
	Input string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s: %s (input=%q)", e.Kind, e.Message, e.Input)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is the sentinel for this error's kind.
func (e *ConfigError) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// KindOf extracts the ErrorKind from err.
// Returns false if err is not (and does not wrap) a ConfigError.
func KindOf(err error) (ErrorKind, bool) {
	var ce *ConfigError
	if errors.As(err, &ce) {
		return ce.Kind, true
	}
	return "", false
}

// ParseErrorKind converts a textual kind (as written in sweep or scenario
// files) into an ErrorKind.
func ParseErrorKind(s string) (ErrorKind, error) {
	k := ErrorKind(s)
	if _, ok := sentinels[k]; !ok {
		return "", fmt.Errorf("unknown error kind %q", s)
	}
	return k, nil
}

func newConfigError(kind ErrorKind, input, format string, args ...any) *ConfigError {
	return &ConfigError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Input:   input,
	}
}
