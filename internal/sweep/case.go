package sweep

import (
	"fmt"
	"strconv"

	"github.com/roach88/dtimer/internal/ir"
	"github.com/roach88/dtimer/internal/timer"
)

// Delay encodings, as recorded in case IDs and the store.
const (
	EncodingRawNanoseconds = "raw_ns"
	EncodingUnitString     = "unit_string"
)

// Sweep is a named list of cases.
type Sweep struct {
	Name        string
	Description string
	Cases       []Case
}

// Case is one timer configuration to exercise.
type Case struct {
	// Name identifies the case in reports, e.g. "F50000000_D100us".
	Name string

	// Frequency is the clock rate as written: "50000000" or "50MHz".
	Frequency string

	// Delay is the requested delay in either external encoding.
	Delay timer.DelayToken

	// Expect is the expected outcome. The zero value expects a valid
	// configuration without pinning the cycle count.
	Expect Expectation
}

// Expectation describes the outcome a case must produce.
// At most one of Cycles and Error is set.
type Expectation struct {
	// Cycles, if non-nil, is the exact target cycle count.
	Cycles *uint64

	// Error, if non-empty, is the configuration error kind the case must fail with.
	Error timer.ErrorKind
}

// ExpectsError reports whether the case is supposed to be rejected.
func (e Expectation) ExpectsError() bool {
	return e.Error != ""
}

// Cycles returns a pointer to n, for building expectations.
func Cycles(n uint64) *uint64 {
	return &n
}

// ID returns the content-addressed ID of the case definition.
func (c Case) ID() (string, error) {
	return ir.CaseID(c.Frequency, DelayEncoding(c.Delay), delayText(c.Delay))
}

// Validate checks that the case is well-formed as a definition. It does not
// parse the frequency or delay; malformed values are legitimate test inputs.
func (c Case) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("case name is required")
	}
	if c.Frequency == "" {
		return fmt.Errorf("case %s: frequency is required", c.Name)
	}
	if c.Delay == nil {
		return fmt.Errorf("case %s: delay is required", c.Name)
	}
	if c.Expect.Cycles != nil && c.Expect.ExpectsError() {
		return fmt.Errorf("case %s: expect cycles and expect error are mutually exclusive", c.Name)
	}
	return nil
}

// DelayEncoding names the encoding of a delay token.
func DelayEncoding(tok timer.DelayToken) string {
	switch tok.(type) {
	case timer.RawNanoseconds:
		return EncodingRawNanoseconds
	case timer.UnitString:
		return EncodingUnitString
	default:
		return "unknown"
	}
}

func delayText(tok timer.DelayToken) string {
	if tok == nil {
		return ""
	}
	return tok.String()
}

// Hz formats an integer frequency the way cases store it.
func Hz(hz int64) string {
	return strconv.FormatInt(hz, 10)
}

// DelayFromText rebuilds a delay token from its recorded encoding and text.
func DelayFromText(encoding, text string) (timer.DelayToken, error) {
	switch encoding {
	case EncodingRawNanoseconds:
		ns, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("raw delay %q: %w", text, err)
		}
		return timer.RawNanoseconds(ns), nil
	case EncodingUnitString:
		return timer.UnitString(text), nil
	default:
		return nil, fmt.Errorf("unknown delay encoding %q", encoding)
	}
}
