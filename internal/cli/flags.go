package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/roach88/dtimer/internal/timer"
)

// frequencyValue is a pflag.Value holding a frequency as written. Parsing
// is deferred to timer.ParseFrequency so malformed values surface as
// configuration errors with their error kind.
type frequencyValue struct {
	text string
}

var _ pflag.Value = (*frequencyValue)(nil)

func (f *frequencyValue) String() string { return f.text }

func (f *frequencyValue) Set(s string) error {
	f.text = strings.TrimSpace(s)
	return nil
}

func (f *frequencyValue) Type() string { return "frequency" }

// delayValue is a pflag.Value holding a delay token. A plain integer is
// raw nanoseconds; anything else is a unit string such as "100us".
type delayValue struct {
	tok timer.DelayToken
}

var _ pflag.Value = (*delayValue)(nil)

func (d *delayValue) String() string {
	if d.tok == nil {
		return ""
	}
	return d.tok.String()
}

func (d *delayValue) Set(s string) error {
	d.tok = delayToken(s)
	return nil
}

func (d *delayValue) Type() string { return "delay" }

// delayToken classifies command-line delay text into its encoding.
func delayToken(s string) timer.DelayToken {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return timer.RawNanoseconds(n)
	}
	return timer.UnitString(s)
}

// kindValue is a pflag.Value restricted to a fixed set of choices.
type kindValue struct {
	value   string
	choices []string
}

func newKindValue(def string, choices ...string) *kindValue {
	return &kindValue{value: def, choices: choices}
}

func (k *kindValue) String() string { return k.value }

func (k *kindValue) Set(s string) error {
	for _, c := range k.choices {
		if s == c {
			k.value = s
			return nil
		}
	}
	return &invalidChoiceError{value: s, choices: k.choices}
}

func (k *kindValue) Type() string { return "kind" }

type invalidChoiceError struct {
	value   string
	choices []string
}

func (e *invalidChoiceError) Error() string {
	return "invalid value " + strconv.Quote(e.value) + ": must be one of " + strings.Join(e.choices, "|")
}
