package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] tick=%d %s state=%s elapsed=%d\n", ev.Seq, ev.Tick, ev.Kind, ev.State, ev.Elapsed)
	}

	return buf.String()
}

// assertTraceContains checks for an event of the given kind, at the given
// tick when one is pinned.
func assertTraceContains(trace []TraceEvent, a Assertion) error {
	for _, ev := range trace {
		if ev.Kind == a.Event && (a.Tick == nil || ev.Tick == *a.Tick) {
			return nil
		}
	}

	expected := fmt.Sprintf("%s event", a.Event)
	if a.Tick != nil {
		expected = fmt.Sprintf("%s event at tick %d", a.Event, *a.Tick)
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: expected,
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that the kinds occur as a subsequence of the trace.
// Intervening events are allowed; each expected kind is matched after the
// previous match.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	pos := 0
	for i, want := range a.Events {
		found := false
		for pos < len(trace) {
			ev := trace[pos]
			pos++
			if ev.Kind == want {
				found = true
				break
			}
		}
		if !found {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order: %v", a.Events),
				Actual:   fmt.Sprintf("no %s event after %v", want, a.Events[:i]),
				Trace:    trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks that the event kind occurs exactly Count times.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, ev := range trace {
		if ev.Kind == a.Event {
			count++
		}
	}

	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Event),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertExpiredAt checks that an expiry was recorded on the given tick.
func assertExpiredAt(trace []TraceEvent, a Assertion) error {
	var ticks []uint64
	for _, ev := range trace {
		if ev.Kind != "expire" {
			continue
		}
		if ev.Tick == *a.Tick {
			return nil
		}
		ticks = append(ticks, ev.Tick)
	}

	actual := "never expired"
	if len(ticks) > 0 {
		actual = fmt.Sprintf("expired at ticks %v", ticks)
	}
	return &AssertionError{
		Type:     AssertExpiredAt,
		Expected: fmt.Sprintf("expiry at tick %d", *a.Tick),
		Actual:   actual,
		Trace:    trace,
	}
}

// EvaluateAssertions runs every assertion against the result's trace and
// returns the failure messages. An empty slice means all passed.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertExpiredAt:
			err = assertExpiredAt(result.Trace, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}
