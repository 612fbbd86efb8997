package timer

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// DelayToken is one of the two external encodings of a delay.
// The set is closed: RawNanoseconds and UnitString are the only implementations.
type DelayToken interface {
	delayToken()

	// String renders the token as it was supplied.
	String() string
}

// RawNanoseconds is a delay already expressed in canonical nanoseconds.
type RawNanoseconds int64

func (RawNanoseconds) delayToken() {}

func (r RawNanoseconds) String() string {
	return strconv.FormatInt(int64(r), 10)
}

// UnitString is a delay written as <number><unit>, e.g. "100us" or "-10us".
type UnitString string

func (UnitString) delayToken() {}

func (u UnitString) String() string {
	return string(u)
}

// Nanoseconds per recognized duration unit.
const (
	Nanosecond  int64 = 1
	Microsecond int64 = 1_000
	Second      int64 = 1_000_000_000
)

var durationUnits = map[string]int64{
	"ns":  Nanosecond,
	"us":  Microsecond,
	"sec": Second,
}

// quantityPattern splits "<number>[ ]<unit>". The number may be signed and
// may carry a fractional part. Exponents, NaN and Infinity are not accepted.
var quantityPattern = regexp.MustCompile(`^([+-]?[0-9]+(?:\.[0-9]+)?) ?([A-Za-z]*)$`)

// decimalCtx has enough precision that scaling any int64-sized literal is exact.
var decimalCtx = apd.BaseContext.WithPrecision(64)

// ParseDelay normalizes a delay token to signed nanoseconds.
//
// RawNanoseconds pass through unchanged. UnitString values are parsed by
// ParseDuration. Negative results are returned as-is; rejecting them is
// NewTimerConfig's job.
func ParseDelay(tok DelayToken) (int64, error) {
	switch t := tok.(type) {
	case RawNanoseconds:
		return int64(t), nil
	case UnitString:
		return ParseDuration(string(t))
	case nil:
		return 0, newConfigError(KindMalformedDuration, "", "missing delay")
	default:
		return 0, newConfigError(KindMalformedDuration, tok.String(), "unsupported delay encoding %T", tok)
	}
}

// ParseDuration parses a unit-suffixed duration string into nanoseconds.
//
// Recognized units are ns, us and sec (case-insensitive). A single space
// between number and unit is allowed ("100 us"). Decimal values are scaled
// exactly; a result that is not a whole number of nanoseconds, or that does
// not fit in int64, is rejected.
func ParseDuration(s string) (int64, error) {
	num, unit, ok := splitQuantity(s)
	if !ok {
		return 0, newConfigError(KindMalformedDuration, s, "expected <number><unit>")
	}
	if unit == "" {
		return 0, newConfigError(KindMalformedDuration, s, "missing unit (want ns, us or sec)")
	}
	scale, ok := durationUnits[strings.ToLower(unit)]
	if !ok {
		return 0, newConfigError(KindMalformedDuration, s, "unrecognized unit %q (want ns, us or sec)", unit)
	}

	ns, err := scaleDecimal(num, scale)
	if err != nil {
		return 0, newConfigError(KindMalformedDuration, s, "%v", err)
	}
	return ns, nil
}

// splitQuantity trims s and splits it into its numeric and unit parts.
func splitQuantity(s string) (num, unit string, ok bool) {
	m := quantityPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// scaleDecimal computes num*scale exactly and returns it as an int64.
func scaleDecimal(num string, scale int64) (int64, error) {
	d, _, err := apd.NewFromString(num)
	if err != nil {
		return 0, err
	}

	var product apd.Decimal
	cond, err := decimalCtx.Mul(&product, d, apd.New(scale, 0))
	if err != nil {
		return 0, err
	}
	if cond.Inexact() {
		return 0, errInexact
	}

	// Int64 fails on a fractional part as well as on int64 overflow.
	v, err := product.Int64()
	if err != nil {
		return 0, err
	}
	return v, nil
}

var errInexact = errors.New("value exceeds supported precision")
