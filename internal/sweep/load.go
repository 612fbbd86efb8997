package sweep

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/dtimer/internal/timer"
)

//go:embed schema.cue
var schemaSrc string

// Load error codes.
const (
	ErrCodeReadFailed      = "READ_FAILED"
	ErrCodeBuildFailed     = "BUILD_FAILED"
	ErrCodeSchemaViolation = "SCHEMA_VIOLATION"
	ErrCodeInvalidCase     = "INVALID_CASE"
)

// LoadError reports a sweep file that could not be loaded.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadFile reads and decodes a CUE sweep definition.
func LoadFile(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: err.Error()}
	}
	return Load(data, path)
}

// Load decodes a CUE sweep definition. The source is unified with the
// embedded #Sweep schema, so unknown fields and ill-typed values are
// reported with their CUE position. Matrices are expanded after the explicit
// cases.
func Load(src []byte, filename string) (*Sweep, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSrc, cue.Filename("sweep_schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling sweep schema: %w", err)
	}

	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Sweep")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeSchemaViolation, err)
	}

	return decodeSweep(unified)
}

func decodeSweep(v cue.Value) (*Sweep, error) {
	s := &Sweep{}

	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return nil, cueLoadError(ErrCodeSchemaViolation, err)
	}
	s.Name = name

	if d := v.LookupPath(cue.ParsePath("description")); d.Exists() {
		s.Description, _ = d.String()
	}

	if casesVal := v.LookupPath(cue.ParsePath("cases")); casesVal.Exists() {
		iter, err := casesVal.List()
		if err != nil {
			return nil, cueLoadError(ErrCodeSchemaViolation, err)
		}
		for iter.Next() {
			c, err := decodeCase(iter.Value())
			if err != nil {
				return nil, err
			}
			s.Cases = append(s.Cases, c)
		}
	}

	if matrixVal := v.LookupPath(cue.ParsePath("matrix")); matrixVal.Exists() {
		iter, err := matrixVal.List()
		if err != nil {
			return nil, cueLoadError(ErrCodeSchemaViolation, err)
		}
		for iter.Next() {
			m, err := decodeMatrix(iter.Value())
			if err != nil {
				return nil, err
			}
			s.Cases = append(s.Cases, m.Cases()...)
		}
	}

	if err := checkCases(s.Cases); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeCase(v cue.Value) (Case, error) {
	var c Case

	name, err := v.LookupPath(cue.ParsePath("name")).String()
	if err != nil {
		return c, cueLoadError(ErrCodeSchemaViolation, err)
	}
	c.Name = name

	if c.Frequency, err = decodeFrequency(v.LookupPath(cue.ParsePath("frequency"))); err != nil {
		return c, err
	}
	if c.Delay, err = decodeDelay(v.LookupPath(cue.ParsePath("delay"))); err != nil {
		return c, err
	}

	expect := v.LookupPath(cue.ParsePath("expect"))
	if !expect.Exists() {
		return c, nil
	}
	if cv := expect.LookupPath(cue.ParsePath("cycles")); cv.Exists() {
		n, err := cv.Uint64()
		if err != nil {
			return c, &LoadError{Code: ErrCodeInvalidCase, Message: fmt.Sprintf("case %s: cycles: %v", name, err), Pos: cv.Pos()}
		}
		c.Expect.Cycles = Cycles(n)
	}
	if fv := expect.LookupPath(cue.ParsePath("failure")); fv.Exists() {
		s, err := fv.String()
		if err != nil {
			return c, cueLoadError(ErrCodeSchemaViolation, err)
		}
		kind, err := timer.ParseErrorKind(s)
		if err != nil {
			return c, &LoadError{Code: ErrCodeInvalidCase, Message: err.Error(), Pos: fv.Pos()}
		}
		c.Expect.Error = kind
	}

	if err := c.Validate(); err != nil {
		return c, &LoadError{Code: ErrCodeInvalidCase, Message: err.Error(), Pos: v.Pos()}
	}
	return c, nil
}

func decodeMatrix(v cue.Value) (Matrix, error) {
	var m Matrix

	freqs, err := v.LookupPath(cue.ParsePath("frequencies")).List()
	if err != nil {
		return m, cueLoadError(ErrCodeSchemaViolation, err)
	}
	for freqs.Next() {
		f, err := decodeFrequency(freqs.Value())
		if err != nil {
			return m, err
		}
		m.Frequencies = append(m.Frequencies, f)
	}

	delays, err := v.LookupPath(cue.ParsePath("delays")).List()
	if err != nil {
		return m, cueLoadError(ErrCodeSchemaViolation, err)
	}
	for delays.Next() {
		d, err := decodeDelay(delays.Value())
		if err != nil {
			return m, err
		}
		m.Delays = append(m.Delays, d)
	}

	if len(m.Frequencies) == 0 || len(m.Delays) == 0 {
		return m, &LoadError{Code: ErrCodeInvalidCase, Message: "matrix needs at least one frequency and one delay", Pos: v.Pos()}
	}
	return m, nil
}

// decodeFrequency keeps the frequency as text; parsing is left to the runner
// so that a malformed frequency can be an expected outcome.
func decodeFrequency(v cue.Value) (string, error) {
	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return "", &LoadError{Code: ErrCodeInvalidCase, Message: fmt.Sprintf("frequency: %v", err), Pos: v.Pos()}
		}
		return strconv.FormatInt(n, 10), nil
	case cue.StringKind:
		s, _ := v.String()
		return s, nil
	default:
		return "", &LoadError{Code: ErrCodeSchemaViolation, Message: fmt.Sprintf("frequency must be int or string, got %v", v.Kind()), Pos: v.Pos()}
	}
}

func decodeDelay(v cue.Value) (timer.DelayToken, error) {
	switch v.Kind() {
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeInvalidCase, Message: fmt.Sprintf("delay: %v", err), Pos: v.Pos()}
		}
		return timer.RawNanoseconds(n), nil
	case cue.StringKind:
		s, _ := v.String()
		return timer.UnitString(s), nil
	default:
		return nil, &LoadError{Code: ErrCodeSchemaViolation, Message: fmt.Sprintf("delay must be int or string, got %v", v.Kind()), Pos: v.Pos()}
	}
}

// checkCases rejects duplicate names; reports and the store key on them.
func checkCases(cases []Case) error {
	seen := make(map[string]bool, len(cases))
	for _, c := range cases {
		if seen[c.Name] {
			return &LoadError{Code: ErrCodeInvalidCase, Message: fmt.Sprintf("duplicate case name %q", c.Name)}
		}
		seen[c.Name] = true
	}
	return nil
}

// cueLoadError extracts position info from CUE errors.
func cueLoadError(code string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}

	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
