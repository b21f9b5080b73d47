// Package cerrors implements the error taxonomy from spec §7:
// InvalidArgument, Overlap, Redundant, OverConstrained, NumericFailure.
// All errors are synchronous and raised before any partial output is
// produced; every *CurveError carries enough structured detail for a
// caller to build its own diagnostic without string-parsing the message,
// while still satisfying the plain fmt.Errorf/%w style the teacher's
// swap package uses for its own sentinel errors (swap/types.go's
// ErrNilCurve).
package cerrors

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Taxonomy tags one of spec §7's five error categories.
type Taxonomy string

const (
	InvalidArgument Taxonomy = "InvalidArgument"
	Overlap         Taxonomy = "Overlap"
	Redundant       Taxonomy = "Redundant"
	OverConstrained Taxonomy = "OverConstrained"
	NumericFailure  Taxonomy = "NumericFailure"
)

// CurveError is the structured error type every public entry point returns
// on failure. Detail is taxonomy-specific: the offending index for the
// knot and tension InvalidArgument checks (other InvalidArgument errors
// carry no Detail), the contract pair for Redundant, (M, U) for
// OverConstrained, the condition-number estimate for NumericFailure when
// one was computed.
type CurveError struct {
	Tag    Taxonomy
	Msg    string
	Detail map[string]any
}

func (e *CurveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tag, e.Msg)
}

// Is allows errors.Is(err, cerrors.ErrOverlap) style matching against a bare
// Taxonomy-only sentinel, and also matches another *CurveError with the
// same Tag.
func (e *CurveError) Is(target error) bool {
	other, ok := target.(*CurveError)
	if !ok {
		return false
	}
	if other.Msg != "" {
		return false
	}
	return e.Tag == other.Tag
}

// New builds a CurveError with the given taxonomy tag, message, and detail.
func New(tag Taxonomy, detail map[string]any, format string, args ...any) *CurveError {
	return &CurveError{Tag: tag, Msg: fmt.Sprintf(format, args...), Detail: detail}
}

// NewOverConstrained builds the OverConstrained diagnostic spec §7
// describes ("M constraints for U unknowns"), with m and u rendered via
// go-humanize so the message stays readable once a caller assembles a
// multi-thousand-row system.
func NewOverConstrained(prefix string, m, u int) *CurveError {
	return New(OverConstrained, map[string]any{"m": m, "u": u},
		"%s: over-constrained (%s constraints for %s unknowns)", prefix, humanize.Comma(int64(m)), humanize.Comma(int64(u)))
}

// Sentinel taxonomy-only errors for errors.Is(err, cerrors.ErrOverlap)-style checks.
var (
	ErrInvalidArgument = &CurveError{Tag: InvalidArgument}
	ErrOverlap         = &CurveError{Tag: Overlap}
	ErrRedundant       = &CurveError{Tag: Redundant}
	ErrOverConstrained = &CurveError{Tag: OverConstrained}
	ErrNumericFailure  = &CurveError{Tag: NumericFailure}
)
