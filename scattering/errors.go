package scattering

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes of a pattern computation. Every typed
// error below reports its class through errors.Is.
var (
	ErrParse           = errors.New("malformed structure")
	ErrUnknownElement  = errors.New("unknown element symbol")
	ErrOutOfRange      = errors.New("atomic number outside table coverage")
	ErrDimension       = errors.New("array length mismatch")
	ErrDegenerateInput = errors.New("not enough distinct points to interpolate")
)

// ParseError is returned when a structure source cannot be read as XYZ.
type ParseError struct {
	Source string // file name or other label of the source
	Line   int    // 1-based line number, 0 when the problem is not tied to a line
	Msg    string
	Err    error // underlying conversion error, if any
}

func (e *ParseError) Error() string {
	s := e.Source
	if s == "" {
		s = "structure"
	}
	if e.Line > 0 {
		s = fmt.Sprintf("%s:%d", s, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", s, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", s, e.Msg)
}

func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// UnknownElementError reports an element symbol the resolver does not know.
type UnknownElementError struct {
	Symbol string
	Index  int // position of the atom in the structure, -1 if unknown
}

func (e *UnknownElementError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("atom %d: unknown element symbol %q", e.Index+1, e.Symbol)
	}
	return fmt.Sprintf("unknown element symbol %q", e.Symbol)
}

func (e *UnknownElementError) Is(target error) bool { return target == ErrUnknownElement }

// OutOfRangeError reports an atomic number with no row in a table.
type OutOfRangeError struct {
	AtomicNumber int
	Table        string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s table has no entry for atomic number %d", e.Table, e.AtomicNumber)
}

func (e *OutOfRangeError) Is(target error) bool { return target == ErrOutOfRange }

// DimensionError reports two arrays that must have the same length but don't.
type DimensionError struct {
	What      string
	Got, Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: got %d values, want %d", e.What, e.Got, e.Want)
}

func (e *DimensionError) Is(target error) bool { return target == ErrDimension }

// DegenerateInputError reports a spline fit that cannot be made.
type DegenerateInputError struct {
	Points int // number of points offered to the fit
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("cannot fit spline through %d points: %s", e.Points, e.Reason)
}

func (e *DegenerateInputError) Is(target error) bool { return target == ErrDegenerateInput }
