package scattering

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Atom is one entry of a Structure. Position is in the length unit of the
// source file, conventionally angstroms.
type Atom struct {
	Symbol   string
	Position [3]float64
}

// Structure is an ordered set of atoms read from a geometry file.
type Structure struct {
	Comment string
	Atoms   []Atom
}

// Coordinates returns the atom positions in structure order.
func (s *Structure) Coordinates() [][3]float64 {
	coords := make([][3]float64, len(s.Atoms))
	for i, a := range s.Atoms {
		coords[i] = a.Position
	}
	return coords
}

// StructureReader produces a Structure from a source such as a file path.
type StructureReader interface {
	ReadStructure(source string) (*Structure, error)
}

// XYZReader reads plain XYZ files from disk.
type XYZReader struct{}

// ReadStructure opens the file at path and parses its first frame.
func (XYZReader) ReadStructure(path string) (s *Structure, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return ParseXYZ(f, path)
}

// ParseXYZ parses one XYZ frame from r:
//
//	<atom count>
//	<comment>
//	<symbol> <x> <y> <z>   (count lines)
//
// Columns after z are ignored, as is anything after the last atom line. A short
// file or a bad field is a *ParseError; nothing is truncated or defaulted.
func ParseXYZ(r io.Reader, name string) (*Structure, error) {
	sc := bufio.NewScanner(r)
	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return sc.Text(), true
	}

	header, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, &ParseError{Source: name, Msg: "read failed", Err: err}
		}
		return nil, &ParseError{Source: name, Msg: "empty file"}
	}
	count, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil {
		return nil, &ParseError{Source: name, Line: line, Msg: "atom count is not an integer", Err: err}
	}
	if count < 1 {
		return nil, &ParseError{Source: name, Line: line, Msg: fmt.Sprintf("atom count must be positive, got %d", count)}
	}

	comment, ok := next()
	if !ok {
		return nil, &ParseError{Source: name, Line: line + 1, Msg: "missing comment line"}
	}

	s := &Structure{Comment: strings.TrimSpace(comment), Atoms: make([]Atom, 0, count)}
	for len(s.Atoms) < count {
		text, ok := next()
		if !ok {
			if err := sc.Err(); err != nil {
				return nil, &ParseError{Source: name, Line: line + 1, Msg: "read failed", Err: err}
			}
			return nil, &ParseError{
				Source: name,
				Line:   line + 1,
				Msg:    fmt.Sprintf("declared %d atoms but found %d coordinate lines", count, len(s.Atoms)),
			}
		}

		fields := strings.Fields(text)
		if len(fields) < 4 {
			return nil, &ParseError{Source: name, Line: line, Msg: fmt.Sprintf("expected <symbol> <x> <y> <z>, got %q", text)}
		}

		a := Atom{Symbol: fields[0]}
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, &ParseError{Source: name, Line: line, Msg: fmt.Sprintf("bad %c coordinate", "xyz"[k]), Err: err}
			}
			a.Position[k] = v
		}
		s.Atoms = append(s.Atoms, a)
	}

	return s, nil
}
