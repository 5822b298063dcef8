// Package grid builds momentum-transfer grids and converts them between units.
package grid

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// BohrPerAngstrom converts momentum transfer from inverse bohr (atomic units)
// to inverse angstroms.
const BohrPerAngstrom = 1.8897261246257702

// Unit is the unit of a momentum-transfer grid.
type Unit int

const (
	InverseAngstrom Unit = iota
	AtomicUnits
)

func (u Unit) String() string {
	switch u {
	case InverseAngstrom:
		return "inverse_angstrom"
	case AtomicUnits:
		return "atomic_units"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// ParseUnit accepts the names printed by Unit.String plus a few common spellings.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inverse_angstrom", "1/angstrom", "angstrom^-1", "a^-1":
		return InverseAngstrom, nil
	case "atomic_units", "au", "a.u.", "1/bohr", "bohr^-1":
		return AtomicUnits, nil
	}
	return 0, fmt.Errorf("unknown q unit %q (want inverse_angstrom or atomic_units)", s)
}

// Linspace This is provided to match numpy's linspace()
func Linspace[T constraints.Float](start, end T, n int) []T {
	if n <= 1 {
		return []T{start}
	}

	step := (end - start) / T(n-1)

	x := make([]T, n)
	for i := 0; i < n; i++ {
		x[i] = start + T(i)*step
	}
	x[n-1] = end
	return x
}

// ToInverseAngstrom returns a copy of q expressed in inverse angstroms.
func ToInverseAngstrom[T constraints.Float](q []T, u Unit) []T {
	out := make([]T, len(q))
	for i, v := range q {
		if u == AtomicUnits {
			v *= BohrPerAngstrom
		}
		out[i] = v
	}
	return out
}
