package scattering

import (
	"errors"
	"fmt"
	"strings"
)

// MaxAtomicNumber is the largest atomic number any table or resolver accepts.
const MaxAtomicNumber = 118

// ElementResolver maps element symbols to atomic numbers (1-based).
type ElementResolver interface {
	AtomicNumber(symbol string) (int, error)
}

// symbols is indexed by atomic number - 1.
var symbols = [MaxAtomicNumber]string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var symbolIndex = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for i, s := range symbols {
		m[strings.ToLower(s)] = i + 1
	}
	return m
}()

type periodicTable struct{}

// PeriodicTable is the static ElementResolver. Symbols match case-insensitively.
var PeriodicTable ElementResolver = periodicTable{}

func (periodicTable) AtomicNumber(symbol string) (int, error) {
	z, ok := symbolIndex[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return 0, &UnknownElementError{Symbol: symbol, Index: -1}
	}
	return z, nil
}

// Symbol returns the element symbol for atomic number z, or "" if z is out of range.
func Symbol(z int) string {
	if z < 1 || z > MaxAtomicNumber {
		return ""
	}
	return symbols[z-1]
}

// ResolveAtomicNumbers resolves every atom of s, failing on the first unknown symbol.
func ResolveAtomicNumbers(r ElementResolver, s *Structure) ([]int, error) {
	zs := make([]int, len(s.Atoms))
	for i, a := range s.Atoms {
		z, err := r.AtomicNumber(a.Symbol)
		if err != nil {
			var ue *UnknownElementError
			if errors.As(err, &ue) {
				return nil, &UnknownElementError{Symbol: a.Symbol, Index: i}
			}
			return nil, fmt.Errorf("atom %d (%s): %w", i+1, a.Symbol, err)
		}
		zs[i] = z
	}
	return zs, nil
}
