// Example program demonstrating how to use the scattering package to:
// 1. Read a molecular structure from an XYZ file
// 2. Compute its elastic, inelastic and total scattering
// 3. Compare cubic and linear interpolation of the inelastic part
//
// Usage:
//
//	go run main.go [structure.xyz]
//
// Without an argument (or if the file cannot be read) a built-in carbon dioxide
// geometry is used.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bob-anderson-ok/IAMscattering/internal/grid"
	"github.com/bob-anderson-ok/IAMscattering/scattering"
)

const carbonDioxide = `3
carbon dioxide, linear, C=O 1.16 angstrom
C   0.000   0.000   0.000
O   0.000   0.000   1.160
O   0.000   0.000  -1.160
`

func main() {
	fmt.Println("IAM Scattering Example")
	fmt.Println("======================")

	var s *scattering.Structure
	var err error
	if len(os.Args) > 1 {
		s, err = scattering.XYZReader{}.ReadStructure(os.Args[1])
		if err != nil {
			fmt.Printf("\nNote: Could not read %s: %v\n", os.Args[1], err)
			fmt.Println("Using the built-in CO2 geometry instead.")
		}
	}
	if s == nil {
		s, err = scattering.ParseXYZ(strings.NewReader(carbonDioxide), "co2.xyz")
		if err != nil {
			log.Fatalf("Failed to parse built-in structure: %v", err)
		}
	}

	fmt.Printf("\nStructure: %q with %d atoms\n", s.Comment, len(s.Atoms))
	for i, a := range s.Atoms {
		fmt.Printf("  %2d %-2s (%7.3f, %7.3f, %7.3f)\n", i+1, a.Symbol, a.Position[0], a.Position[1], a.Position[2])
	}

	// 0 to 10 inverse bohr, converted to inverse angstroms for the calculation
	qAU := grid.Linspace(0.0, 10.0, 11)
	q := grid.ToInverseAngstrom(qAU, grid.AtomicUnits)

	cubic := &scattering.Calculator{}
	p, err := cubic.ComputeStructure(s, q)
	if err != nil {
		log.Fatalf("Failed to compute pattern: %v", err)
	}

	linear := &scattering.Calculator{SplineDegree: 1}
	pLinear, err := linear.ComputeStructure(s, q)
	if err != nil {
		log.Fatalf("Failed to compute pattern: %v", err)
	}

	fmt.Println("\n  q (a.u.)   elastic  inelastic      total  inelastic(linear)")
	for k := range q {
		fmt.Printf("  %8.2f %9.3f %10.3f %10.3f %18.3f\n",
			qAU[k], p.Elastic[k], p.Inelastic[k], p.Total[k], pLinear.Inelastic[k])
	}
}
