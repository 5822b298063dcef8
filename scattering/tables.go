package scattering

import (
	"embed"
	"fmt"
	"math"
	"os"
	"slices"
	"sync"

	json "github.com/KevinWang15/go-json5"
)

//go:embed data/*.json5
var dataFS embed.FS

// comptonX is the sin(theta)/lambda grid the bundled Compton dataset must declare.
var comptonX = []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0, 1.5, 2.0, 8.0, 15.0}

// ComptonGrid returns the momentum-transfer grid (4pi * sin(theta)/lambda, inverse
// angstroms) of the bundled Compton dataset.
func ComptonGrid() []float64 {
	q := make([]float64, len(comptonX))
	for i, x := range comptonX {
		q[i] = x * 4 * math.Pi
	}
	return q
}

// FormFactorTable holds four-Gaussian form factor coefficients by atomic number.
// It is immutable once built.
type FormFactorTable struct {
	rows [MaxAtomicNumber]*[9]float64
}

// NewFormFactorTable builds a table from coefficient vectors ordered
// a1..a4, b1..b4, c and keyed by atomic number.
func NewFormFactorTable(rows map[int][9]float64) (*FormFactorTable, error) {
	t := &FormFactorTable{}
	for z, c := range rows {
		if z < 1 || z > MaxAtomicNumber {
			return nil, &OutOfRangeError{AtomicNumber: z, Table: "form factor"}
		}
		t.rows[z-1] = &c
	}
	return t, nil
}

// Coefficients returns the (a1..a4, b1..b4, c) vector for atomic number z.
func (t *FormFactorTable) Coefficients(z int) ([9]float64, error) {
	if z < 1 || z > MaxAtomicNumber || t.rows[z-1] == nil {
		return [9]float64{}, &OutOfRangeError{AtomicNumber: z, Table: "form factor"}
	}
	return *t.rows[z-1], nil
}

// AtomicNumbers lists the atomic numbers that have a row, ascending.
func (t *FormFactorTable) AtomicNumbers() []int {
	var zs []int
	for i, r := range t.rows {
		if r != nil {
			zs = append(zs, i+1)
		}
	}
	return zs
}

// ComptonTable holds inelastic scattering values per element on a shared
// momentum-transfer grid. It is immutable once built.
type ComptonTable struct {
	grid []float64
	rows [MaxAtomicNumber][]float64
}

// NewComptonTable builds a table from rows tabulated on grid (momentum transfer,
// same units as the q values later passed to InelasticPattern).
func NewComptonTable(grid []float64, rows map[int][]float64) (*ComptonTable, error) {
	t := &ComptonTable{grid: slices.Clone(grid)}
	for z, r := range rows {
		if z < 1 || z > MaxAtomicNumber {
			return nil, &OutOfRangeError{AtomicNumber: z, Table: "Compton"}
		}
		if len(r) != len(grid) {
			return nil, &DimensionError{What: fmt.Sprintf("Compton row for Z=%d", z), Got: len(r), Want: len(grid)}
		}
		t.rows[z-1] = slices.Clone(r)
	}
	return t, nil
}

// Grid returns a copy of the momentum-transfer grid the rows are tabulated on.
func (t *ComptonTable) Grid() []float64 {
	return slices.Clone(t.grid)
}

// Values returns a copy of the row for atomic number z.
func (t *ComptonTable) Values(z int) ([]float64, error) {
	if z < 1 || z > MaxAtomicNumber || t.rows[z-1] == nil {
		return nil, &OutOfRangeError{AtomicNumber: z, Table: "Compton"}
	}
	return slices.Clone(t.rows[z-1]), nil
}

// AtomicNumbers lists the atomic numbers that have a row, ascending.
func (t *ComptonTable) AtomicNumbers() []int {
	var zs []int
	for i, r := range t.rows {
		if r != nil {
			zs = append(zs, i+1)
		}
	}
	return zs
}

// Tables bundles the two static datasets the engines read. A Tables value is
// never modified after construction and may be shared freely between goroutines.
type Tables struct {
	FormFactors *FormFactorTable
	Compton     *ComptonTable
}

var defaultTables = sync.OnceValues(func() (*Tables, error) {
	ffData, err := dataFS.ReadFile("data/form_factors.json5")
	if err != nil {
		return nil, err
	}
	cData, err := dataFS.ReadFile("data/compton_factors.json5")
	if err != nil {
		return nil, err
	}
	t, err := parseTables(ffData, cData)
	if err != nil {
		return nil, fmt.Errorf("bundled tables: %w", err)
	}
	if !slices.Equal(t.Compton.grid, ComptonGrid()) {
		return nil, fmt.Errorf("bundled Compton table grid does not match the compiled-in grid")
	}
	return t, nil
})

// DefaultTables returns the bundled tables. They are decoded on the first call;
// every later call, from any goroutine, gets the same instance.
func DefaultTables() (*Tables, error) {
	return defaultTables()
}

// LoadTables reads a form factor file and a Compton file in the format of the
// bundled data/*.json5 datasets.
func LoadTables(formFactorPath, comptonPath string) (*Tables, error) {
	ffData, err := os.ReadFile(formFactorPath)
	if err != nil {
		return nil, fmt.Errorf("attempt to read %q failed: %w", formFactorPath, err)
	}
	cData, err := os.ReadFile(comptonPath)
	if err != nil {
		return nil, fmt.Errorf("attempt to read %q failed: %w", comptonPath, err)
	}
	return parseTables(ffData, cData)
}

func parseTables(ffData, cData []byte) (*Tables, error) {
	ff, err := ParseFormFactorTable(ffData)
	if err != nil {
		return nil, err
	}
	c, err := ParseComptonTable(cData)
	if err != nil {
		return nil, err
	}
	return &Tables{FormFactors: ff, Compton: c}, nil
}

// Field names match the json5 keys case-insensitively.
type formFactorFile struct {
	Elements []struct {
		Z      int       `json:"z"`
		Symbol string    `json:"symbol"`
		A      []float64 `json:"a"`
		B      []float64 `json:"b"`
		C      float64   `json:"c"`
	} `json:"elements"`
}

type comptonFile struct {
	Grid     []float64 `json:"grid"` // sin(theta)/lambda
	Elements []struct {
		Z      int       `json:"z"`
		Symbol string    `json:"symbol"`
		S      []float64 `json:"s"`
	} `json:"elements"`
}

// ParseFormFactorTable decodes a form factor dataset (see data/form_factors.json5).
func ParseFormFactorTable(data []byte) (*FormFactorTable, error) {
	var file formFactorFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("format error in form factor table: %w", err)
	}

	rows := make(map[int][9]float64, len(file.Elements))
	for _, e := range file.Elements {
		if err := checkRowIdentity(rows, e.Z, e.Symbol); err != nil {
			return nil, fmt.Errorf("form factor table: %w", err)
		}
		if len(e.A) != 4 || len(e.B) != 4 {
			return nil, fmt.Errorf("form factor table: %s needs 4 a and 4 b coefficients, got %d and %d",
				e.Symbol, len(e.A), len(e.B))
		}
		var c [9]float64
		copy(c[0:4], e.A)
		copy(c[4:8], e.B)
		c[8] = e.C
		rows[e.Z] = c
	}
	return NewFormFactorTable(rows)
}

// ParseComptonTable decodes a Compton dataset (see data/compton_factors.json5).
// The file grid is in sin(theta)/lambda and is scaled by 4pi.
func ParseComptonTable(data []byte) (*ComptonTable, error) {
	var file comptonFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("format error in Compton table: %w", err)
	}
	if len(file.Grid) == 0 {
		return nil, fmt.Errorf("Compton table: grid not found")
	}

	grid := make([]float64, len(file.Grid))
	for i, x := range file.Grid {
		grid[i] = x * 4 * math.Pi
	}

	rows := make(map[int][]float64, len(file.Elements))
	for _, e := range file.Elements {
		if err := checkRowIdentity(rows, e.Z, e.Symbol); err != nil {
			return nil, fmt.Errorf("Compton table: %w", err)
		}
		rows[e.Z] = e.S
	}
	return NewComptonTable(grid, rows)
}

func checkRowIdentity[V any](rows map[int]V, z int, symbol string) error {
	if _, dup := rows[z]; dup {
		return fmt.Errorf("atomic number %d listed twice", z)
	}
	if Symbol(z) != symbol {
		return fmt.Errorf("symbol %q does not match atomic number %d", symbol, z)
	}
	return nil
}
