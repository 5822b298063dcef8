package scattering

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReferencePattern is a previously computed or measured pattern read from CSV,
// used for comparison plots. Elastic and Inelastic are nil when the file has no
// such columns.
type ReferencePattern struct {
	Q         []float64
	Total     []float64
	Elastic   []float64
	Inelastic []float64
}

// LoadReferencePattern reads a reference pattern CSV file.
func LoadReferencePattern(path string) (rp *ReferencePattern, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	rp, err = ReadReferencePattern(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rp, nil
}

// ReadReferencePattern parses rows of q, I_q and optionally I_q_elastic and
// I_q_inelastic. A leading header row is skipped, as are lines starting with #.
// Every row must have the column count of the first.
func ReadReferencePattern(r io.Reader) (*ReferencePattern, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	rp := &ReferencePattern{}
	cols := 0
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if cols == 0 {
			cols = len(rec)
			if cols != 2 && cols != 4 {
				return nil, fmt.Errorf("row %d: want 2 or 4 columns, got %d", row, cols)
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64); err != nil {
				continue // header
			}
		}

		var v [4]float64
		for k, field := range rec {
			v[k], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", row, k+1, err)
			}
		}
		rp.Q = append(rp.Q, v[0])
		rp.Total = append(rp.Total, v[1])
		if cols == 4 {
			rp.Elastic = append(rp.Elastic, v[2])
			rp.Inelastic = append(rp.Inelastic, v[3])
		}
	}

	if len(rp.Q) == 0 {
		return nil, errors.New("reference pattern has no data rows")
	}
	return rp, nil
}
