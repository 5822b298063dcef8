package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bob-anderson-ok/IAMscattering/scattering"
)

// csvColumns matches the layout scattering.ReadReferencePattern accepts, so a
// written pattern can serve as the reference of a later run.
var csvColumns = []string{"q", "I_q", "I_q_elastic", "I_q_inelastic"}

// outputName maps a structure file to an output file in folder with the given
// extension: "in/water.xyz" -> "folder/water.csv".
func outputName(folder, structurePath, ext string) string {
	base := filepath.Base(structurePath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(folder, base+ext)
}

// checkOutputNames fails when two structure files map to the same output name,
// as "a/mol.xyz" and "b/mol.xyz" do.
func checkOutputNames(files []string) error {
	owner := make(map[string]string, len(files))
	for _, f := range files {
		name := outputName("", f, "")
		if prev, ok := owner[name]; ok {
			return fmt.Errorf("%q and %q would both write output %q", prev, f, name)
		}
		owner[name] = f
	}
	return nil
}

// writePatternCSV writes one row per grid point. q is written as given, in the
// units of the parameter file.
func writePatternCSV(path string, q []float64, p *scattering.Pattern) (err error) {
	if len(q) != len(p.Total) {
		return &scattering.DimensionError{What: "csv q column", Got: len(q), Want: len(p.Total)}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err = w.Write(csvColumns); err != nil {
		return err
	}
	for k := range q {
		row := []string{
			formatFloat(q[k]),
			formatFloat(p.Total[k]),
			formatFloat(p.Elastic[k]),
			formatFloat(p.Inelastic[k]),
		}
		if err = w.Write(row); err != nil {
			return fmt.Errorf("row %d: %w", k+1, err)
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
