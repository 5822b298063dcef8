package main

import (
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	json "github.com/KevinWang15/go-json5"
	"github.com/facette/natsort"
	"gopkg.in/yaml.v3"

	"github.com/bob-anderson-ok/IAMscattering/internal/grid"
)

type RunParameters struct {
	Title                  string
	StructureFiles         []string // as given, globs not yet expanded
	QValues                []float64
	QMin                   float64
	QMax                   float64
	QNumPoints             int
	QUnits                 grid.Unit
	SplineDegree           int
	OutputFolder           string
	WriteCSV               bool
	MakePlot               bool
	PlotWidthPixels        int
	PlotHeightPixels       int
	PathToReferencePattern string
	PathToResultsDB        string
	PathToLogFile          string
	PathToFormFactorTable  string
	PathToComptonTable     string
	Workers                int
	ShowInput              bool
}

// decodeParameterFile picks the decoder from the file extension. Anything that
// is not TOML or YAML is read as JSON5, which includes plain JSON.
func decodeParameterFile(path string, data []byte) (map[string]interface{}, error) {
	var table map[string]interface{}
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &table)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &table)
	default:
		err = json.Unmarshal(data, &table)
	}
	if err != nil {
		return nil, err
	}
	if table == nil {
		table = map[string]interface{}{}
	}
	return table, nil
}

func getLeafValue(jsonTable map[string]interface{}, path ...string) (interface{}, bool) {
	var cur interface{} = jsonTable
	for _, p := range path {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// asFloat accepts every numeric type the three decoders produce.
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func asInt(v interface{}) (int, bool) {
	f, ok := asFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func asFloatSlice(v interface{}) ([]float64, bool) {
	list, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]float64, len(list))
	for i, e := range list {
		out[i], ok = asFloat(e)
		if !ok {
			return nil, false
		}
	}
	return out, true
}

// asStringSlice also accepts a single string.
func asStringSlice(v interface{}) ([]string, bool) {
	if s, ok := v.(string); ok {
		return []string{s}, true
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, false
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i], ok = e.(string)
		if !ok {
			return nil, false
		}
	}
	return out, true
}

func validateParametersAndFillRun(table map[string]interface{}, run *RunParameters) (string, bool) {
	msg := "No problem found in parameter file" // Initialize msg to presumed success.

	// Defaults
	*run = RunParameters{
		QNumPoints:       250,
		SplineDegree:     3,
		OutputFolder:     ".",
		WriteCSV:         true,
		PlotWidthPixels:  1200,
		PlotHeightPixels: 500,
		Workers:          runtime.GOMAXPROCS(0),
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"show_input_bool", &run.ShowInput},
		{"write_csv_bool", &run.WriteCSV},
		{"make_plot_bool", &run.MakePlot},
	}
	for _, b := range bools {
		v, ok := getLeafValue(table, b.key)
		if !ok {
			continue
		}
		*b.dst, ok = v.(bool)
		if !ok {
			return b.key + ": is not a bool", false
		}
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"title", &run.Title},
		{"output_folder", &run.OutputFolder},
		{"path_to_reference_pattern", &run.PathToReferencePattern},
		{"path_to_results_db", &run.PathToResultsDB},
		{"path_to_log_file", &run.PathToLogFile},
		{"path_to_form_factor_table", &run.PathToFormFactorTable},
		{"path_to_compton_table", &run.PathToComptonTable},
	}
	for _, s := range strs {
		v, ok := getLeafValue(table, s.key)
		if !ok {
			continue
		}
		*s.dst, ok = v.(string)
		if !ok {
			return s.key + ": is not a string", false
		}
	}

	ints := []struct {
		key string
		dst *int
		min int
	}{
		{"q_num_points", &run.QNumPoints, 1},
		{"spline_degree", &run.SplineDegree, 1},
		{"plot_width_pixels", &run.PlotWidthPixels, 100},
		{"plot_height_pixels", &run.PlotHeightPixels, 100},
		{"workers", &run.Workers, 1},
	}
	for _, n := range ints {
		v, ok := getLeafValue(table, n.key)
		if !ok {
			continue
		}
		*n.dst, ok = asInt(v)
		if !ok {
			return n.key + ": is not an integer", false
		}
		if *n.dst < n.min {
			return fmt.Sprintf("%s: must be at least %d", n.key, n.min), false
		}
	}
	if run.SplineDegree != 1 && run.SplineDegree != 3 {
		return "spline_degree: must be 1 or 3", false
	}

	files, ok := getLeafValue(table, "structure_files")
	if !ok {
		msg = "structure_files: not found"
		return msg, false
	}
	run.StructureFiles, ok = asStringSlice(files)
	if !ok {
		msg = "structure_files: is not a list of strings"
		return msg, false
	}
	if len(run.StructureFiles) == 0 {
		msg = "structure_files: is empty"
		return msg, false
	}

	units, ok := getLeafValue(table, "q_units")
	if ok {
		name, ok := units.(string)
		if !ok {
			msg = "q_units: is not a string"
			return msg, false
		}
		u, err := grid.ParseUnit(name)
		if err != nil {
			return "q_units: " + err.Error(), false
		}
		run.QUnits = u
	}

	qValues, haveValues := getLeafValue(table, "q_values")
	_, haveMin := getLeafValue(table, "q_min")
	qMax, haveMax := getLeafValue(table, "q_max")
	switch {
	case haveValues && (haveMin || haveMax):
		msg = "q_values: cannot be combined with q_min/q_max"
		return msg, false
	case haveValues:
		run.QValues, ok = asFloatSlice(qValues)
		if !ok {
			msg = "q_values: is not a list of numbers"
			return msg, false
		}
		if len(run.QValues) == 0 {
			msg = "q_values: is empty"
			return msg, false
		}
	case haveMax:
		run.QMax, ok = asFloat(qMax)
		if !ok {
			msg = "q_max: is not a number"
			return msg, false
		}
		if qMin, found := getLeafValue(table, "q_min"); found {
			run.QMin, ok = asFloat(qMin)
			if !ok {
				msg = "q_min: is not a number"
				return msg, false
			}
		}
		if run.QMax < run.QMin {
			msg = "q_max: is less than q_min"
			return msg, false
		}
	default:
		msg = "q_values or q_max: not found"
		return msg, false
	}

	if (run.PathToFormFactorTable == "") != (run.PathToComptonTable == "") {
		msg = "path_to_form_factor_table and path_to_compton_table: give both or neither"
		return msg, false
	}

	return msg, true
}

// momentumGrid returns the grid in the units of the parameter file.
func (run *RunParameters) momentumGrid() []float64 {
	if len(run.QValues) > 0 {
		return append([]float64(nil), run.QValues...)
	}
	return grid.Linspace(run.QMin, run.QMax, run.QNumPoints)
}

// expandStructureFiles resolves glob patterns and returns the files in natural
// order ("mol2.xyz" before "mol10.xyz") without duplicates. A plain path is kept
// even if it does not exist so the read failure names it.
func expandStructureFiles(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[") {
			if !seen[p] {
				seen[p] = true
				files = append(files, p)
			}
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no files match %q", p)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	sort.SliceStable(files, func(i, j int) bool { return natsort.Compare(files[i], files[j]) })
	return files, nil
}
