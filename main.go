package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bob-anderson-ok/IAMscattering/internal/grid"
	"github.com/bob-anderson-ok/IAMscattering/internal/monitoring"
	"github.com/bob-anderson-ok/IAMscattering/internal/store"
	"github.com/bob-anderson-ok/IAMscattering/scattering"
)

// !!!!! This MUST match the app name given in the run configuration !!!!!
const version = "1_0_0"

// Exit codes, one per failure class.
const (
	exitOK = iota
	exitUsage
	exitRead
	exitFormat
	exitValidation
	exitStructureFiles
	exitTables
	exitReference
	exitResultsDB
	exitCompute
	exitOutput
)

var errOutput = errors.New("output failed")

type result struct {
	source  string
	pattern *scattering.Pattern
	atoms   int
}

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	programStart := time.Now()

	if len(args) != 2 {
		fmt.Println("\n\tWrong number of arguments.\n\tUsage: IAMscattering <parameter-file>")
		return exitUsage
	}

	path := args[1]

	// Read the parameter file (json5/json, toml or yaml)
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tAttempt to read input file %q failed: %w\n", path, err))
		return exitRead
	}

	// Parse into a generic container
	table, err := decodeParameterFile(path, data)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tFormat error in file %q: %w\n", path, err))
		return exitFormat
	}

	var params RunParameters
	msg, ok := validateParametersAndFillRun(table, &params)
	if !ok {
		fmt.Println(msg)
		return exitValidation
	}

	// Check for user wanting printout of complete parameter file
	if params.ShowInput {
		fmt.Printf("%s", "\nPrintout of complete parameter file contents...\n")
		fmt.Println(string(data))
	}

	if params.PathToLogFile != "" {
		logFile := monitoring.SetupFile(params.PathToLogFile)
		defer logFile.Close()
	}

	fmt.Printf("\nVersion %s\n\n", version)
	monitoring.Logf("IAMscattering %s started with %s", version, path)

	files, err := expandStructureFiles(params.StructureFiles)
	if err != nil {
		fmt.Println(fmt.Errorf("\n\tstructure_files: %w", err))
		return exitStructureFiles
	}
	if params.WriteCSV || params.MakePlot {
		if err := checkOutputNames(files); err != nil {
			fmt.Println(fmt.Errorf("\n\tstructure_files: %w", err))
			return exitStructureFiles
		}
	}

	calc := &scattering.Calculator{SplineDegree: params.SplineDegree}
	if params.PathToFormFactorTable != "" {
		calc.Tables, err = scattering.LoadTables(params.PathToFormFactorTable, params.PathToComptonTable)
		if err != nil {
			fmt.Println(fmt.Errorf("\n\tLoading scattering tables failed: %w", err))
			return exitTables
		}
		monitoring.Logf("using tables %s and %s", params.PathToFormFactorTable, params.PathToComptonTable)
	}

	var ref *scattering.ReferencePattern
	if params.PathToReferencePattern != "" {
		ref, err = scattering.LoadReferencePattern(params.PathToReferencePattern)
		if err != nil {
			fmt.Println(fmt.Errorf("\n\tReading reference pattern failed: %w", err))
			return exitReference
		}
	}

	var db *store.Store
	var runID int64
	if params.PathToResultsDB != "" {
		db, err = store.Open(params.PathToResultsDB)
		if err == nil {
			defer db.Close()
			runID, err = db.StartRun(params.Title, params.QUnits.String(), params.SplineDegree)
		}
		if err != nil {
			fmt.Println(fmt.Errorf("\n\tResults database %q: %w", params.PathToResultsDB, err))
			return exitResultsDB
		}
	}

	if params.WriteCSV || params.MakePlot {
		if err := os.MkdirAll(params.OutputFolder, 0755); err != nil {
			fmt.Println(fmt.Errorf("\n\tCannot create output folder %q: %w", params.OutputFolder, err))
			return exitOutput
		}
	}

	qUser := params.momentumGrid()
	q := grid.ToInverseAngstrom(qUser, params.QUnits)
	fmt.Printf("Computing %d structure(s) on %d q values (%s), %d worker(s)\n",
		len(files), len(q), params.QUnits, params.Workers)

	results := make([]result, len(files))
	var g errgroup.Group
	g.SetLimit(params.Workers)
	for i, file := range files {
		g.Go(func() error {
			start := time.Now()
			s, err := scattering.XYZReader{}.ReadStructure(file)
			if err != nil {
				return err
			}
			p, err := calc.ComputeStructure(s, q)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = result{source: file, pattern: p, atoms: len(s.Atoms)}
			monitoring.Logf("%s: %d atoms computed in %s", file, len(s.Atoms), time.Since(start))

			if err := writeOutputs(&params, file, qUser, p, ref); err != nil {
				return fmt.Errorf("%w: %s: %w", errOutput, file, err)
			}
			if db != nil {
				if _, err := db.RecordPattern(runID, file, len(s.Atoms), p); err != nil {
					return fmt.Errorf("%w: %s: %w", errOutput, file, err)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		monitoring.Logf("run failed: %v", err)
		fmt.Println(fmt.Errorf("\n\t%w", err))
		if errors.Is(err, errOutput) {
			return exitOutput
		}
		return exitCompute
	}

	for _, r := range results {
		n := len(r.pattern.Total)
		fmt.Printf("%-30s %4d atoms  I(q=%g) = %0.4f  I(q=%g) = %0.4f\n",
			filepath.Base(r.source), r.atoms, qUser[0], r.pattern.Total[0], qUser[n-1], r.pattern.Total[n-1])
	}

	fmt.Printf("\nTotal run time: %s\n", time.Since(programStart))
	return exitOK
}

func writeOutputs(params *RunParameters, file string, qUser []float64, p *scattering.Pattern,
	ref *scattering.ReferencePattern) error {

	if params.WriteCSV {
		if err := writePatternCSV(outputName(params.OutputFolder, file, ".csv"), qUser, p); err != nil {
			return err
		}
	}
	if params.MakePlot {
		title := params.Title
		if title == "" {
			title = filepath.Base(file)
		} else {
			title += ": " + filepath.Base(file)
		}
		img, err := makePatternPlot(title, params.QUnits.String(), qUser, p, ref,
			float64(params.PlotWidthPixels), float64(params.PlotHeightPixels))
		if err != nil {
			return err
		}
		if err := savePNG(outputName(params.OutputFolder, file, ".png"), img); err != nil {
			return err
		}
	}
	return nil
}
