// Package store records computed scattering patterns in a SQLite database.
package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/bob-anderson-ok/IAMscattering/internal/monitoring"
	"github.com/bob-anderson-ok/IAMscattering/scattering"
)

// schema.sql defines the runs, patterns and pattern_points tables.
//
//go:embed schema.sql
var schemaSQL string

type Store struct {
	*sql.DB
}

// PatternRecord describes one stored pattern without its data points.
type PatternRecord struct {
	ID        int64
	RunID     int64
	Source    string
	AtomCount int
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// one writer at a time; batch workers share this handle
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, err
	}

	monitoring.Logf("initialized results database %s", path)

	return &Store{db}, nil
}

// StartRun creates a run record and returns its ID.
func (s *Store) StartRun(title, qUnits string, splineDegree int) (int64, error) {
	result, err := s.Exec(`INSERT INTO runs (title, q_units, spline_degree) VALUES (?, ?, ?)`,
		title, qUnits, splineDegree)
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %v", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %v", err)
	}
	return runID, nil
}

// RecordPattern stores p under runID in a single transaction.
func (s *Store) RecordPattern(runID int64, source string, atomCount int, p *scattering.Pattern) (id int64, err error) {
	tx, err := s.Begin()
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.Exec(`INSERT INTO patterns (run_id, source, atom_count) VALUES (?, ?, ?)`,
		runID, source, atomCount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert pattern: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get pattern ID: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO pattern_points (pattern_id, idx, q, elastic, inelastic, total)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for k := range p.Q {
		if _, err = stmt.Exec(id, k, p.Q[k], p.Elastic[k], p.Inelastic[k], p.Total[k]); err != nil {
			return 0, fmt.Errorf("failed to insert pattern point %d: %w", k, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Patterns lists the patterns of a run in insertion order.
func (s *Store) Patterns(runID int64) ([]PatternRecord, error) {
	rows, err := s.Query(`SELECT id, run_id, source, atom_count FROM patterns WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %v", err)
	}
	defer rows.Close()

	var recs []PatternRecord
	for rows.Next() {
		var r PatternRecord
		if err := rows.Scan(&r.ID, &r.RunID, &r.Source, &r.AtomCount); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// LoadPattern reads back the data points of a stored pattern.
func (s *Store) LoadPattern(patternID int64) (*scattering.Pattern, error) {
	rows, err := s.Query(`
		SELECT q, elastic, inelastic, total FROM pattern_points
		WHERE pattern_id = ? ORDER BY idx
	`, patternID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pattern %d: %v", patternID, err)
	}
	defer rows.Close()

	p := &scattering.Pattern{}
	for rows.Next() {
		var q, e, i, t float64
		if err := rows.Scan(&q, &e, &i, &t); err != nil {
			return nil, err
		}
		p.Q = append(p.Q, q)
		p.Elastic = append(p.Elastic, e)
		p.Inelastic = append(p.Inelastic, i)
		p.Total = append(p.Total, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(p.Q) == 0 {
		return nil, fmt.Errorf("pattern %d: %w", patternID, sql.ErrNoRows)
	}
	return p, nil
}
