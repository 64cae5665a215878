package conformance

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store persists runs and the pass/fail baseline in SQLite.
type Store struct {
	db *sql.DB
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	total      INTEGER NOT NULL,
	passed     INTEGER NOT NULL,
	failed     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS results (
	run_id    TEXT NOT NULL REFERENCES runs(id),
	case_name TEXT NOT NULL,
	pass      INTEGER NOT NULL,
	detail    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (run_id, case_name)
);
CREATE TABLE IF NOT EXISTS baseline (
	case_name TEXT PRIMARY KEY,
	pass      INTEGER NOT NULL
);
`

// OpenStore opens (creating if needed) the results database.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open results store: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init results store: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun inserts a run row plus per-case results and returns the
// run ID.
func (s *Store) RecordRun(results []Result) (string, error) {
	runID := uuid.NewString()
	passed := 0
	for _, r := range results {
		if r.Pass {
			passed++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (id, created_at, total, passed, failed) VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now().UTC().Format(time.RFC3339), len(results), passed, len(results)-passed,
	)
	if err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	for _, r := range results {
		_, err = tx.Exec(
			`INSERT INTO results (run_id, case_name, pass, detail) VALUES (?, ?, ?, ?)`,
			runID, r.Name, boolInt(r.Pass), r.Detail,
		)
		if err != nil {
			return "", fmt.Errorf("record case %s: %w", r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

// BaselineDiff describes how a run compares with the stored baseline.
type BaselineDiff struct {
	Regressed []string // passed in baseline, failed now
	Fixed     []string // failed in baseline, passed now
	New       []string // not in baseline
}

// CompareBaseline diffs results against the stored baseline. An empty
// baseline reports every case as new.
func (s *Store) CompareBaseline(results []Result) (BaselineDiff, error) {
	rows, err := s.db.Query(`SELECT case_name, pass FROM baseline`)
	if err != nil {
		return BaselineDiff{}, fmt.Errorf("read baseline: %w", err)
	}
	defer rows.Close()

	baseline := make(map[string]bool)
	for rows.Next() {
		var name string
		var pass int
		if err := rows.Scan(&name, &pass); err != nil {
			return BaselineDiff{}, err
		}
		baseline[name] = pass != 0
	}
	if err := rows.Err(); err != nil {
		return BaselineDiff{}, err
	}

	var diff BaselineDiff
	for _, r := range results {
		prev, known := baseline[r.Name]
		switch {
		case !known:
			diff.New = append(diff.New, r.Name)
		case prev && !r.Pass:
			diff.Regressed = append(diff.Regressed, r.Name)
		case !prev && r.Pass:
			diff.Fixed = append(diff.Fixed, r.Name)
		}
	}
	sort.Strings(diff.Regressed)
	sort.Strings(diff.Fixed)
	sort.Strings(diff.New)
	return diff, nil
}

// UpdateBaseline replaces the baseline with this run's outcomes.
func (s *Store) UpdateBaseline(results []Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM baseline`); err != nil {
		return fmt.Errorf("clear baseline: %w", err)
	}
	for _, r := range results {
		_, err := tx.Exec(
			`INSERT INTO baseline (case_name, pass) VALUES (?, ?)`,
			r.Name, boolInt(r.Pass),
		)
		if err != nil {
			return fmt.Errorf("update baseline for %s: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

// RunSummary is one row of run history.
type RunSummary struct {
	ID        string
	CreatedAt string
	Total     int
	Passed    int
	Failed    int
}

// RecentRuns lists the latest runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	rows, err := s.db.Query(
		`SELECT id, created_at, total, passed, failed FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Total, &r.Passed, &r.Failed); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
