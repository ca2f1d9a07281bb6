package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrBuildNotFound is returned when no build row matches the given ID
var ErrBuildNotFound = errors.New("build not found")

const storeSchema = `
CREATE TABLE IF NOT EXISTS builds (
	id            TEXT PRIMARY KEY,
	site_id       TEXT NOT NULL,
	file_key      TEXT NOT NULL,
	node_ids      TEXT NOT NULL DEFAULT '[]',
	dialect       TEXT NOT NULL,
	page_title    TEXT NOT NULL DEFAULT '',
	page_slug     TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	phase         INTEGER NOT NULL DEFAULT 0,
	phase_results TEXT NOT NULL DEFAULT '{}',
	artifacts     TEXT NOT NULL DEFAULT '{}',
	error_log     TEXT NOT NULL DEFAULT '[]',
	phase_costs   TEXT NOT NULL DEFAULT '{}',
	page_id       INTEGER,
	draft_url     TEXT,
	preview_url   TEXT,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);
`

// Store persists build records in SQLite. The orchestrator owns all writes;
// pipeline stages never touch the store directly (the LLM client records
// phase costs through it on the orchestrator's behalf).
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the build database at path
func OpenStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateBuild inserts a new build row, assigning an ID and timestamps if absent
func (s *Store) CreateBuild(build *Build) error {
	if build.ID == "" {
		build.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	build.CreatedAt = now
	build.UpdatedAt = now
	if build.Status == "" {
		build.Status = BuildPending
	}

	_, err := s.db.Exec(`
		INSERT INTO builds (
			id, site_id, file_key, node_ids, dialect,
			page_title, page_slug, status, phase,
			phase_results, artifacts, error_log, phase_costs,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		build.ID, build.SiteID, build.FileKey, mustJSON(build.NodeIDs), string(build.Dialect),
		build.PageTitle, build.PageSlug, string(build.Status), build.Phase,
		mustJSON(build.PhaseResults), mustJSON(build.Artifacts),
		mustJSON(build.ErrorLog), mustJSON(build.PhaseCosts),
		build.CreatedAt, build.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting build: %w", err)
	}
	return nil
}

// GetBuild loads one build row by ID
func (s *Store) GetBuild(id string) (*Build, error) {
	row := s.db.QueryRow(`
		SELECT id, site_id, file_key, node_ids, dialect,
			page_title, page_slug, status, phase,
			phase_results, artifacts, error_log, phase_costs,
			page_id, draft_url, preview_url, created_at, updated_at
		FROM builds WHERE id = ?`, id)

	var build Build
	var nodeIDs, phaseResults, artifacts, errorLog, phaseCosts string
	var pageID sql.NullInt64
	var draftURL, previewURL sql.NullString

	err := row.Scan(&build.ID, &build.SiteID, &build.FileKey, &nodeIDs, &build.Dialect,
		&build.PageTitle, &build.PageSlug, &build.Status, &build.Phase,
		&phaseResults, &artifacts, &errorLog, &phaseCosts,
		&pageID, &draftURL, &previewURL, &build.CreatedAt, &build.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBuildNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading build %s: %w", id, err)
	}

	columns := []struct {
		data   string
		target any
	}{
		{nodeIDs, &build.NodeIDs},
		{phaseResults, &build.PhaseResults},
		{artifacts, &build.Artifacts},
		{errorLog, &build.ErrorLog},
		{phaseCosts, &build.PhaseCosts},
	}
	for _, column := range columns {
		if err := json.Unmarshal([]byte(column.data), column.target); err != nil {
			return nil, fmt.Errorf("decoding build %s columns: %w", id, err)
		}
	}

	if pageID.Valid {
		v := int(pageID.Int64)
		build.PageID = &v
	}
	if draftURL.Valid && draftURL.String != "" {
		build.DraftURL = &draftURL.String
	}
	if previewURL.Valid && previewURL.String != "" {
		build.PreviewURL = &previewURL.String
	}

	return &build, nil
}

// UpdateStatus transitions the build's lifecycle status
func (s *Store) UpdateStatus(id string, status BuildStatus) error {
	return s.update(id, "UPDATE builds SET status = ?, updated_at = ? WHERE id = ?",
		string(status), time.Now().UTC(), id)
}

// SetPhase records the index of the phase currently running
func (s *Store) SetPhase(id string, phase int) error {
	return s.update(id, "UPDATE builds SET phase = ?, updated_at = ? WHERE id = ?",
		phase, time.Now().UTC(), id)
}

// SavePhaseResult stores one phase's structured result under its phase name
func (s *Store) SavePhaseResult(id, phase string, result any) error {
	build, err := s.GetBuild(id)
	if err != nil {
		return err
	}
	if build.PhaseResults == nil {
		build.PhaseResults = map[string]json.RawMessage{}
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding %s result: %w", phase, err)
	}
	build.PhaseResults[phase] = encoded
	return s.update(id, "UPDATE builds SET phase_results = ?, updated_at = ? WHERE id = ?",
		mustJSON(build.PhaseResults), time.Now().UTC(), id)
}

// AppendError appends one entry to the build's error log
func (s *Store) AppendError(id, message string) error {
	build, err := s.GetBuild(id)
	if err != nil {
		return err
	}
	build.ErrorLog = append(build.ErrorLog, message)
	return s.update(id, "UPDATE builds SET error_log = ?, updated_at = ? WHERE id = ?",
		mustJSON(build.ErrorLog), time.Now().UTC(), id)
}

// AddCost accumulates AI cost against a phase
func (s *Store) AddCost(id, phase string, costUSD float64) error {
	build, err := s.GetBuild(id)
	if err != nil {
		return err
	}
	if build.PhaseCosts == nil {
		build.PhaseCosts = map[string]float64{}
	}
	build.PhaseCosts[phase] += costUSD
	return s.update(id, "UPDATE builds SET phase_costs = ?, updated_at = ? WHERE id = ?",
		mustJSON(build.PhaseCosts), time.Now().UTC(), id)
}

// SetPage records the destination page identity and URLs after deployment
func (s *Store) SetPage(id string, pageID int, draftURL, previewURL string) error {
	return s.update(id,
		"UPDATE builds SET page_id = ?, draft_url = ?, preview_url = ?, updated_at = ? WHERE id = ?",
		pageID, draftURL, previewURL, time.Now().UTC(), id)
}

func (s *Store) update(id, query string, args ...any) error {
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("updating build %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrBuildNotFound
	}
	return nil
}

// mustJSON encodes a value that cannot fail to marshal (maps and slices of
// plain types); nil values encode as their empty JSON form
func mustJSON(v any) string {
	switch v := v.(type) {
	case []string:
		if v == nil {
			return "[]"
		}
	case map[string]json.RawMessage:
		if v == nil {
			return "{}"
		}
	case map[string]string:
		if v == nil {
			return "{}"
		}
	case map[string]float64:
		if v == nil {
			return "{}"
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("encoding store column: %v", err))
	}
	return string(data)
}
