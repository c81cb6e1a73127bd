package state

import (
	"database/sql"
	"fmt"
	"time"
)

// BeginIndexRun creates a new index run in the running state.
func (s *SQLiteStore) BeginIndexRun(corpusRoot, fingerprint string) (*IndexRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &IndexRun{
		ID:          generateID(),
		CorpusRoot:  corpusRoot,
		Fingerprint: fingerprint,
		Status:      RunStatusRunning,
		StartedAt:   time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO index_runs (id, corpus_root, fingerprint, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.CorpusRoot, run.Fingerprint, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create index run: %w", err)
	}

	return run, nil
}

// CompleteIndexRun marks a run as completed or failed and records its totals.
func (s *SQLiteStore) CompleteIndexRun(id string, status RunStatus, queries, statements, findings int, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	var errorPtr *string
	if errMsg != "" {
		errorPtr = &errMsg
	}

	result, err := s.db.Exec(
		`UPDATE index_runs SET status = ?, query_count = ?, statement_count = ?, finding_count = ?,
		 completed_at = ?, error = ? WHERE id = ?`,
		status, queries, statements, findings, now, errorPtr, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete index run: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("index run not found: %s", id)
	}

	return nil
}

// GetLatestRun retrieves the most recent run for a corpus root. It returns
// nil without error when the root has never been indexed.
func (s *SQLiteStore) GetLatestRun(corpusRoot string) (*IndexRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &IndexRun{}
	var completedAt sql.NullTime
	var errMsg sql.NullString

	err := s.db.QueryRow(
		`SELECT id, corpus_root, fingerprint, status, query_count, statement_count, finding_count,
		 started_at, completed_at, error
		 FROM index_runs WHERE corpus_root = ? ORDER BY started_at DESC LIMIT 1`,
		corpusRoot,
	).Scan(&run.ID, &run.CorpusRoot, &run.Fingerprint, &run.Status, &run.QueryCount,
		&run.StatementCount, &run.FindingCount, &run.StartedAt, &completedAt, &errMsg)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	if errMsg.Valid {
		run.Error = errMsg.String
	}

	return run, nil
}
