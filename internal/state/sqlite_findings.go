package state

import (
	"fmt"
)

// SaveFindings inserts lint findings in one transaction.
func (s *SQLiteStore) SaveFindings(findings []*FindingRecord) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if len(findings) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, f := range findings {
		if f.ID == "" {
			f.ID = generateID()
		}
		_, err = tx.Exec(
			`INSERT INTO findings (id, run_id, rule_id, severity, message, file_path, line, col, stmt_index)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.RunID, f.RuleID, f.Severity, f.Message, f.FilePath, f.Line, f.Column, f.StmtIndex,
		)
		if err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// FindingsForRun retrieves all findings for a run, ordered by file then rule.
func (s *SQLiteStore) FindingsForRun(runID string) ([]*FindingRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	rows, err := s.db.Query(
		`SELECT id, run_id, rule_id, severity, message, file_path, line, col, stmt_index
		 FROM findings WHERE run_id = ? ORDER BY file_path, rule_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get findings: %w", err)
	}
	defer rows.Close()

	var findings []*FindingRecord
	for rows.Next() {
		f := &FindingRecord{}
		err := rows.Scan(&f.ID, &f.RunID, &f.RuleID, &f.Severity, &f.Message,
			&f.FilePath, &f.Line, &f.Column, &f.StmtIndex)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, f)
	}

	return findings, rows.Err()
}
