package state

import (
	"fmt"
)

// SaveQuery inserts a query record and its statements in one transaction.
func (s *SQLiteStore) SaveQuery(q *QueryRecord, stmts []*StatementRecord) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	if q.ID == "" {
		q.ID = generateID()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO queries (id, run_id, split, category, difficulty, query_id, file_path,
		 path_valid, statement_count, bytes, sha256)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.RunID, q.Split, q.Category, q.Difficulty, q.QueryID, q.FilePath,
		q.PathValid, q.StatementCount, q.Bytes, q.SHA256,
	)
	if err != nil {
		return fmt.Errorf("failed to insert query: %w", err)
	}

	for _, st := range stmts {
		if st.ID == "" {
			st.ID = generateID()
		}
		st.QueryID = q.ID
		_, err = tx.Exec(
			`INSERT INTO statements (id, query_id, idx, line, sql_text, table_count, join_count, function_count)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			st.ID, st.QueryID, st.Idx, st.Line, st.SQL, st.TableCount, st.JoinCount, st.FunctionCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CountsByDimension aggregates query counts for a run by split, category,
// or difficulty.
func (s *SQLiteStore) CountsByDimension(runID, dimension string) ([]DimensionCount, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	var col string
	switch dimension {
	case "split":
		col = "split"
	case "category":
		col = "category"
	case "difficulty":
		col = "difficulty"
	default:
		return nil, fmt.Errorf("unknown dimension: %s", dimension)
	}

	rows, err := s.db.Query(
		`SELECT `+col+`, COUNT(*) FROM queries WHERE run_id = ? GROUP BY `+col+` ORDER BY `+col,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to count by %s: %w", dimension, err)
	}
	defer rows.Close()

	var counts []DimensionCount
	for rows.Next() {
		var dc DimensionCount
		if err := rows.Scan(&dc.Value, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts = append(counts, dc)
	}

	return counts, rows.Err()
}

// SearchStatements finds statements of a run containing a substring,
// case-insensitively. limit <= 0 means no limit.
func (s *SQLiteStore) SearchStatements(runID, substr string, limit int) ([]StatementHit, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Query(
		`SELECT q.file_path, st.idx, st.line, st.sql_text
		 FROM statements st JOIN queries q ON q.id = st.query_id
		 WHERE q.run_id = ? AND st.sql_text LIKE '%' || ? || '%'
		 ORDER BY q.file_path, st.idx LIMIT ?`,
		runID, substr, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search statements: %w", err)
	}
	defer rows.Close()

	var hits []StatementHit
	for rows.Next() {
		var h StatementHit
		if err := rows.Scan(&h.FilePath, &h.Idx, &h.Line, &h.SQL); err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		hits = append(hits, h)
	}

	return hits, rows.Err()
}
