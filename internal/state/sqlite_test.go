package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s := NewSQLiteStore()
	require.NoError(t, s.Open(":memory:"))
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func TestIndexRunLifecycle(t *testing.T) {
	s := newTestStore(t)

	run, err := s.BeginIndexRun("/data/corpus", "abc123")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)

	err = s.CompleteIndexRun(run.ID, RunStatusCompleted, 10, 14, 3, "")
	require.NoError(t, err)

	latest, err := s.GetLatestRun("/data/corpus")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, run.ID, latest.ID)
	assert.Equal(t, RunStatusCompleted, latest.Status)
	assert.Equal(t, 10, latest.QueryCount)
	assert.Equal(t, 14, latest.StatementCount)
	assert.Equal(t, 3, latest.FindingCount)
	require.NotNil(t, latest.CompletedAt)
}

func TestCompleteIndexRunNotFound(t *testing.T) {
	s := newTestStore(t)
	err := s.CompleteIndexRun("missing", RunStatusFailed, 0, 0, 0, "boom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestGetLatestRunEmpty(t *testing.T) {
	s := newTestStore(t)
	run, err := s.GetLatestRun("/never/indexed")
	require.NoError(t, err)
	assert.Nil(t, run)
}

func TestSaveQueryAndCounts(t *testing.T) {
	s := newTestStore(t)

	run, err := s.BeginIndexRun("/data/corpus", "")
	require.NoError(t, err)

	save := func(split, cat, tier, id string) {
		q := &QueryRecord{
			RunID:          run.ID,
			Split:          split,
			Category:       cat,
			Difficulty:     tier,
			QueryID:        id,
			FilePath:       "splits/" + split + "/" + cat + "/" + tier + "_level_queries/" + id + "/sql_" + id + ".sql",
			PathValid:      true,
			StatementCount: 1,
		}
		st := &StatementRecord{Idx: 0, Line: 1, SQL: "SELECT 1;"}
		require.NoError(t, s.SaveQuery(q, []*StatementRecord{st}))
		assert.Equal(t, q.ID, st.QueryID)
	}
	save("test", "Labs", "easy", "001")
	save("test", "Labs", "hard", "002")
	save("validation", "Meds", "easy", "001")

	bySplit, err := s.CountsByDimension(run.ID, "split")
	require.NoError(t, err)
	assert.Equal(t, []DimensionCount{{"test", 2}, {"validation", 1}}, bySplit)

	byTier, err := s.CountsByDimension(run.ID, "difficulty")
	require.NoError(t, err)
	assert.Equal(t, []DimensionCount{{"easy", 2}, {"hard", 1}}, byTier)

	_, err = s.CountsByDimension(run.ID, "bogus")
	require.Error(t, err)
}

func TestSearchStatements(t *testing.T) {
	s := newTestStore(t)

	run, err := s.BeginIndexRun("/data/corpus", "")
	require.NoError(t, err)

	q := &QueryRecord{RunID: run.ID, Split: "test", Category: "Labs", Difficulty: "easy", QueryID: "001",
		FilePath: "splits/test/Labs/easy_level_queries/001/sql_001.sql", PathValid: true, StatementCount: 2}
	stmts := []*StatementRecord{
		{Idx: 0, Line: 1, SQL: "SELECT subject_id FROM patients;"},
		{Idx: 1, Line: 3, SQL: "SELECT hadm_id FROM admissions;"},
	}
	require.NoError(t, s.SaveQuery(q, stmts))

	hits, err := s.SearchStatements(run.ID, "ADMISSIONS", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, 1, hits[0].Idx)

	hits, err = s.SearchStatements(run.ID, "SELECT", 1)
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	hits, err = s.SearchStatements(run.ID, "nothing-here", 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSaveFindings(t *testing.T) {
	s := newTestStore(t)

	run, err := s.BeginIndexRun("/data/corpus", "")
	require.NoError(t, err)

	findings := []*FindingRecord{
		{RunID: run.ID, RuleID: "QR02", Severity: "warning", Message: "select star",
			FilePath: "splits/test/Labs/easy_level_queries/001/sql_001.sql", Line: 1, Column: 8, StmtIndex: 0},
		{RunID: run.ID, RuleID: "CB04", Severity: "error", Message: "empty file",
			FilePath: "splits/test/Labs/easy_level_queries/002/sql_002.sql", StmtIndex: -1},
	}
	require.NoError(t, s.SaveFindings(findings))
	require.NoError(t, s.SaveFindings(nil))

	got, err := s.FindingsForRun(run.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "QR02", got[0].RuleID)
	assert.Equal(t, -1, got[1].StmtIndex)
}
