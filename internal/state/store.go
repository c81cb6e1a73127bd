// Package state persists corpus index runs in SQLite so summaries and
// searches do not re-walk the corpus every invocation.
package state

import "time"

// RunStatus is the lifecycle status of an index run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// IndexRun is one full indexing pass over a corpus root.
type IndexRun struct {
	ID             string
	CorpusRoot     string
	Fingerprint    string // manifest fingerprint of the indexed corpus
	Status         RunStatus
	QueryCount     int
	StatementCount int
	FindingCount   int
	StartedAt      time.Time
	CompletedAt    *time.Time
	Error          string
}

// QueryRecord is one indexed query file.
type QueryRecord struct {
	ID             string
	RunID          string
	Split          string
	Category       string
	Difficulty     string
	QueryID        string
	FilePath       string
	PathValid      bool
	StatementCount int
	Bytes          int64
	SHA256         string
}

// StatementRecord is one statement of an indexed query.
type StatementRecord struct {
	ID            string
	QueryID       string // QueryRecord.ID
	Idx           int
	Line          int
	SQL           string
	TableCount    int
	JoinCount     int
	FunctionCount int
}

// FindingRecord is one lint finding captured during an index run.
type FindingRecord struct {
	ID        string
	RunID     string
	RuleID    string
	Severity  string
	Message   string
	FilePath  string
	Line      int
	Column    int
	StmtIndex int // -1 for file-level findings
}

// StatementHit is a search result.
type StatementHit struct {
	FilePath string
	Idx      int
	Line     int
	SQL      string
}

// DimensionCount is one row of an aggregate breakdown.
type DimensionCount struct {
	Value string
	Count int
}

// Store persists index runs and their contents.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	BeginIndexRun(corpusRoot, fingerprint string) (*IndexRun, error)
	CompleteIndexRun(id string, status RunStatus, queries, statements, findings int, errMsg string) error
	GetLatestRun(corpusRoot string) (*IndexRun, error)

	SaveQuery(q *QueryRecord, stmts []*StatementRecord) error
	SaveFindings(findings []*FindingRecord) error

	CountsByDimension(runID, dimension string) ([]DimensionCount, error)
	SearchStatements(runID, substr string, limit int) ([]StatementHit, error)
	FindingsForRun(runID string) ([]*FindingRecord, error)
}
