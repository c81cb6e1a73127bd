package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyPathValid(t *testing.T) {
	info := ClassifyPath("splits/test/Patient_Demographics/easy_level_queries/007/sql_007.sql")
	require.True(t, info.Valid, "problem: %s", info.Problem)
	assert.Equal(t, SplitTest, info.Split)
	assert.Equal(t, "Patient_Demographics", info.Category)
	assert.Equal(t, DifficultyEasy, info.Difficulty)
	assert.Equal(t, "007", info.DirID)
	assert.Equal(t, "007", info.FileID)
	assert.Equal(t, "007", info.ID)
}

func TestClassifyPathProblems(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"too few segments", "splits/test/sql_001.sql"},
		{"wrong root", "queries/test/Cat/easy_level_queries/001/sql_001.sql"},
		{"unknown split", "splits/train/Cat/easy_level_queries/001/sql_001.sql"},
		{"bad level dir", "splits/test/Cat/easy_queries/001/sql_001.sql"},
		{"non numeric dir", "splits/test/Cat/easy_level_queries/abc/sql_001.sql"},
		{"bad file name", "splits/test/Cat/easy_level_queries/001/query_001.sql"},
		{"bad extension", "splits/test/Cat/easy_level_queries/001/sql_001.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyPath(tt.path)
			assert.False(t, info.Valid)
			assert.NotEmpty(t, info.Problem)
		})
	}
}

func TestClassifyPathIDMismatchStillValid(t *testing.T) {
	// A mismatch is a lint finding, not a classification failure.
	info := ClassifyPath("splits/validation/Lab_Results/hard_level_queries/012/sql_013.sql")
	require.True(t, info.Valid)
	assert.Equal(t, "012", info.DirID)
	assert.Equal(t, "013", info.FileID)
}

func TestParsePathRejectsIDMismatch(t *testing.T) {
	_, err := ParsePath("splits/test/Cat/medium_level_queries/001/sql_002.sql")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestQueryPathRoundTrip(t *testing.T) {
	ref := Ref{Split: SplitValidation, Category: "ICU_Stays", Difficulty: DifficultyMedium, ID: "042"}
	p := QueryPath(ref)
	assert.Equal(t, "splits/validation/ICU_Stays/medium_level_queries/042/sql_042.sql", p)

	got, err := ParsePath(p)
	require.NoError(t, err)
	assert.Equal(t, ref, got)
}
