package corpus

import (
	"fmt"
	"path"
	"strings"
)

const (
	splitsDir   = "splits"
	levelSuffix = "_level_queries"
	filePrefix  = "sql_"
	fileSuffix  = ".sql"
)

// PathInfo is the result of classifying a corpus-relative file path against
// the naming convention
//
//	splits/{split}/{category}/{difficulty}_level_queries/{id}/sql_{id}.sql
type PathInfo struct {
	Ref
	FilePath string // corpus-relative, slash-separated
	DirID    string // id segment from the directory name
	FileID   string // id segment from the file name
	Valid    bool
	Problem  string // human explanation when Valid is false
}

// QueryPath returns the canonical corpus-relative path for a coordinate.
func QueryPath(ref Ref) string {
	return path.Join(
		splitsDir,
		string(ref.Split),
		ref.Category,
		string(ref.Difficulty)+levelSuffix,
		ref.ID,
		filePrefix+ref.ID+fileSuffix,
	)
}

// ClassifyPath checks a corpus-relative, slash-separated path against the
// naming convention. It never fails; violations are reported through the
// Valid and Problem fields so callers can surface them as findings instead
// of aborting discovery.
func ClassifyPath(rel string) PathInfo {
	info := PathInfo{FilePath: rel}
	segs := strings.Split(rel, "/")
	if len(segs) != 6 {
		info.Problem = fmt.Sprintf("expected 6 path segments, got %d", len(segs))
		return info
	}
	if segs[0] != splitsDir {
		info.Problem = fmt.Sprintf("path must start with %q, got %q", splitsDir, segs[0])
		return info
	}
	switch Split(segs[1]) {
	case SplitTest, SplitValidation:
		info.Split = Split(segs[1])
	default:
		info.Problem = fmt.Sprintf("unknown split %q", segs[1])
		return info
	}
	if segs[2] == "" {
		info.Problem = "empty category segment"
		return info
	}
	info.Category = segs[2]

	tier, ok := strings.CutSuffix(segs[3], levelSuffix)
	if !ok || tier == "" {
		info.Problem = fmt.Sprintf("difficulty directory %q must end in %q", segs[3], levelSuffix)
		return info
	}
	info.Difficulty = Difficulty(tier)

	if !isNumericID(segs[4]) {
		info.Problem = fmt.Sprintf("query directory %q is not a numeric id", segs[4])
		return info
	}
	info.DirID = segs[4]

	name := segs[5]
	base, ok := strings.CutSuffix(name, fileSuffix)
	if !ok {
		info.Problem = fmt.Sprintf("file %q must have a %s extension", name, fileSuffix)
		return info
	}
	id, ok := strings.CutPrefix(base, filePrefix)
	if !ok || !isNumericID(id) {
		info.Problem = fmt.Sprintf("file %q does not match sql_{id}.sql", name)
		return info
	}
	info.FileID = id

	info.ID = info.DirID
	info.Valid = true
	return info
}

// ParsePath is the strict form of ClassifyPath: it also rejects coordinates
// whose directory and file ids disagree.
func ParsePath(rel string) (Ref, error) {
	info := ClassifyPath(rel)
	if !info.Valid {
		return Ref{}, fmt.Errorf("invalid corpus path %q: %s", rel, info.Problem)
	}
	if info.DirID != info.FileID {
		return Ref{}, fmt.Errorf("invalid corpus path %q: directory id %s does not match file id %s",
			rel, info.DirID, info.FileID)
	}
	return info.Ref, nil
}

func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
