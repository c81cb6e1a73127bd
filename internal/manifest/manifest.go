// Package manifest produces a deterministic inventory of a corpus: every
// query file with its content digest, plus distribution summaries and a
// corpus-level fingerprint. Two corpora with identical contents yield
// byte-identical manifests.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/clinbench-io/clinbench/internal/corpus"
)

// Entry is one query file in the manifest.
type Entry struct {
	Path       string `json:"path" yaml:"path"`
	Split      string `json:"split" yaml:"split"`
	Category   string `json:"category" yaml:"category"`
	Difficulty string `json:"difficulty" yaml:"difficulty"`
	ID         string `json:"id" yaml:"id"`
	Statements int    `json:"statements" yaml:"statements"`
	Bytes      int64  `json:"bytes" yaml:"bytes"`
	SHA256     string `json:"sha256" yaml:"sha256"`
}

// TierCount is the query count of one difficulty tier within a category.
type TierCount struct {
	Difficulty string `json:"difficulty" yaml:"difficulty"`
	Count      int    `json:"count" yaml:"count"`
}

// CategorySummary is the per-tier breakdown of one category within a split.
type CategorySummary struct {
	Name  string      `json:"name" yaml:"name"`
	Count int         `json:"count" yaml:"count"`
	Tiers []TierCount `json:"tiers" yaml:"tiers"`
}

// SplitSummary is the per-category breakdown of one split.
type SplitSummary struct {
	Name       string            `json:"name" yaml:"name"`
	Count      int               `json:"count" yaml:"count"`
	Categories []CategorySummary `json:"categories" yaml:"categories"`
}

// Manifest is the full corpus inventory.
type Manifest struct {
	Fingerprint string         `json:"fingerprint" yaml:"fingerprint"`
	Queries     int            `json:"queries" yaml:"queries"`
	Statements  int            `json:"statements" yaml:"statements"`
	Splits      []SplitSummary `json:"splits" yaml:"splits"`
	Entries     []Entry        `json:"entries" yaml:"entries"`
}

// Build assembles the manifest for a discovered corpus. Invalid-path files
// are excluded; they are lint findings, not corpus members.
func Build(c *corpus.Corpus) *Manifest {
	m := &Manifest{}

	for _, q := range c.Queries {
		if !q.Valid {
			continue
		}
		sum := sha256.Sum256([]byte(q.Raw))
		m.Entries = append(m.Entries, Entry{
			Path:       q.FilePath,
			Split:      string(q.Split),
			Category:   q.Category,
			Difficulty: string(q.Difficulty),
			ID:         q.ID,
			Statements: len(q.Statements),
			Bytes:      q.Bytes,
			SHA256:     hex.EncodeToString(sum[:]),
		})
	}
	sort.Slice(m.Entries, func(i, j int) bool { return m.Entries[i].Path < m.Entries[j].Path })

	m.Queries = len(m.Entries)
	for _, e := range m.Entries {
		m.Statements += e.Statements
	}
	m.Splits = summarize(m.Entries)
	m.Fingerprint = fingerprint(m.Entries)
	return m
}

// fingerprint digests the sorted path and content hashes so any file
// addition, removal, rename, or edit changes it.
func fingerprint(entries []Entry) string {
	h := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(h, "%s %s\n", e.Path, e.SHA256)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func summarize(entries []Entry) []SplitSummary {
	type catKey struct{ split, cat string }
	type tierKey struct{ split, cat, tier string }

	splitCount := make(map[string]int)
	catCount := make(map[catKey]int)
	tierCount := make(map[tierKey]int)
	for _, e := range entries {
		splitCount[e.Split]++
		catCount[catKey{e.Split, e.Category}]++
		tierCount[tierKey{e.Split, e.Category, e.Difficulty}]++
	}

	splits := sortedKeys(splitCount)
	out := make([]SplitSummary, 0, len(splits))
	for _, split := range splits {
		ss := SplitSummary{Name: split, Count: splitCount[split]}

		var cats []string
		for k := range catCount {
			if k.split == split {
				cats = append(cats, k.cat)
			}
		}
		sort.Strings(cats)
		for _, cat := range cats {
			cs := CategorySummary{Name: cat, Count: catCount[catKey{split, cat}]}
			for _, d := range corpus.Difficulties() {
				if n := tierCount[tierKey{split, cat, string(d)}]; n > 0 {
					cs.Tiers = append(cs.Tiers, TierCount{Difficulty: string(d), Count: n})
				}
			}
			ss.Categories = append(ss.Categories, cs)
		}
		out = append(out, ss)
	}
	return out
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// WriteJSON encodes the manifest as indented JSON.
func (m *Manifest) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// WriteYAML encodes the manifest as YAML.
func (m *Manifest) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}
