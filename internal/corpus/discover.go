package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DiscoverOptions tune corpus discovery.
type DiscoverOptions struct {
	// Workers bounds concurrent file reads; 0 means NumCPU.
	Workers int
}

// Discover walks root/splits and loads every .sql file it finds. Files that
// violate the naming convention are kept with Valid=false so linting can
// report them. Non-SQL files are attached to their sibling query as
// ExtraFiles. Discovery fails only on I/O errors or a missing splits
// directory.
func Discover(ctx context.Context, root string, opts DiscoverOptions) (*Corpus, error) {
	splitsRoot := filepath.Join(root, splitsDir)
	if fi, err := os.Stat(splitsRoot); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("corpus root %s has no %s directory", root, splitsDir)
	}

	var sqlFiles []string // corpus-relative, slash-separated
	extrasByDir := make(map[string][]string)

	err := filepath.WalkDir(splitsRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if strings.HasSuffix(d.Name(), fileSuffix) {
			sqlFiles = append(sqlFiles, rel)
		} else {
			dir := filepath.ToSlash(filepath.Dir(rel))
			extrasByDir[dir] = append(extrasByDir[dir], d.Name())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking corpus: %w", err)
	}
	sort.Strings(sqlFiles)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	queries := make([]*Query, len(sqlFiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, rel := range sqlFiles {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			raw, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("reading %s: %w", rel, err)
			}
			q := &Query{
				PathInfo: ClassifyPath(rel),
				Raw:      string(raw),
				Bytes:    int64(len(raw)),
			}
			q.Statements = SplitStatements(q.Raw)
			queries[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := &Corpus{Root: root, Queries: queries}
	for _, q := range c.Queries {
		dir := filepath.ToSlash(filepath.Dir(q.FilePath))
		if extras := extrasByDir[dir]; len(extras) > 0 {
			sort.Strings(extras)
			q.ExtraFiles = extras
		}
	}
	c.Reindex()
	return c, nil
}
