package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"synthizer/internal/diag"
	"synthizer/internal/source"
)

// SourceExt is the file extension the directory walk picks up.
const SourceExt = ".syn"

// DirOptions configures a parallel directory check.
type DirOptions struct {
	Options

	// Jobs bounds worker concurrency; 0 means GOMAXPROCS.
	Jobs int
	// Cache, when non-nil, skips files whose content hash already has
	// a stored result.
	Cache *DiskCache
	// OnFile is invoked from worker goroutines as each file finishes;
	// it must be safe for concurrent use. Nil disables progress.
	OnFile func(res FileResult, done, total int)
}

// FileResult is the per-file outcome of CheckDir. Result is nil when
// the file was served from the cache or failed to load; Bag is always
// populated.
type FileResult struct {
	Path string
	Bag  *diag.Bag
	// FileSet resolves diagnostic spans; nil only when the file could
	// not be loaded at all.
	FileSet *source.FileSet
	Result  *CheckResult
	Cached  bool
}

// CheckDir checks every *.syn file under dir in parallel. Results come
// back sorted by path regardless of completion order. Load failures
// become IOLoadFileError diagnostics in the file's bag; only walk
// failures and context cancellation return an error.
func CheckDir(ctx context.Context, dir string, opts DirOptions) ([]FileResult, error) {
	files, err := ListSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files under %s", SourceExt, dir)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	results := make([]FileResult, len(files))
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkOne(path, opts)
			if opts.OnFile != nil {
				opts.OnFile(results[i], int(done.Add(1)), len(files))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkOne runs the single-file pipeline, consulting and feeding the
// cache when one is configured.
func checkOne(path string, opts DirOptions) FileResult {
	fset := source.NewFileSet()
	id, err := fset.Load(path)
	if err != nil {
		bag := newBag(opts.MaxDiagnostics)
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  fmt.Sprintf("failed to load file: %v", err),
			NoPos:    true,
		})
		return FileResult{Path: path, Bag: bag}
	}
	file := fset.Get(id)

	if opts.Cache != nil {
		if entry, ok, _ := opts.Cache.Get(file.Hash); ok && entry.Entrypoint == opts.Entrypoint {
			bag := newBag(opts.MaxDiagnostics)
			for _, d := range entry.Diagnostics {
				bag.Add(d)
			}
			return FileResult{Path: path, Bag: bag, FileSet: fset, Cached: true}
		}
	}

	res := checkFile(fset, file, opts.Options, NewTimer())
	if opts.Cache != nil {
		// A failed Put only costs a re-check next run.
		_ = opts.Cache.Put(file.Hash, CacheEntry{
			Path:        path,
			Diagnostics: res.Bag.Items(),
			Entrypoint:  opts.Entrypoint,
		})
	}
	return FileResult{Path: path, Bag: res.Bag, FileSet: fset, Result: res}
}

// ListSourceFiles walks dir and returns the sorted *.syn paths.
func ListSourceFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, SourceExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
