// Package batch walks a directory tree and masks every eligible file
// alongside the original, using the same two-phase walk-then-parallel-
// process shape as a filesystem scan: a fast sequential walk collects
// eligible paths, then a pool of workers processes them concurrently.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/AiToByte/safemask/pkg/matcher"
	"github.com/AiToByte/safemask/pkg/pipeline"
)

// Config controls which files Run considers and where it writes output.
type Config struct {
	Root           string
	IncludeHidden  bool
	FollowSymlinks bool
	MaxFileSize    int64 // 0 means unlimited

	// OutputDir mirrors Root's tree under a separate directory. If empty,
	// each output is written alongside its input with OutputSuffix
	// inserted before the extension.
	OutputDir    string
	OutputSuffix string // e.g. ".masked"; ignored when OutputDir is set
}

// FileResult is the outcome of masking a single file.
type FileResult struct {
	Path       string
	OutputPath string
	Stats      pipeline.Stats
	Err        error
}

type fileEntry struct {
	path string
}

// Run walks cfg.Root and masks every eligible file through engine,
// reporting per-file progress via progress (path, fraction 0..1); progress
// may be nil. It returns one FileResult per file attempted, including
// failures, and a non-nil error only for problems with the walk itself.
func Run(ctx context.Context, cfg Config, engine *matcher.Engine, progress func(path string, frac float64)) ([]FileResult, error) {
	if progress == nil {
		progress = func(string, float64) {}
	}
	if cfg.OutputSuffix == "" && cfg.OutputDir == "" {
		cfg.OutputSuffix = ".masked"
	}

	var ignore *gitignore.GitIgnore
	gitignorePath := filepath.Join(cfg.Root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		ignore, _ = gitignore.CompileIgnoreFile(gitignorePath)
	}

	var files []fileEntry
	err := filepath.Walk(cfg.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			if !cfg.IncludeHidden && isHidden(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 && !cfg.FollowSymlinks {
			return nil
		}
		if !cfg.IncludeHidden && isHidden(info.Name()) {
			return nil
		}
		if cfg.MaxFileSize > 0 && info.Size() > cfg.MaxFileSize {
			return nil
		}
		if ignore != nil {
			relPath, err := filepath.Rel(cfg.Root, path)
			if err != nil {
				return err
			}
			if ignore.MatchesPath(relPath) {
				return nil
			}
		}

		files = append(files, fileEntry{path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", cfg.Root, err)
	}

	numWorkers := runtime.NumCPU()
	if numWorkers < 1 {
		numWorkers = 1
	}

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	pathsCh := make(chan int, numWorkers*2)

	g.Go(func() error {
		defer close(pathsCh)
		for i := range files {
			select {
			case pathsCh <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < numWorkers; w++ {
		g.Go(func() error {
			for i := range pathsCh {
				f := files[i]
				out := outputPath(cfg, f.path)
				if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
					results[i] = FileResult{Path: f.path, Err: fmt.Errorf("prepare output dir: %w", err)}
					continue
				}
				stats, err := pipeline.ProcessFile(f.path, out, engine, func(frac float64) {
					progress(f.path, frac)
				})
				results[i] = FileResult{Path: f.path, OutputPath: out, Stats: stats, Err: err}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() != nil {
		return results, ctx.Err()
	}

	return results, nil
}

func outputPath(cfg Config, path string) string {
	if cfg.OutputDir != "" {
		rel, err := filepath.Rel(cfg.Root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		return filepath.Join(cfg.OutputDir, rel)
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + cfg.OutputSuffix + ext
}

func isHidden(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".")
}
