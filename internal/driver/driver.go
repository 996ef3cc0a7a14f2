// Package driver walks a source directory, fans conversion work for each
// matching file out over a CPU-sized worker pool, and mirrors the output
// path. The core codecs in internal/convert are pure functions on byte
// buffers; this package is where they meet disk and concurrency.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileError records a single file's conversion failure without aborting
// the rest of the batch.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Summary aggregates the outcome of a directory conversion.
type Summary struct {
	Converted int64
	Failed    int64
	Errors    []FileError
}

// Convert applies convertFile to every file under srcDir matching srcExt,
// writing each result to the same relative path under dstDir with the
// extension replaced (.asf/.mpc -> .msf, .map -> .mmf). Files are
// processed by a pool of runtime.NumCPU() workers; conversion errors are
// collected rather than aborting the walk. When deleteOriginals is set,
// each source file is removed once its replacement is confirmed written.
func Convert(ctx context.Context, log *zap.Logger, srcDir, dstDir, srcExt string, convertFile func([]byte) ([]byte, error), deleteOriginals bool) (*Summary, error) {
	var paths []string
	err := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != srcExt {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("driver: walk %s: %w", srcDir, err)
	}

	summary := &Summary{}
	var converted, failed int64
	var errs errorCollector

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rel, err := filepath.Rel(srcDir, path)
			if err != nil {
				rel = filepath.Base(path)
			}
			outPath := filepath.Join(dstDir, changeExt(rel, targetExt(srcExt)))

			if err := convertOne(path, outPath, convertFile); err != nil {
				atomic.AddInt64(&failed, 1)
				errs.add(FileError{Path: path, Err: err})
				log.Warn("convert failed", zap.String("path", path), zap.Error(err))
				return nil
			}
			atomic.AddInt64(&converted, 1)
			log.Debug("converted", zap.String("src", path), zap.String("dst", outPath))

			if deleteOriginals {
				if _, statErr := os.Stat(outPath); statErr == nil {
					if rmErr := os.Remove(path); rmErr != nil {
						log.Warn("failed to delete original", zap.String("path", path), zap.Error(rmErr))
					}
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.Converted = atomic.LoadInt64(&converted)
	summary.Failed = atomic.LoadInt64(&failed)
	summary.Errors = errs.drain()
	log.Info("batch complete", zap.Int64("converted", summary.Converted), zap.Int64("failed", summary.Failed))
	return summary, nil
}

func convertOne(inPath, outPath string, convertFile func([]byte) ([]byte, error)) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	out, err := convertFile(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func targetExt(srcExt string) string {
	switch srcExt {
	case ".asf", ".mpc":
		return ".msf"
	case ".map":
		return ".mmf"
	default:
		return srcExt
	}
}

func changeExt(path, newExt string) string {
	return path[:len(path)-len(filepath.Ext(path))] + newExt
}
