package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/miu2d/spritecodec/internal/convert"
)

// ConvertMap walks resourcesDir for *.map files and writes each as a
// sibling *.mmf file, binding trapsPath's trap table by stem match. A
// missing traps file yields an empty trap table rather than failing the
// batch. When deleteOriginals is set, each source .map is removed once
// its .mmf replacement is confirmed written.
func ConvertMap(ctx context.Context, log *zap.Logger, resourcesDir, trapsPath string, deleteOriginals bool) (*Summary, error) {
	trapsBytes, err := os.ReadFile(trapsPath)
	if err != nil {
		log.Warn("traps file unavailable, proceeding without trap tables", zap.String("path", trapsPath), zap.Error(err))
		trapsBytes = nil
	}

	var paths []string
	err = filepath.WalkDir(resourcesDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".map" {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("driver: walk %s: %w", resourcesDir, err)
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	var converted, failed int64
	var errs errorCollector
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			outPath := changeExt(path, ".mmf")
			data, err := os.ReadFile(path)
			if err == nil {
				var out []byte
				out, err = convert.MAPToMMF(data, stem, trapsBytes)
				if err == nil {
					err = os.WriteFile(outPath, out, 0o644)
				}
			}
			if err != nil {
				atomic.AddInt64(&failed, 1)
				errs.add(FileError{Path: path, Err: err})
				log.Warn("convert failed", zap.String("path", path), zap.Error(err))
				return nil
			}
			atomic.AddInt64(&converted, 1)
			log.Debug("converted", zap.String("src", path))

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

	return &Summary{
		Converted: atomic.LoadInt64(&converted),
		Failed:    atomic.LoadInt64(&failed),
		Errors:    errs.drain(),
	}, nil
}
