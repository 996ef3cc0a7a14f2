package driver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"go.uber.org/zap"
)

// mediaJobs pairs each source extension with the ffmpeg arguments that
// produce its replacement, per the original converter's media step
// (WMV -> WebM via VP9/Opus, WMA -> OGG via Vorbis).
var mediaJobs = map[string]struct {
	targetExt string
	ffmpegArg func(src, dst string) []string
}{
	".wmv": {".webm", func(src, dst string) []string {
		return []string{"-y", "-i", src, "-c:v", "libvpx-vp9", "-c:a", "libopus", dst}
	}},
	".wma": {".ogg", func(src, dst string) []string {
		return []string{"-y", "-i", src, "-c:a", "libvorbis", dst}
	}},
}

// ConvertMedia walks resourcesDir for *.wmv and *.wma files and invokes an
// external ffmpeg to produce *.webm / *.ogg siblings. When
// deleteOriginals is set, the source is removed only after the
// replacement file is confirmed to exist. ffmpeg failures are collected
// per file, not fatal to the batch.
func ConvertMedia(ctx context.Context, log *zap.Logger, resourcesDir string, deleteOriginals bool) (*Summary, error) {
	summary := &Summary{}
	err := filepath.WalkDir(resourcesDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		job, ok := mediaJobs[filepath.Ext(path)]
		if !ok {
			return nil
		}

		dst := changeExt(path, job.targetExt)
		cmd := exec.CommandContext(ctx, "ffmpeg", job.ffmpegArg(path, dst)...)
		if out, runErr := cmd.CombinedOutput(); runErr != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, FileError{Path: path, Err: fmt.Errorf("ffmpeg: %w: %s", runErr, out)})
			log.Warn("media convert failed", zap.String("path", path), zap.Error(runErr))
			return nil
		}

		summary.Converted++
		log.Debug("converted", zap.String("src", path), zap.String("dst", dst))

		if deleteOriginals {
			if _, statErr := os.Stat(dst); statErr == nil {
				if rmErr := os.Remove(path); rmErr != nil {
					log.Warn("failed to delete original", zap.String("path", path), zap.Error(rmErr))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("driver: walk %s: %w", resourcesDir, err)
	}
	return summary, nil
}
