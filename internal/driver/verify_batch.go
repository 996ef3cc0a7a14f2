package driver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/miu2d/spritecodec/internal/verify"
)

// FileDivergence locates the first file and frame/pixel where a batch
// verification found a mismatch.
type FileDivergence struct {
	Path string
	verify.Divergence
}

// VerifySummary aggregates the outcome of a VerifyBatch run.
type VerifySummary struct {
	FilesChecked    int
	FilesFailed     int
	PixelsCompared  int64
	PixelsDiffering int64
	FirstDivergence *FileDivergence
}

// VerifyBatch walks srcDir for files with srcExt, locates each one's
// sibling .msf (same path, extension replaced), and runs verifyFn against
// the pair. Files with no sibling, or that fail to decode, count as
// FilesFailed rather than aborting the batch.
func VerifyBatch(srcDir, srcExt string, verifyFn func(src, dst []byte) (*verify.Result, error)) (*VerifySummary, error) {
	summary := &VerifySummary{}
	err := filepath.WalkDir(srcDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != srcExt {
			return nil
		}
		summary.FilesChecked++

		dstPath := changeExt(path, ".msf")
		srcData, err := os.ReadFile(path)
		if err != nil {
			summary.FilesFailed++
			return nil
		}
		dstData, err := os.ReadFile(dstPath)
		if err != nil {
			summary.FilesFailed++
			return nil
		}

		r, err := verifyFn(srcData, dstData)
		if err != nil {
			summary.FilesFailed++
			return nil
		}

		summary.PixelsCompared += r.PixelsCompared
		summary.PixelsDiffering += r.PixelsDiffering
		if r.FirstDivergence != nil && summary.FirstDivergence == nil {
			summary.FirstDivergence = &FileDivergence{Path: path, Divergence: *r.FirstDivergence}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("driver: walk %s: %w", srcDir, err)
	}
	return summary, nil
}
