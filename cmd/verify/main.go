// Command verify round-trip-checks every .asf file under a directory
// against its sibling .msf, reporting the first divergence and aggregate
// diff counts.
//
// Usage:
//
//	verify <asf_dir>
package main

import (
	"fmt"
	"os"

	"github.com/miu2d/spritecodec/internal/driver"
	"github.com/miu2d/spritecodec/internal/verify"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("missing argument\nUsage: verify <asf_dir>")
	}

	summary, err := driver.VerifyBatch(args[0], ".asf", verify.ASF)
	if err != nil {
		return err
	}

	fmt.Printf("Checked %d files, %d failed to decode\n", summary.FilesChecked, summary.FilesFailed)
	fmt.Printf("Pixels compared: %d, differing: %d\n", summary.PixelsCompared, summary.PixelsDiffering)
	if summary.FirstDivergence != nil {
		d := summary.FirstDivergence
		fmt.Printf("First divergence: %s frame %d at (%d,%d)\n", d.Path, d.FrameIndex, d.X, d.Y)
	}

	if summary.PixelsDiffering > 0 || summary.FilesFailed > 0 {
		os.Exit(1)
	}
	return nil
}
