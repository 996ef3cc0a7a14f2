// Command convertall recodes an entire resources tree in one pass: ASF and
// MPC sprites under <resources_dir>/asf and <resources_dir>/mpc become MSF,
// tile maps under <resources_dir>/map become MMF, and legacy WMV/WMA media
// anywhere in the tree are transcoded via an external ffmpeg.
//
// Usage:
//
//	convertall <resources_dir> [--delete-originals]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/miu2d/spritecodec/internal/convert"
	"github.com/miu2d/spritecodec/internal/driver"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "convertall: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("convertall", flag.ContinueOnError)
	deleteOriginals := fs.Bool("delete-originals", false, "remove each ASF/MPC/MAP/WMV/WMA source once its replacement is written")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("missing argument\nUsage: convertall <resources_dir> [--delete-originals]")
	}
	resourcesDir := fs.Arg(0)

	log, err := driver.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := context.Background()
	total := &driver.Summary{}

	asfDir := filepath.Join(resourcesDir, "asf")
	if _, statErr := os.Stat(asfDir); statErr == nil {
		s, err := driver.Convert(ctx, log, asfDir, asfDir, ".asf", convert.ASFToMSF, *deleteOriginals)
		if err != nil {
			return err
		}
		merge(total, s)
	}

	mpcDir := filepath.Join(resourcesDir, "mpc")
	if _, statErr := os.Stat(mpcDir); statErr == nil {
		s, err := driver.Convert(ctx, log, mpcDir, mpcDir, ".mpc", convert.MPCToMSF, *deleteOriginals)
		if err != nil {
			return err
		}
		merge(total, s)
	}

	mapDir := filepath.Join(resourcesDir, "map")
	if _, statErr := os.Stat(mapDir); statErr == nil {
		trapsPath := filepath.Join(resourcesDir, "save", "game", "Traps.ini")
		s, err := driver.ConvertMap(ctx, log, mapDir, trapsPath, *deleteOriginals)
		if err != nil {
			return err
		}
		merge(total, s)
	}

	s, err := driver.ConvertMedia(ctx, log, resourcesDir, *deleteOriginals)
	if err != nil {
		return err
	}
	merge(total, s)

	fmt.Printf("Converted %d, failed %d\n", total.Converted, total.Failed)
	for _, e := range total.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", e)
	}
	if total.Failed > 0 {
		os.Exit(1)
	}
	return nil
}

func merge(total, s *driver.Summary) {
	total.Converted += s.Converted
	total.Failed += s.Failed
	total.Errors = append(total.Errors, s.Errors...)
}
