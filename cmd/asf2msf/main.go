// Command asf2msf converts every .asf sprite under an input directory to
// .msf, mirroring the directory structure into the output directory.
//
// Usage:
//
//	asf2msf <input_dir> <output_dir>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/miu2d/spritecodec/internal/convert"
	"github.com/miu2d/spritecodec/internal/driver"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "asf2msf: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("asf2msf", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("missing arguments\nUsage: asf2msf <input_dir> <output_dir>")
	}
	inputDir, outputDir := fs.Arg(0), fs.Arg(1)

	log, err := driver.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	summary, err := driver.Convert(context.Background(), log, inputDir, outputDir, ".asf", convert.ASFToMSF, false)
	if err != nil {
		return err
	}

	fmt.Printf("Converted %d, failed %d\n", summary.Converted, summary.Failed)
	for _, e := range summary.Errors {
		fmt.Fprintf(os.Stderr, "  %s\n", e)
	}
	if summary.Failed > 0 {
		os.Exit(1)
	}
	return nil
}
