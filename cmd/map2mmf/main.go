// Command map2mmf converts every .map tile map under a resources
// directory to .mmf, binding each map's trap table from a Traps.ini file.
//
// Usage:
//
//	map2mmf <resources_dir> [--traps <traps_ini_path>]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/miu2d/spritecodec/internal/driver"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "map2mmf: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("map2mmf", flag.ContinueOnError)
	traps := fs.String("traps", "", "path to Traps.ini (default <resources_dir>/save/game/Traps.ini)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("missing argument\nUsage: map2mmf <resources_dir> [--traps <traps_ini_path>]")
	}
	resourcesDir := fs.Arg(0)

	trapsPath := *traps
	if trapsPath == "" {
		trapsPath = filepath.Join(resourcesDir, "save", "game", "Traps.ini")
	}

	log, err := driver.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	summary, err := driver.ConvertMap(context.Background(), log, resourcesDir, trapsPath, false)
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
