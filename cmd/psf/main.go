// Command psf is a thin front end over the psf reader: it lists a PSF
// file's signals and plots them to SVG. None of this package is part of
// the reader's core; it consumes only psf's public surface.
package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var argsRoot struct {
	psfFile string
}

var cmdRoot = &cobra.Command{
	Use:   "psf",
	Short: "Inspect and plot Parameter Storage Format simulation results",
	Long:  `psf reads PSF result files produced by analog circuit simulators.`,
}

func main() {
	log.SetFlags(0)

	if err := Execute(); err != nil {
		log.Fatal(err)
	}
}

// Execute wires the command tree and runs it.
func Execute() error {
	cmdRoot.PersistentFlags().StringVar(&argsRoot.psfFile, "psf-file", "", "path to the PSF file (defaults to the last one used, via .psf_file)")

	cmdRoot.AddCommand(cmdList)
	cmdList.Flags().BoolVar(&argsList.long, "long", false, "show name, units, kind, and point count columns")

	cmdRoot.AddCommand(cmdShow)
	cmdShow.Flags().BoolVar(&argsShow.refreshCache, "refresh-cache", false, "ignore any existing cache and reparse")
	cmdShow.Flags().BoolVar(&argsShow.noCache, "no-cache", false, "same as --refresh-cache: ignore any existing cache and reparse")
	cmdShow.Flags().BoolVar(&argsShow.db, "db", false, "plot magnitude in dB")
	cmdShow.Flags().BoolVar(&argsShow.mag, "mag", false, "accepted but has no effect; complex signals are always plotted as linear magnitude")
	cmdShow.Flags().BoolVar(&argsShow.phase, "ph", false, "accepted but has no effect; phase is not plotted")
	cmdShow.Flags().StringVar(&argsShow.svg, "svg", "", "write an SVG plot to this file")
	cmdShow.Flags().StringVar(&argsShow.title, "title", "", "plot title")
	cmdShow.Flags().BoolVar(&argsShow.markPoints, "mark-points", false, "draw a marker at each sample point")
	cmdShow.Flags().BoolVar(&argsShow.justPoints, "just-points", false, "draw markers only, no connecting line")

	return cmdRoot.Execute()
}

// resolvePsfFile returns the --psf-file value, falling back to the
// .psf_file dotfile memoized by a previous invocation, matching the
// original tool's behavior (psf_utils.list/show).
func resolvePsfFile() (string, error) {
	if argsRoot.psfFile != "" {
		if err := writeDotfile(".psf_file", argsRoot.psfFile); err != nil {
			log.Printf("psf: %v", err)
		}

		return argsRoot.psfFile, nil
	}

	path, err := readDotfile(".psf_file")
	if err != nil {
		return "", err
	}

	if path == "" {
		return "", fmt.Errorf("no --psf-file given and no .psf_file memoized from a previous run")
	}

	return path, nil
}
