package main

import (
	"fmt"
	"log"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/psflib/psf"
)

var argsShow struct {
	refreshCache bool
	noCache      bool
	db           bool
	mag          bool
	phase        bool
	svg          string
	title        string
	markPoints   bool
	justPoints   bool
}

var cmdShow = &cobra.Command{
	Use:   "show [signals...]",
	Short: "plot one or more signals from a PSF file",
	Long: `Plot signals from a PSF file, selected by exact name, glob pattern
against the dataset's signal names, or "a-b" differential notation.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			restored, err := readArgsDotfile(".psf_args")
			if err != nil {
				log.Fatalf("psf show: %v", err)
			}

			args = restored
		} else if err := writeArgsDotfile(".psf_args", args); err != nil {
			log.Printf("psf show: %v", err)
		}

		path, err := resolvePsfFile()
		if err != nil {
			log.Fatalf("psf show: %v", err)
		}

		var opts []psf.Option
		if argsShow.noCache || argsShow.refreshCache {
			opts = append(opts, psf.WithCache(false))
		}

		start := time.Now()

		ds, err := psf.Load(path, opts...)
		if err != nil {
			log.Fatalf("psf show: %v", err)
		}

		elapsed := time.Since(start)
		log.Printf("psf: %s: parsed %s in %s", path, humanize.Bytes(uint64(datasetSize(ds))), elapsed)

		series, err := resolveSignals(ds, args)
		if err != nil {
			log.Fatalf("psf show: %v", err)
		}

		plotOpts := PlotOptions{
			DB:         argsShow.db,
			Mag:        argsShow.mag,
			Phase:      argsShow.phase,
			Title:      argsShow.title,
			MarkPoints: argsShow.markPoints,
			JustPoints: argsShow.justPoints,
		}

		if argsShow.svg == "" {
			for _, s := range series {
				fmt.Printf("%s: %d points\n", s.label, len(s.values))
			}

			return
		}

		if err := writeSVG(argsShow.svg, series, plotOpts); err != nil {
			log.Fatalf("psf show: %v", err)
		}
	},
}

// datasetSize is a rough byte estimate used only for the timing line that
// show always logs; it need not be exact.
func datasetSize(ds *psf.Dataset) int {
	total := 0

	for _, name := range ds.Signals() {
		sig, err := ds.Signal(name)
		if err != nil {
			continue
		}

		total += 8 * psf.Len(sig.Ordinate)
	}

	return total
}
