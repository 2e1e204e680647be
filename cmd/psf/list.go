package main

import (
	"fmt"
	"log"
	"sort"

	"github.com/spf13/cobra"

	"github.com/psflib/psf"
)

var argsList struct {
	long bool
}

var cmdList = &cobra.Command{
	Use:   "list",
	Short: "list the signals in a PSF file",
	Long:  `List the signals of a PSF file, one per line.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, err := resolvePsfFile()
		if err != nil {
			log.Fatalf("psf list: %v", err)
		}

		ds, err := psf.Load(path)
		if err != nil {
			log.Fatalf("psf list: %v", err)
		}

		names := ds.Signals()
		sort.Strings(names)

		if !argsList.long {
			for _, name := range names {
				fmt.Println(name)
			}

			return
		}

		for _, name := range names {
			sig, err := ds.Signal(name)
			if err != nil {
				log.Fatalf("psf list: %v", err)
			}

			kind := ""
			if sig.Type != nil {
				kind = sig.Type.Kind
			}

			fmt.Printf("%-32s %-12s %-18s %8d\n", sig.Name, sig.Units, kind, psf.Len(sig.Ordinate))
		}
	},
}
