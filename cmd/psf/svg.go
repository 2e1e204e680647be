package main

import (
	"fmt"
	"math"
	"os"
	"strings"
)

// PlotOptions records the plot styling flags of spec.md §6. Actual
// rendering is out of scope for the reader's core; no plotting library
// appears anywhere in the retrieved example pack, so this is a minimal
// stdlib-only SVG writer rather than a wrapped third-party one. Mag and
// Phase are recorded but writeSVG does not read them.
type PlotOptions struct {
	DB         bool
	Mag        bool
	Phase      bool
	Title      string
	MarkPoints bool
	JustPoints bool
}

const (
	svgWidth  = 800
	svgHeight = 480
	svgMargin = 48
)

// writeSVG renders series as simple connected polylines (or point
// markers, per opts) on a linear plot, scaled to each series' own min/max.
func writeSVG(path string, series []selectedSeries, opts PlotOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var sb strings.Builder

	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		svgWidth, svgHeight, svgWidth, svgHeight)
	sb.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	if opts.Title != "" {
		fmt.Fprintf(&sb, `<text x="%d" y="20" font-size="16" text-anchor="middle">%s</text>`+"\n",
			svgWidth/2, escapeXML(opts.Title))
	}

	colors := []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

	for i, s := range series {
		values := s.values
		if opts.DB {
			values = toDB(values)
		}

		writeSeries(&sb, values, colors[i%len(colors)], opts)
	}

	for i, s := range series {
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-size="12" fill="%s">%s</text>`+"\n",
			svgWidth-140, 24+16*i, colors[i%len(colors)], escapeXML(s.label))
	}

	sb.WriteString(`</svg>`)

	_, err = f.WriteString(sb.String())

	return err
}

func toDB(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = 20 * math.Log10(math.Abs(v))
	}

	return out
}

func writeSeries(sb *strings.Builder, values []float64, color string, opts PlotOptions) {
	if len(values) == 0 {
		return
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}

		if v > hi {
			hi = v
		}
	}

	if hi == lo {
		hi = lo + 1
	}

	plotW := float64(svgWidth - 2*svgMargin)
	plotH := float64(svgHeight - 2*svgMargin)

	point := func(i int, v float64) (float64, float64) {
		x := float64(svgMargin)
		if len(values) > 1 {
			x += plotW * float64(i) / float64(len(values)-1)
		}

		y := float64(svgMargin) + plotH*(1-(v-lo)/(hi-lo))

		return x, y
	}

	if !opts.JustPoints {
		sb.WriteString(`<polyline fill="none" stroke="` + color + `" stroke-width="1.5" points="`)

		for i, v := range values {
			x, y := point(i, v)
			fmt.Fprintf(sb, "%.2f,%.2f ", x, y)
		}

		sb.WriteString(`"/>` + "\n")
	}

	if opts.MarkPoints || opts.JustPoints {
		for i, v := range values {
			x, y := point(i, v)
			fmt.Fprintf(sb, `<circle cx="%.2f" cy="%.2f" r="2" fill="%s"/>`+"\n", x, y, color)
		}
	}
}

func escapeXML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
