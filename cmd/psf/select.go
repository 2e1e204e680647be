package main

import (
	"fmt"
	"math"
	"path"
	"strings"

	"github.com/psflib/psf"
)

// selectedSeries is one resolved plot input: either a direct signal or a
// synthetic a-b difference.
type selectedSeries struct {
	label  string
	values []float64
}

// isDifferential reports whether expr is the "a-b" differential notation
// of the original show.py: exactly one dash and no glob metacharacters on
// either side.
func isDifferential(expr string) (a, b string, ok bool) {
	if strings.ContainsAny(expr, "*?[") {
		return "", "", false
	}

	parts := strings.Split(expr, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}

	return parts[0], parts[1], true
}

// resolveSignals expands a list of CLI arguments — glob patterns,
// differential a-b expressions, or exact names — against ds into a flat
// list of real-valued series to plot. Complex signals contribute their
// magnitude, matching --mag/--db handling downstream.
func resolveSignals(ds *psf.Dataset, exprs []string) ([]selectedSeries, error) {
	var out []selectedSeries

	all := ds.Signals()

	for _, expr := range exprs {
		if a, b, ok := isDifferential(expr); ok {
			sa, err := ds.Signal(a)
			if err != nil {
				return nil, err
			}

			sb, err := ds.Signal(b)
			if err != nil {
				return nil, err
			}

			diff, err := differenceOf(sa, sb)
			if err != nil {
				return nil, err
			}

			out = append(out, selectedSeries{label: expr, values: diff})

			continue
		}

		matched := false

		for _, name := range all {
			ok, err := path.Match(expr, name)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %q: %w", expr, err)
			}

			if !ok {
				continue
			}

			matched = true

			sig, err := ds.Signal(name)
			if err != nil {
				return nil, err
			}

			out = append(out, selectedSeries{label: name, values: realValuesOf(sig.Ordinate)})
		}

		if !matched {
			return nil, fmt.Errorf("no signal matches %q", expr)
		}
	}

	return out, nil
}

func realValuesOf(o psf.Ordinate) []float64 {
	switch v := o.(type) {
	case psf.RealSeries:
		return v.Values
	case psf.ComplexSeries:
		out := make([]float64, len(v.Values))
		for i, c := range v.Values {
			out[i] = magnitude(c)
		}

		return out
	case psf.ScalarFloat:
		return []float64{v.Value}
	case psf.ScalarComplex:
		return []float64{magnitude(v.Value)}
	default:
		return nil
	}
}

func magnitude(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func differenceOf(a, b *psf.Signal) ([]float64, error) {
	va := realValuesOf(a.Ordinate)
	vb := realValuesOf(b.Ordinate)

	if len(va) != len(vb) {
		return nil, fmt.Errorf("cannot difference %q (%d samples) and %q (%d samples)", a.Name, len(va), b.Name, len(vb))
	}

	out := make([]float64, len(va))
	for i := range va {
		out[i] = va[i] - vb[i]
	}

	return out, nil
}
