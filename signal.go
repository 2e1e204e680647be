package psf

import "github.com/psflib/psf/parser"

// Signal is a single named waveform or scalar, resolved from a trace or a
// DC operating-point value entry. Struct members carry their trace or
// entry name as a prefix (joined by the separator for swept traces, by "."
// for DC entries); group members keep their bare names.
type Signal struct {
	Name     string
	Type     *parser.Type
	Units    string
	Access   string
	Ordinate Ordinate
}

// Dataset is the fully assembled in-memory view of one PSF file. It is
// immutable after construction and safe for concurrent reads, per
// spec.md §5.
type Dataset struct {
	// Header holds the HEADER section's name/value pairs as parsed
	// (string, int64, or float64). A cache round trip flattens every
	// value to its string form (cache.HeaderEntry), so a cached load's
	// Header is always string-valued even when the original parse wasn't.
	Header map[string]any
	Types  map[string]*parser.Type
	Sweeps []*parser.Sweep
	Traces []*parser.Trace
	Groups map[string]*parser.Group

	order   []string
	signals map[string]*Signal
}

// Sweep returns the sweep at index, or (nil, false) if the dataset has
// none at that index. Per spec.md §9 only index 0 is interpreted anywhere
// in this reader; later sweeps are preserved but otherwise unexamined.
func (d *Dataset) Sweep(index int) (*parser.Sweep, bool) {
	if index < 0 || index >= len(d.Sweeps) {
		return nil, false
	}

	return d.Sweeps[index], true
}

// Signal looks up a signal by its exact constructed name, returning
// *UnknownSignalError (carrying the available names, sorted only when
// the error is rendered) when absent.
func (d *Dataset) Signal(name string) (*Signal, error) {
	if s, ok := d.signals[name]; ok {
		return s, nil
	}

	return nil, &UnknownSignalError{Name: name, Available: append([]string(nil), d.order...)}
}

// Signals returns the signal names in declaration order.
func (d *Dataset) Signals() []string {
	return append([]string(nil), d.order...)
}

// AllSignals returns every signal in declaration order.
func (d *Dataset) AllSignals() []*Signal {
	out := make([]*Signal, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.signals[name])
	}

	return out
}

// LogX reports whether sweep's grid marks a logarithmic abscissa. A nil
// sweep (e.g. a DC dataset) is never logarithmic.
func LogX(sweep *parser.Sweep) bool {
	return sweep != nil && sweep.Grid == 3
}

// LogY mirrors LogX; PSF does not distinguish axis-specific grid codes, so
// both report the same sweep-level flag, matching the original tool.
func LogY(sweep *parser.Sweep) bool {
	return LogX(sweep)
}
