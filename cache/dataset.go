// Package cache implements the PSF reader's on-disk snapshot format:
// spec.md §4.5/§9 ask for "a stable binary encoding with a version tag and
// explicit schemas" rather than a language-specific pickling format, so
// this package hand-encodes every field with protowire, the same way the
// teacher's sibling packages hand-roll their own wire formats rather than
// reach for encoding/gob (which is exactly the pickling shape the design
// note warns against).
package cache

// OrdinateKind mirrors the root psf package's Ordinate variant tags in a
// form that survives serialization without importing the psf package
// (which would create an import cycle, since psf imports cache).
type OrdinateKind int32

const (
	KindRealSeries OrdinateKind = iota
	KindComplexSeries
	KindScalarFloat
	KindScalarComplex
	KindScalarString
)

// HeaderEntry is one HEADER section name/value pair. Values are flattened
// to their string form: the header is display metadata only, never
// consumed numerically by the reader, so the round trip only needs to
// preserve what a `list --long`-style consumer would print.
type HeaderEntry struct {
	Key   string
	Value string
}

// Sweep is the cached form of the dataset's primary (index 0) sweep. Later
// sweeps are never interpreted (spec.md §9) and are not cached.
type Sweep struct {
	Name     string
	Units    string
	Grid     int32
	Abscissa []float64
}

// Signal is the cached form of one assembled psf.Signal.
type Signal struct {
	Name   string
	Kind   string
	Units  string
	Access string

	OrdinateKind OrdinateKind

	RealValues    []float64
	ComplexRe     []float64
	ComplexIm     []float64
	ScalarFloat   float64
	ScalarComplex [2]float64 // [re, im]
	ScalarString  string
}

// Dataset is the complete cached snapshot of one PSF load.
type Dataset struct {
	SchemaVersion string
	Header        []HeaderEntry
	HasSweep      bool
	Sweep         Sweep
	Signals       []Signal
}
