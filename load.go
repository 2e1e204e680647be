// Package psf reads ASCII Parameter Storage Format (PSF) result files
// produced by analog circuit simulators and exposes their swept
// waveforms and DC operating-point scalars as a typed in-memory Dataset.
package psf

import (
	"fmt"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/psflib/psf/cache"
	"github.com/psflib/psf/parser"
	"github.com/psflib/psf/token"
	"github.com/psflib/psf/units"
)

// Load reads, parses, and assembles the PSF file at path into a Dataset.
// It is synchronous and blocking; there is no partial or streaming form
// (spec.md §5). Cache reads and writes are attempted around the parse
// according to opts, defaulting to load(path, sep=":", use_cache=true,
// update_cache=true).
func Load(path string, opts ...Option) (*Dataset, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, newIoError(path, err)
	}

	if !utf8.Valid(raw) {
		return nil, newEncodingError(path)
	}

	cachePath := path + ".cache"

	if o.useCache {
		if ds, ok := tryCache(path, cachePath); ok {
			return ds, nil
		}
	}

	sections, err := parseSections(path, string(raw))
	if err != nil {
		return nil, err
	}

	ds, err := assemble(path, sections, o.sep)
	if err != nil {
		return nil, err
	}

	if o.updateCache {
		if err := cache.Write(cachePath, toCacheDataset(ds)); err != nil {
			log.Printf("psf: %s: cache write failed: %v", path, err)
		}
	}

	return ds, nil
}

// parseSections runs the lexer/parser over src, substituting the fast
// value scanner's output for the grammar-driven VALUE parse whenever its
// preconditions hold (spec.md §4.3).
func parseSections(path, src string) (*parser.Sections, error) {
	p := parser.New(path, src)

	sections, err := p.ParseMeta()
	if err != nil {
		return nil, wrapPosErr(path, classifyErr(err), err)
	}

	if sections.HeaderOnly {
		return sections, nil
	}

	if names, data, ok := parser.FastScanValues(src); ok {
		values := make(map[string]*parser.RawValues, len(names))
		order := make([]string, 0, len(names))

		for i, name := range names {
			rv := &parser.RawValues{Samples: make([][]parser.Elem, len(data[i]))}

			for c, v := range data[i] {
				rv.Samples[c] = []parser.Elem{{Scalar: parser.Number{F: v}}}
			}

			values[name] = rv
			order = append(order, name)
		}

		sections.Values = values
		sections.ValueOrder = order

		return sections, nil
	}

	sections, err = p.FinishValues(sections)
	if err != nil {
		return nil, wrapPosErr(path, classifyErr(err), err)
	}

	return sections, nil
}

func classifyErr(err error) ErrorKind {
	var pe *token.PosError

	if asPosError(err, &pe) {
		msg := pe.Detail.Message
		if strings.Contains(msg, "illegal character") || strings.Contains(msg, "unknown keyword") ||
			strings.Contains(msg, "unterminated") || strings.Contains(msg, "embedded newline") ||
			strings.Contains(msg, "malformed") {
			return LexError
		}
	}

	return ParseError
}

func tryCache(path, cachePath string) (*Dataset, bool) {
	srcInfo, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	cacheInfo, err := os.Stat(cachePath)
	if err != nil {
		return nil, false
	}

	if !cacheInfo.ModTime().After(srcInfo.ModTime()) {
		return nil, false
	}

	cd, err := cache.Read(cachePath)
	if err != nil {
		log.Printf("psf: %s: cache read failed, reparsing: %v", path, err)
		return nil, false
	}

	return fromCacheDataset(cd), true
}

func toCacheDataset(ds *Dataset) *cache.Dataset {
	cd := &cache.Dataset{}

	keys := make([]string, 0, len(ds.Header))
	for k := range ds.Header {
		keys = append(keys, k)
	}

	for _, k := range keys {
		cd.Header = append(cd.Header, cache.HeaderEntry{Key: k, Value: fmt.Sprint(ds.Header[k])})
	}

	if sw, ok := ds.Sweep(0); ok {
		cd.HasSweep = true
		cd.Sweep = cache.Sweep{
			Name:     sw.Name,
			Units:    sw.Units,
			Grid:     int32(sw.Grid),
			Abscissa: append([]float64(nil), sw.Abscissa...),
		}
	}

	for _, name := range ds.order {
		s := ds.signals[name]

		cs := cache.Signal{Name: s.Name, Units: s.Units, Access: s.Access}
		if s.Type != nil {
			cs.Kind = s.Type.Kind
		}

		switch o := s.Ordinate.(type) {
		case RealSeries:
			cs.OrdinateKind = cache.KindRealSeries
			cs.RealValues = o.Values
		case ComplexSeries:
			cs.OrdinateKind = cache.KindComplexSeries
			cs.ComplexRe = make([]float64, len(o.Values))
			cs.ComplexIm = make([]float64, len(o.Values))

			for i, c := range o.Values {
				cs.ComplexRe[i] = real(c)
				cs.ComplexIm[i] = imag(c)
			}
		case ScalarFloat:
			cs.OrdinateKind = cache.KindScalarFloat
			cs.ScalarFloat = o.Value
			cs.Units = o.Units
		case ScalarComplex:
			cs.OrdinateKind = cache.KindScalarComplex
			cs.ScalarComplex = [2]float64{real(o.Value), imag(o.Value)}
		case ScalarString:
			cs.OrdinateKind = cache.KindScalarString
			cs.ScalarString = o.Value
		}

		cd.Signals = append(cd.Signals, cs)
	}

	return cd
}

func fromCacheDataset(cd *cache.Dataset) *Dataset {
	ds := &Dataset{signals: map[string]*Signal{}}

	if len(cd.Header) > 0 {
		ds.Header = map[string]any{}
		for _, h := range cd.Header {
			ds.Header[h.Key] = h.Value
		}
	}

	if cd.HasSweep {
		ds.Sweeps = []*parser.Sweep{{
			Name:     cd.Sweep.Name,
			Units:    cd.Sweep.Units,
			Grid:     int(cd.Sweep.Grid),
			Abscissa: cd.Sweep.Abscissa,
		}}
	}

	for _, cs := range cd.Signals {
		var typ *parser.Type
		if cs.Kind != "" || cs.Units != "" || cs.Access != "" {
			typ = &parser.Type{Name: cs.Access, Kind: cs.Kind, Props: map[string]any{"units": cs.Units}}
		}

		var ord Ordinate

		switch cs.OrdinateKind {
		case cache.KindRealSeries:
			ord = RealSeries{Values: cs.RealValues}
		case cache.KindComplexSeries:
			values := make([]complex128, len(cs.ComplexRe))
			for i := range values {
				values[i] = complex(cs.ComplexRe[i], cs.ComplexIm[i])
			}

			ord = ComplexSeries{Values: values}
		case cache.KindScalarFloat:
			ord = ScalarFloat{Value: cs.ScalarFloat, Units: cs.Units}
		case cache.KindScalarComplex:
			ord = ScalarComplex{Value: complex(cs.ScalarComplex[0], cs.ScalarComplex[1])}
		case cache.KindScalarString:
			ord = ScalarString{Value: cs.ScalarString}
		}

		sig := &Signal{Name: cs.Name, Type: typ, Units: cs.Units, Access: cs.Access, Ordinate: ord}
		ds.signals[cs.Name] = sig
		ds.order = append(ds.order, cs.Name)
	}

	return ds
}

// UnitsToUnicode delegates to the units package's beautification table.
func UnitsToUnicode(raw string) string {
	return units.ToUnicode(raw)
}

// UnitsToLatex is a documented no-op, per spec.md's non-goals.
func UnitsToLatex(raw string) string {
	return raw
}
