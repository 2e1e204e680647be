package cache

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers, deliberately explicit per-entity so the wire format can
// evolve without breaking SchemaVersion compatibility checks in cache.go.
const (
	fDatasetVersion = 1
	fDatasetHeader  = 2
	fDatasetSweep   = 3
	fDatasetSignal  = 4

	fHeaderKey   = 1
	fHeaderValue = 2

	fSweepName     = 1
	fSweepUnits    = 2
	fSweepGrid     = 3
	fSweepAbscissa = 4

	fSignalName         = 1
	fSignalKind         = 2
	fSignalUnits        = 3
	fSignalAccess       = 4
	fSignalOrdinateKind = 5
	fSignalRealValues   = 6
	fSignalComplexRe    = 7
	fSignalComplexIm    = 8
	fSignalScalarFloat  = 9
	fSignalScalarCplxRe = 10
	fSignalScalarCplxIm = 11
	fSignalScalarString = 12
)

// Marshal encodes the dataset into the private binary snapshot format.
func Marshal(d *Dataset) []byte {
	var b []byte

	b = protowire.AppendTag(b, fDatasetVersion, protowire.BytesType)
	b = protowire.AppendString(b, d.SchemaVersion)

	for _, h := range d.Header {
		b = protowire.AppendTag(b, fDatasetHeader, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalHeaderEntry(h))
	}

	if d.HasSweep {
		b = protowire.AppendTag(b, fDatasetSweep, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalSweep(d.Sweep))
	}

	for _, s := range d.Signals {
		b = protowire.AppendTag(b, fDatasetSignal, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalSignal(s))
	}

	return b
}

func marshalHeaderEntry(h HeaderEntry) []byte {
	var b []byte

	b = protowire.AppendTag(b, fHeaderKey, protowire.BytesType)
	b = protowire.AppendString(b, h.Key)
	b = protowire.AppendTag(b, fHeaderValue, protowire.BytesType)
	b = protowire.AppendString(b, h.Value)

	return b
}

func marshalSweep(s Sweep) []byte {
	var b []byte

	b = protowire.AppendTag(b, fSweepName, protowire.BytesType)
	b = protowire.AppendString(b, s.Name)
	b = protowire.AppendTag(b, fSweepUnits, protowire.BytesType)
	b = protowire.AppendString(b, s.Units)
	b = protowire.AppendTag(b, fSweepGrid, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(int64(s.Grid)))

	for _, v := range s.Abscissa {
		b = protowire.AppendTag(b, fSweepAbscissa, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(v))
	}

	return b
}

func marshalSignal(s Signal) []byte {
	var b []byte

	b = protowire.AppendTag(b, fSignalName, protowire.BytesType)
	b = protowire.AppendString(b, s.Name)
	b = protowire.AppendTag(b, fSignalKind, protowire.BytesType)
	b = protowire.AppendString(b, s.Kind)
	b = protowire.AppendTag(b, fSignalUnits, protowire.BytesType)
	b = protowire.AppendString(b, s.Units)
	b = protowire.AppendTag(b, fSignalAccess, protowire.BytesType)
	b = protowire.AppendString(b, s.Access)
	b = protowire.AppendTag(b, fSignalOrdinateKind, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(s.OrdinateKind))

	for _, v := range s.RealValues {
		b = protowire.AppendTag(b, fSignalRealValues, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(v))
	}

	for _, v := range s.ComplexRe {
		b = protowire.AppendTag(b, fSignalComplexRe, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(v))
	}

	for _, v := range s.ComplexIm {
		b = protowire.AppendTag(b, fSignalComplexIm, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, math.Float64bits(v))
	}

	b = protowire.AppendTag(b, fSignalScalarFloat, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(s.ScalarFloat))
	b = protowire.AppendTag(b, fSignalScalarCplxRe, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(s.ScalarComplex[0]))
	b = protowire.AppendTag(b, fSignalScalarCplxIm, protowire.Fixed64Type)
	b = protowire.AppendFixed64(b, math.Float64bits(s.ScalarComplex[1]))
	b = protowire.AppendTag(b, fSignalScalarString, protowire.BytesType)
	b = protowire.AppendString(b, s.ScalarString)

	return b
}

// Unmarshal decodes a snapshot written by Marshal. Any malformed or
// truncated input is reported as an error; the root psf package treats
// that as an ordinary cache miss.
func Unmarshal(b []byte) (*Dataset, error) {
	d := &Dataset{}

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, fmt.Errorf("cache: malformed tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case fDatasetVersion:
			s, m := protowire.ConsumeString(b)
			if m < 0 {
				return nil, fmt.Errorf("cache: malformed version field: %w", protowire.ParseError(m))
			}

			d.SchemaVersion = s
			b = b[m:]
		case fDatasetHeader:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("cache: malformed header entry: %w", protowire.ParseError(m))
			}

			h, err := unmarshalHeaderEntry(raw)
			if err != nil {
				return nil, err
			}

			d.Header = append(d.Header, h)
			b = b[m:]
		case fDatasetSweep:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("cache: malformed sweep: %w", protowire.ParseError(m))
			}

			sw, err := unmarshalSweep(raw)
			if err != nil {
				return nil, err
			}

			d.HasSweep = true
			d.Sweep = sw
			b = b[m:]
		case fDatasetSignal:
			raw, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return nil, fmt.Errorf("cache: malformed signal: %w", protowire.ParseError(m))
			}

			sig, err := unmarshalSignal(raw)
			if err != nil {
				return nil, err
			}

			d.Signals = append(d.Signals, sig)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return nil, fmt.Errorf("cache: malformed unknown field %d: %w", num, protowire.ParseError(m))
			}

			b = b[m:]
		}
	}

	return d, nil
}

func unmarshalHeaderEntry(b []byte) (HeaderEntry, error) {
	var h HeaderEntry

	for len(b) > 0 {
		num, _, n := protowire.ConsumeTag(b)
		if n < 0 {
			return h, fmt.Errorf("cache: malformed header tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		s, m := protowire.ConsumeString(b)
		if m < 0 {
			return h, fmt.Errorf("cache: malformed header string: %w", protowire.ParseError(m))
		}

		b = b[m:]

		switch num {
		case fHeaderKey:
			h.Key = s
		case fHeaderValue:
			h.Value = s
		}
	}

	return h, nil
}

func unmarshalSweep(b []byte) (Sweep, error) {
	var s Sweep

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return s, fmt.Errorf("cache: malformed sweep tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case fSweepName:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return s, fmt.Errorf("cache: malformed sweep name: %w", protowire.ParseError(m))
			}

			s.Name = v
			b = b[m:]
		case fSweepUnits:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return s, fmt.Errorf("cache: malformed sweep units: %w", protowire.ParseError(m))
			}

			s.Units = v
			b = b[m:]
		case fSweepGrid:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return s, fmt.Errorf("cache: malformed sweep grid: %w", protowire.ParseError(m))
			}

			s.Grid = int32(v)
			b = b[m:]
		case fSweepAbscissa:
			v, m := protowire.ConsumeFixed64(b)
			if m < 0 {
				return s, fmt.Errorf("cache: malformed sweep abscissa: %w", protowire.ParseError(m))
			}

			s.Abscissa = append(s.Abscissa, math.Float64frombits(v))
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return s, fmt.Errorf("cache: malformed sweep field %d: %w", num, protowire.ParseError(m))
			}

			b = b[m:]
		}
	}

	return s, nil
}

func unmarshalSignal(b []byte) (Signal, error) {
	var s Signal

	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return s, fmt.Errorf("cache: malformed signal tag: %w", protowire.ParseError(n))
		}

		b = b[n:]

		switch num {
		case fSignalName, fSignalKind, fSignalUnits, fSignalAccess, fSignalScalarString:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return s, fmt.Errorf("cache: malformed signal string field %d: %w", num, protowire.ParseError(m))
			}

			switch num {
			case fSignalName:
				s.Name = v
			case fSignalKind:
				s.Kind = v
			case fSignalUnits:
				s.Units = v
			case fSignalAccess:
				s.Access = v
			case fSignalScalarString:
				s.ScalarString = v
			}

			b = b[m:]
		case fSignalOrdinateKind:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return s, fmt.Errorf("cache: malformed ordinate kind: %w", protowire.ParseError(m))
			}

			s.OrdinateKind = OrdinateKind(v)
			b = b[m:]
		case fSignalRealValues, fSignalComplexRe, fSignalComplexIm, fSignalScalarFloat,
			fSignalScalarCplxRe, fSignalScalarCplxIm:
			v, m := protowire.ConsumeFixed64(b)
			if m < 0 {
				return s, fmt.Errorf("cache: malformed signal fixed64 field %d: %w", num, protowire.ParseError(m))
			}

			f := math.Float64frombits(v)

			switch num {
			case fSignalRealValues:
				s.RealValues = append(s.RealValues, f)
			case fSignalComplexRe:
				s.ComplexRe = append(s.ComplexRe, f)
			case fSignalComplexIm:
				s.ComplexIm = append(s.ComplexIm, f)
			case fSignalScalarFloat:
				s.ScalarFloat = f
			case fSignalScalarCplxRe:
				s.ScalarComplex[0] = f
			case fSignalScalarCplxIm:
				s.ScalarComplex[1] = f
			}

			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return s, fmt.Errorf("cache: malformed signal field %d: %w", num, protowire.ParseError(m))
			}

			b = b[m:]
		}
	}

	return s, nil
}
