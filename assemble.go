package psf

import (
	"fmt"
	"strings"

	"github.com/psflib/psf/parser"
)

// assemble produces the final Dataset from one file's parsed sections, per
// spec.md §4.4. Traces are consumed in declaration order and their raw
// value lists are released as soon as the corresponding signals are built,
// bounding peak memory to one trace's raw form plus the growing set of
// dense ordinates (spec.md §5).
func assemble(path string, sections *parser.Sections, sep string) (*Dataset, error) {
	if sections.HeaderOnly {
		return &Dataset{Header: sections.Header, signals: map[string]*Signal{}}, nil
	}

	signals := map[string]*Signal{}

	var order []string

	addSignal := func(name string, typ *parser.Type, ord Ordinate) error {
		if _, exists := signals[name]; exists {
			return newIntegrityError(path, fmt.Sprintf("duplicate signal name %q", name))
		}

		units, access := "", ""
		if typ != nil {
			units = typ.Units()
			access = typ.Name
		}

		signals[name] = &Signal{Name: name, Type: typ, Units: units, Access: access, Ordinate: ord}
		order = append(order, name)

		return nil
	}

	if len(sections.Traces) > 0 {
		if err := assembleSwept(path, sections, sep, addSignal); err != nil {
			return nil, err
		}
	} else {
		if err := assembleDC(path, sections, addSignal); err != nil {
			return nil, err
		}
	}

	return &Dataset{
		Header:  sections.Header,
		Types:   sections.Types,
		Sweeps:  sections.Sweeps,
		Traces:  sections.Traces,
		Groups:  sections.Groups,
		order:   order,
		signals: signals,
	}, nil
}

type addSignalFunc func(name string, typ *parser.Type, ord Ordinate) error

func assembleSwept(path string, sections *parser.Sections, sep string, addSignal addSignalFunc) error {
	if len(sections.Sweeps) > 0 {
		sw := sections.Sweeps[0]

		raw := sections.Values[sw.Name]
		if raw == nil {
			return newIntegrityError(path, fmt.Sprintf("missing sweep values for %q", sw.Name))
		}

		absc := make([]float64, len(raw.Samples))

		for i, sample := range raw.Samples {
			flat := parser.Flatten(sample)
			if len(flat) == 0 {
				return newIntegrityError(path, fmt.Sprintf("empty sweep sample for %q", sw.Name))
			}

			absc[i] = flat[0].Scalar.Float()
		}

		sw.Abscissa = absc
		delete(sections.Values, sw.Name)
	}

	for _, tr := range sections.Traces {
		raw := sections.Values[tr.Name]
		if raw == nil {
			return newIntegrityError(path, fmt.Sprintf("missing values for trace %q", tr.Name))
		}

		switch tr.Shape {
		case parser.ShapeGroup:
			group := sections.Groups[tr.Name]
			if group == nil {
				return newIntegrityError(path, fmt.Sprintf("trace %q declared GROUP with no matching members", tr.Name))
			}

			memberCount := len(group.Order)

			for i, member := range group.Order {
				typeName := group.Members[member]
				typ := sections.Types[typeName]

				ord, err := buildSeries(path, raw.Samples, i, memberCount, typ)
				if err != nil {
					return err
				}

				if err := addSignal(member, typ, ord); err != nil {
					return err
				}
			}
		default:
			typ := sections.Types[tr.TypeName]

			if typ != nil && typ.Struct != nil {
				prefix := tr.Name + sep
				memberCount := len(typ.Struct.Order)

				for i, member := range typ.Struct.Order {
					mtyp := typ.Struct.Members[member]

					ord, err := buildSeries(path, raw.Samples, i, memberCount, mtyp)
					if err != nil {
						return err
					}

					if err := addSignal(prefix+member, mtyp, ord); err != nil {
						return err
					}
				}
			} else {
				ord, err := buildSeries(path, raw.Samples, 0, 1, typ)
				if err != nil {
					return err
				}

				if err := addSignal(tr.Name, typ, ord); err != nil {
					return err
				}
			}
		}

		delete(sections.Values, tr.Name)
	}

	return nil
}

// buildSeries materializes the memberIdx'th positional element of every
// sample as a dense ordinate, folding adjacent (re, im) pairs into complex
// numbers when typ's kind contains "complex". memberCount is the total
// number of members the enclosing trace carries (1 for a bare scalar
// trace); a bare complex trace's sample is itself the (re, im) pair, not
// a tuple wrapping one further down, so it must not go through Flatten
// the way a multi-member struct/group sample does.
func buildSeries(path string, samples [][]parser.Elem, memberIdx, memberCount int, typ *parser.Type) (Ordinate, error) {
	kind := ""
	if typ != nil {
		kind = typ.Kind
	}

	if strings.Contains(kind, "complex") {
		values := make([]complex128, len(samples))

		for i, sample := range samples {
			if memberCount == 1 {
				if len(sample) != 1 {
					return nil, newIntegrityError(path, "complex sample missing its imaginary part")
				}

				values[i] = complexOf(sample[0])

				continue
			}

			flat := parser.Flatten(sample)
			if memberIdx >= len(flat) {
				return nil, newIntegrityError(path, "sample shorter than declared member count")
			}

			values[i] = complexOf(flat[memberIdx])
		}

		return ComplexSeries{Values: values}, nil
	}

	values := make([]float64, len(samples))

	for i, sample := range samples {
		flat := parser.Flatten(sample)
		if memberIdx >= len(flat) {
			return nil, newIntegrityError(path, "sample shorter than declared member count")
		}

		values[i] = flat[memberIdx].Scalar.Float()
	}

	return RealSeries{Values: values}, nil
}

func complexOf(e parser.Elem) complex128 {
	if e.IsTuple && len(e.Tuple) == 2 {
		return complex(e.Tuple[0].Scalar.Float(), e.Tuple[1].Scalar.Float())
	}

	return complex(e.Scalar.Float(), 0)
}

func assembleDC(path string, sections *parser.Sections, addSignal addSignalFunc) error {
	for _, name := range sections.ValueOrder {
		raw := sections.Values[name]
		if raw == nil {
			continue
		}

		typ := sections.Types[raw.TypeName]

		if raw.IsString {
			if len(raw.Strings) == 0 {
				return newIntegrityError(path, fmt.Sprintf("string entry %q has no value", name))
			}

			if err := addSignal(name, typ, ScalarString{Value: raw.Strings[0]}); err != nil {
				return err
			}

			continue
		}

		if len(raw.Samples) == 0 {
			return newIntegrityError(path, fmt.Sprintf("value entry %q has no sample", name))
		}

		sample := raw.Samples[0]

		if typ != nil && typ.Struct != nil {
			flat := parser.Flatten(sample)

			for i, member := range typ.Struct.Order {
				if i >= len(flat) {
					return newIntegrityError(path, fmt.Sprintf("struct entry %q shorter than its type", name))
				}

				mtyp := typ.Struct.Members[member]

				if err := addSignal(name+"."+member, mtyp, scalarFromElem(flat[i], mtyp)); err != nil {
					return err
				}
			}

			continue
		}

		// A bare complex scalar's sample is itself the (re, im) pair, not a
		// tuple wrapping one further down, so it must skip Flatten the way
		// the struct-member case above needs it.
		kind := ""
		if typ != nil {
			kind = typ.Kind
		}

		if strings.Contains(kind, "complex") {
			if len(sample) != 1 {
				return newIntegrityError(path, fmt.Sprintf("complex entry %q missing its imaginary part", name))
			}

			if err := addSignal(name, typ, scalarFromElem(sample[0], typ)); err != nil {
				return err
			}

			continue
		}

		flat := parser.Flatten(sample)
		if len(flat) == 0 {
			return newIntegrityError(path, fmt.Sprintf("value entry %q has an empty sample", name))
		}

		if err := addSignal(name, typ, scalarFromElem(flat[0], typ)); err != nil {
			return err
		}
	}

	return nil
}

func scalarFromElem(e parser.Elem, typ *parser.Type) Ordinate {
	kind := ""
	if typ != nil {
		kind = typ.Kind
	}

	if strings.Contains(kind, "complex") {
		return ScalarComplex{Value: complexOf(e)}
	}

	units := ""
	if typ != nil {
		units = typ.Units()
	}

	return ScalarFloat{Value: e.Scalar.Float(), Units: units}
}
