// Package parser reduces a token.Lexer's stream into the five-section
// structure spec.md §4.2 describes: header metadata, type dictionary,
// sweep list, (traces, groups) pair, and values dictionary. It also hosts
// the fast value scanner of spec.md §4.3, which bypasses this grammar
// entirely for the numerically dominant VALUE section.
package parser

// Type is either primitive (Struct == nil) or a struct (Struct != nil);
// spec.md §3 requires it never be meaningfully both.
type Type struct {
	Name   string
	Kind   string // lowercase, space-joined primitive-kind keywords
	Struct *Struct
	Props  map[string]any
}

// Units returns the type's "units" property, or "" if unset.
func (t *Type) Units() string {
	if t == nil || t.Props == nil {
		return ""
	}

	if u, ok := t.Props["units"].(string); ok {
		return u
	}

	return ""
}

// Struct is an ordered mapping from member name to Type. Insertion order
// is preserved: it drives both the dotted-member expansion of struct
// traces and the field order of DC struct signals.
type Struct struct {
	Order   []string
	Members map[string]*Type
}

func newStruct() *Struct {
	return &Struct{Members: map[string]*Type{}}
}

func (s *Struct) add(name string, t *Type) {
	if _, exists := s.Members[name]; !exists {
		s.Order = append(s.Order, name)
	}

	s.Members[name] = t
}

// Sweep is the independent variable of a parametric run.
type Sweep struct {
	Name     string
	TypeName string
	Grid     int // 1 = linear, 3 = log; 0 = unspecified
	Units    string
	Abscissa []float64
}

// TraceShapeKind distinguishes the three ways a Trace's samples are
// structured, so the assembler dispatches on a Go enum rather than on the
// string "GROUP" as a magic value (spec.md §9).
type TraceShapeKind int

const (
	ShapeScalar TraceShapeKind = iota
	ShapeStruct
	ShapeGroup
)

// Trace is a declared output channel of the simulation.
type Trace struct {
	Name     string
	TypeName string // empty for ShapeGroup
	Shape    TraceShapeKind
}

// Group aggregates the subsequent sibling traces named by its GROUP
// header's count into one composite value stream; Order preserves
// declaration order of the members.
type Group struct {
	Name    string
	Order   []string
	Members map[string]string // member name -> type name
}

// Number is a simple_number: either an integer or a real/NaN/inf float.
type Number struct {
	IsInt bool
	I     int64
	F     float64
}

func (n Number) Float() float64 {
	if n.IsInt {
		return float64(n.I)
	}

	return n.F
}

// Elem is one element of a "numbers" production: either a scalar Number
// or a composite_number tuple nesting further Elems.
type Elem struct {
	IsTuple bool
	Scalar  Number
	Tuple   []Elem
}

// Flatten unwraps a sample that is a single tuple-wrapped Elem into its
// inner elements, matching the "(single-element-tuple wrapping or direct)"
// leniency spec.md §4.4 calls out for struct and group member access.
func Flatten(sample []Elem) []Elem {
	if len(sample) == 1 && sample[0].IsTuple {
		return sample[0].Tuple
	}

	return sample
}

// RawValues is the parser's per-signal accumulation: a type name (only
// populated when the VALUE entry restates its type, as DC operating-point
// datasets do) and one sample per occurrence of the signal in the section.
type RawValues struct {
	TypeName string
	IsString bool
	Strings  []string // populated when IsString
	Samples  [][]Elem
}

// Sections is the parser's complete output for one PSF file.
type Sections struct {
	Header     map[string]any
	HeaderOnly bool
	Types      map[string]*Type
	Sweeps     []*Sweep
	Traces     []*Trace
	Groups     map[string]*Group
	Values     map[string]*RawValues
	// ValueOrder preserves the VALUE section's declaration order, since
	// Values is a map and Go map iteration order is not sufficient to
	// reconstruct the order DC operating-point signals must be emitted in.
	ValueOrder []string
}
