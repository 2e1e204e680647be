// SPDX-FileCopyrightText: © 2021 The dyml authors <https://github.com/golangee/dyml/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"io"
	"strings"

	"github.com/psflib/psf/token"
)

// Parser is a recursive-descent reducer over a token.Lexer, carrying the
// filename as a struct field rather than the package-scoped global the
// teacher's earlier grammar used — spec.md §5 and §9 call this out
// explicitly as a re-architecture target so that independent loads never
// share state.
type Parser struct {
	lex        *token.Lexer
	filename   string
	cur        token.Token
	atEOF      bool
	pendingErr error
}

// New creates a Parser over src, which must already be valid UTF-8 text.
func New(filename, src string) *Parser {
	p := &Parser{lex: token.NewLexer(filename, src), filename: filename}
	p.advance()

	return p
}

func (p *Parser) advance() {
	if p.pendingErr != nil {
		return
	}

	tok, err := p.lex.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			p.atEOF = true
			p.cur = token.Token{}

			return
		}

		p.pendingErr = err

		return
	}

	p.cur = tok
}

// Parse consumes the entire token stream and returns the five-section
// structure, or a *token.PosError describing the first syntax problem.
// It always parses the VALUE section through the grammar; callers that
// want the fast path of spec.md §4.3 should use ParseMeta and
// FinishValues instead, substituting a fast-scanned RawValues map when
// FastScanValues succeeds.
func (p *Parser) Parse() (*Sections, error) {
	sections, err := p.ParseMeta()
	if err != nil {
		return nil, err
	}

	if sections.HeaderOnly {
		return sections, nil
	}

	return p.FinishValues(sections)
}

// ParseMeta consumes HEADER, TYPE, and the optional SWEEP/TRACE pair,
// leaving the lexer positioned at VALUE (or having already consumed a
// trailing END for header-only datasets, in which case sections.HeaderOnly
// is true and FinishValues must not be called).
func (p *Parser) ParseMeta() (*Sections, error) {
	if err := p.expect(token.HEADER); err != nil {
		return nil, err
	}

	header, err := p.parseNamedValues()
	if err != nil {
		return nil, err
	}

	if p.cur.Kind == token.END && p.pendingErr == nil {
		p.advance()

		return &Sections{Header: header, HeaderOnly: true}, p.pendingErr
	}

	if err := p.expect(token.TYPE); err != nil {
		return nil, err
	}

	typeDecls, err := p.parseTypeDecls()
	if err != nil {
		return nil, err
	}

	types := map[string]*Type{}
	for _, name := range typeDecls.Order {
		types[name] = typeDecls.Members[name]
	}

	sections := &Sections{Header: header, Types: types}

	if p.cur.Kind == token.SWEEP {
		p.advance()

		sweeps, err := p.parseSweeps()
		if err != nil {
			return nil, err
		}

		if err := p.expect(token.TRACE); err != nil {
			return nil, err
		}

		traces, groups, err := p.parseTraces()
		if err != nil {
			return nil, err
		}

		for _, tr := range traces {
			if t := types[tr.TypeName]; tr.Shape != ShapeGroup && t != nil && t.Struct != nil {
				tr.Shape = ShapeStruct
			}
		}

		sections.Sweeps = sweeps
		sections.Traces = traces
		sections.Groups = groups
	}

	return sections, p.pendingErr
}

// FinishValues consumes VALUE values END, completing a Sections started by
// ParseMeta through the grammar. Used when the fast scanner of
// fastvalue.go was not applicable.
func (p *Parser) FinishValues(sections *Sections) (*Sections, error) {
	if err := p.expect(token.VALUE); err != nil {
		return nil, err
	}

	values, order, err := p.parseValues()
	if err != nil {
		return nil, err
	}

	sections.Values = values
	sections.ValueOrder = order

	if err := p.expect(token.END); err != nil {
		return nil, err
	}

	return sections, nil
}

func (p *Parser) syntaxErr(msg string) error {
	if p.pendingErr != nil {
		return p.pendingErr
	}

	pos := p.cur.Pos

	if p.atEOF {
		return token.NewPosError(pos, "", "premature end of content")
	}

	return token.NewPosError(pos, p.lex.LineText(pos.Line), msg)
}

func (p *Parser) expect(k token.Kind) error {
	if p.pendingErr != nil {
		return p.pendingErr
	}

	if p.atEOF {
		return p.syntaxErr("premature end of content")
	}

	if p.cur.Kind != k {
		return p.syntaxErr("syntax error at '" + p.cur.Text + "'")
	}

	p.advance()

	return p.pendingErr
}

// parseNamedValues consumes (string value)+.
func (p *Parser) parseNamedValues() (map[string]any, error) {
	out := map[string]any{}

	for p.pendingErr == nil && !p.atEOF && p.cur.Kind == token.QUOTED_STRING {
		name := token.Unescape(p.cur.Sval)
		p.advance()

		if p.pendingErr != nil {
			return nil, p.pendingErr
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		out[name] = val
	}

	return out, p.pendingErr
}

// parseValue consumes one "value := string | INTEGER | REAL | NAN".
func (p *Parser) parseValue() (any, error) {
	if p.pendingErr != nil {
		return nil, p.pendingErr
	}

	switch p.cur.Kind {
	case token.QUOTED_STRING:
		v := token.Unescape(p.cur.Sval)
		p.advance()

		return v, p.pendingErr
	case token.INTEGER:
		v := p.cur.Ival
		p.advance()

		return v, p.pendingErr
	case token.REAL, token.NAN:
		v := p.cur.Fval
		p.advance()

		return v, p.pendingErr
	default:
		return nil, p.syntaxErr("expected a value, found '" + p.cur.Text + "'")
	}
}

func isKindToken(k token.Kind) bool {
	switch k {
	case token.FLOAT, token.DOUBLE, token.COMPLEX, token.INT, token.BYTE,
		token.LONG, token.SINGLE, token.STRING, token.STAR, token.STRUCT,
		token.ARRAY, token.PROP:
		return true
	default:
		return false
	}
}

// parseTypeDecls consumes "types := (string kinds)+", preserving
// declaration order. It is used both for the top-level TYPE section and
// for nested STRUCT(...) member lists, which share the same production.
func (p *Parser) parseTypeDecls() (*Struct, error) {
	out := newStruct()

	for p.pendingErr == nil && !p.atEOF && p.cur.Kind == token.QUOTED_STRING {
		name := token.Unescape(p.cur.Sval)
		p.advance()

		if p.pendingErr != nil {
			return nil, p.pendingErr
		}

		typ, err := p.parseKinds(name)
		if err != nil {
			return nil, err
		}

		out.add(name, typ)
	}

	return out, p.pendingErr
}

// parseKinds consumes "kinds := kind+" and assembles the resulting Type,
// per spec.md §4.2's type assembly rule: the textual kind is the
// lowercase, space-joined concatenation of primitive-kind keywords; any
// PROP block merges into Props; any STRUCT becomes Type.Struct.
func (p *Parser) parseKinds(name string) (*Type, error) {
	var words []string

	var structType *Struct

	props := map[string]any{}

	for p.pendingErr == nil && !p.atEOF && isKindToken(p.cur.Kind) {
		switch p.cur.Kind {
		case token.STRUCT:
			p.advance()

			if err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}

			members, err := p.parseTypeDecls()
			if err != nil {
				return nil, err
			}

			if err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}

			structType = members
		case token.ARRAY:
			p.advance()

			if err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}

			if err := p.expect(token.STAR); err != nil {
				return nil, err
			}

			if err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
		case token.PROP:
			p.advance()

			if err := p.expect(token.LPAREN); err != nil {
				return nil, err
			}

			nv, err := p.parseNamedValues()
			if err != nil {
				return nil, err
			}

			if err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}

			for k, v := range nv {
				props[k] = v
			}
		case token.STAR:
			words = append(words, "*")
			p.advance()
		default:
			words = append(words, strings.ToLower(p.cur.Kind.String()))
			p.advance()
		}

		if p.pendingErr != nil {
			return nil, p.pendingErr
		}
	}

	return &Type{Name: name, Kind: strings.Join(words, " "), Props: props, Struct: structType}, nil
}

// parseSweeps consumes "sweeps := (string string kinds)+".
func (p *Parser) parseSweeps() ([]*Sweep, error) {
	var sweeps []*Sweep

	for p.pendingErr == nil && !p.atEOF && p.cur.Kind == token.QUOTED_STRING {
		name := token.Unescape(p.cur.Sval)
		p.advance()

		if err := p.expectPeek(token.QUOTED_STRING); err != nil {
			return nil, err
		}

		typeName := token.Unescape(p.cur.Sval)
		p.advance()

		if p.pendingErr != nil {
			return nil, p.pendingErr
		}

		sw := &Sweep{Name: name, TypeName: typeName}

		for p.pendingErr == nil && !p.atEOF && isKindToken(p.cur.Kind) {
			switch p.cur.Kind {
			case token.PROP:
				p.advance()

				if err := p.expect(token.LPAREN); err != nil {
					return nil, err
				}

				nv, err := p.parseNamedValues()
				if err != nil {
					return nil, err
				}

				if err := p.expect(token.RPAREN); err != nil {
					return nil, err
				}

				if g, ok := nv["grid"]; ok {
					sw.Grid = toInt(g)
				}

				if u, ok := nv["units"]; ok {
					if s, ok := u.(string); ok {
						sw.Units = s
					}
				}
			default:
				// Bare kind keywords on a sweep declaration carry no
				// semantic effect; consume and discard.
				p.advance()
			}

			if p.pendingErr != nil {
				return nil, p.pendingErr
			}
		}

		sweeps = append(sweeps, sw)
	}

	return sweeps, p.pendingErr
}

func toInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// expectPeek checks the current token's kind without consuming it.
func (p *Parser) expectPeek(k token.Kind) error {
	if p.pendingErr != nil {
		return p.pendingErr
	}

	if p.atEOF || p.cur.Kind != k {
		return p.syntaxErr("syntax error at '" + p.cur.Text + "'")
	}

	return nil
}

// rawTrace is one entry of the TRACE section before group partitioning.
type rawTrace struct {
	name          string
	typeName      string
	isGroupHeader bool
	count         int
}

// parseTraces consumes "traces := trace*" and partitions the result into
// ordinary/struct traces and groups exactly as spec.md §4.2 describes:
// when a trace's declared type parses as an integer N, it is a group
// header absorbing the next N traces as members.
func (p *Parser) parseTraces() ([]*Trace, map[string]*Group, error) {
	var raws []rawTrace

	for p.pendingErr == nil && !p.atEOF && p.cur.Kind == token.QUOTED_STRING {
		name := token.Unescape(p.cur.Sval)
		p.advance()

		if p.pendingErr != nil {
			return nil, nil, p.pendingErr
		}

		if p.cur.Kind == token.GROUP {
			p.advance()

			if err := p.expectPeek(token.INTEGER); err != nil {
				return nil, nil, err
			}

			count := int(p.cur.Ival)
			p.advance()

			if p.pendingErr != nil {
				return nil, nil, p.pendingErr
			}

			raws = append(raws, rawTrace{name: name, isGroupHeader: true, count: count})

			continue
		}

		if err := p.expectPeek(token.QUOTED_STRING); err != nil {
			return nil, nil, err
		}

		typeName := token.Unescape(p.cur.Sval)
		p.advance()

		if p.pendingErr != nil {
			return nil, nil, p.pendingErr
		}

		// Optional, ignored PROP(...) suffix, e.g. a units property on a
		// terminal current trace.
		if p.cur.Kind == token.PROP {
			p.advance()

			if err := p.expect(token.LPAREN); err != nil {
				return nil, nil, err
			}

			if _, err := p.parseNamedValues(); err != nil {
				return nil, nil, err
			}

			if err := p.expect(token.RPAREN); err != nil {
				return nil, nil, err
			}
		}

		raws = append(raws, rawTrace{name: name, typeName: typeName})
	}

	traces, groups := partitionTraces(raws)

	return traces, groups, p.pendingErr
}

func partitionTraces(raws []rawTrace) ([]*Trace, map[string]*Group) {
	var traces []*Trace

	groups := map[string]*Group{}

	var curGroup *Group

	remaining := 0

	for _, r := range raws {
		if r.isGroupHeader {
			g := &Group{Name: r.name, Members: map[string]string{}}
			groups[r.name] = g
			curGroup = g
			remaining = r.count
			traces = append(traces, &Trace{Name: r.name, Shape: ShapeGroup})

			if remaining == 0 {
				curGroup = nil
			}

			continue
		}

		if curGroup != nil && remaining > 0 {
			curGroup.Order = append(curGroup.Order, r.name)
			curGroup.Members[r.name] = r.typeName
			remaining--

			if remaining == 0 {
				curGroup = nil
			}

			continue
		}

		traces = append(traces, &Trace{Name: r.name, TypeName: r.typeName})
	}

	return traces, groups
}

// parseValues consumes "values := signal_value+".
func (p *Parser) parseValues() (map[string]*RawValues, []string, error) {
	out := map[string]*RawValues{}

	var order []string

	for p.pendingErr == nil && !p.atEOF && p.cur.Kind == token.QUOTED_STRING {
		name := token.Unescape(p.cur.Sval)
		p.advance()

		if p.pendingErr != nil {
			return nil, nil, p.pendingErr
		}

		var typeName string

		if p.cur.Kind == token.QUOTED_STRING {
			// "numbers" never begins with a QUOTED_STRING, so a second
			// string here is unambiguously a restated type name (only
			// DC operating-point entries carry one).
			typeName = token.Unescape(p.cur.Sval)
			p.advance()

			if p.pendingErr != nil {
				return nil, nil, p.pendingErr
			}
		}

		rv := out[name]
		if rv == nil {
			rv = &RawValues{TypeName: typeName}
			out[name] = rv
			order = append(order, name)
		}

		if typeName != "" && rv.TypeName == "" {
			rv.TypeName = typeName
		}

		if typeName != "" && p.cur.Kind == token.QUOTED_STRING {
			// "string type-name string": a typed string scalar.
			s := token.Unescape(p.cur.Sval)
			p.advance()

			if p.pendingErr != nil {
				return nil, nil, p.pendingErr
			}

			rv.IsString = true
			rv.Strings = append(rv.Strings, s)

			continue
		}

		sample, err := p.parseNumbers()
		if err != nil {
			return nil, nil, err
		}

		rv.Samples = append(rv.Samples, sample)
	}

	return out, order, p.pendingErr
}

// parseNumbers consumes "numbers := (simple_number | composite_number)+".
func (p *Parser) parseNumbers() ([]Elem, error) {
	var elems []Elem

	for p.pendingErr == nil && !p.atEOF &&
		(p.cur.Kind == token.INTEGER || p.cur.Kind == token.REAL ||
			p.cur.Kind == token.NAN || p.cur.Kind == token.LPAREN) {
		e, err := p.parseNumber()
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)
	}

	if len(elems) == 0 {
		return nil, p.syntaxErr("expected a number, found '" + p.cur.Text + "'")
	}

	return elems, p.pendingErr
}

func (p *Parser) parseNumber() (Elem, error) {
	if p.cur.Kind == token.LPAREN {
		p.advance()

		inner, err := p.parseNumbers()
		if err != nil {
			return Elem{}, err
		}

		if err := p.expect(token.RPAREN); err != nil {
			return Elem{}, err
		}

		if err := p.skipOptionalProp(); err != nil {
			return Elem{}, err
		}

		return Elem{IsTuple: true, Tuple: inner}, nil
	}

	var num Number

	switch p.cur.Kind {
	case token.INTEGER:
		num = Number{IsInt: true, I: p.cur.Ival}
	case token.REAL, token.NAN:
		num = Number{F: p.cur.Fval}
	default:
		return Elem{}, p.syntaxErr("expected a number, found '" + p.cur.Text + "'")
	}

	p.advance()

	if err := p.skipOptionalProp(); err != nil {
		return Elem{}, err
	}

	return Elem{Scalar: num}, nil
}

// skipOptionalProp discards a trailing PROP(...) block: these are
// redundant metadata on individual samples and carry no semantic effect.
func (p *Parser) skipOptionalProp() error {
	if p.pendingErr != nil || p.atEOF || p.cur.Kind != token.PROP {
		return p.pendingErr
	}

	p.advance()

	if err := p.expect(token.LPAREN); err != nil {
		return err
	}

	if _, err := p.parseNamedValues(); err != nil {
		return err
	}

	return p.expect(token.RPAREN)
}
