// Copyright 2021 Torben Schinke
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package token

import (
	"strings"
)

// ErrDetail carries the position, offending source line, and message for
// one diagnostic. The line text is captured at error-construction time so
// Explain never needs to re-open the source file.
type ErrDetail struct {
	Pos     Pos
	Line    string
	Message string
}

// PosError is the uniform positional error kind used by the lexer and
// parser: lex and parse errors surface as a *PosError before being wrapped
// by the root psf package. Integrity errors from the assembler carry no
// position and are not PosErrors.
type PosError struct {
	Detail ErrDetail
	Cause  error
	Hint   string
}

// NewPosError creates a PosError at pos with the given message. line is the
// full text of the source line containing pos, used to render the caret.
func NewPosError(pos Pos, line, msg string) *PosError {
	return &PosError{Detail: ErrDetail{Pos: pos, Line: line, Message: msg}}
}

func (p *PosError) SetCause(err error) *PosError {
	p.Cause = err
	return p
}

func (p *PosError) SetHint(hint string) *PosError {
	p.Hint = hint
	return p
}

func (p *PosError) Unwrap() error {
	return p.Cause
}

func (p *PosError) Error() string {
	if p.Cause == nil {
		return p.Detail.Message
	}

	return p.Detail.Message + ": " + p.Cause.Error()
}

// Explain renders the multi-line "<file>(<line>): <msg>\n    <line>\n    <caret>"
// form required by spec.md §4.1.
func (p *PosError) Explain() string {
	sb := &strings.Builder{}

	sb.WriteString(p.Detail.Pos.String())
	sb.WriteString(": ")
	sb.WriteString(p.Detail.Message)
	sb.WriteString("\n    ")
	sb.WriteString(p.Detail.Line)
	sb.WriteString("\n    ")

	col := p.Detail.Pos.Col
	if col < 1 {
		col = 1
	}

	sb.WriteString(strings.Repeat(" ", col-1))
	sb.WriteString("^")

	if p.Hint != "" {
		sb.WriteString("\nhint: ")
		sb.WriteString(p.Hint)
	}

	return sb.String()
}
