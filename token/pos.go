// Package token implements the lexer for ASCII PSF (Parameter Storage
// Format) files: position tracking, token classification, and the
// caret-pointer error format shared by every stage of the reader.
package token

import "strconv"

// A Pos describes a resolved position within a file.
type Pos struct {
	// File contains the path as given to NewLexer.
	File string
	// Line denotes the one-based line number in the denoted File.
	Line int
	// Col denotes the one-based column number in the denoted Line.
	Col int
}

// String renders the "file(line)" header used in PSF error messages.
func (p Pos) String() string {
	return p.File + "(" + strconv.Itoa(p.Line) + ")"
}
