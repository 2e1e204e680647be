package psf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/psflib/psf/token"
)

// ErrorKind classifies a reader-level *Error by the taxonomy of spec.md
// §7. LexError and ParseError both surface through the parser as a
// *token.PosError and are distinguished only by the underlying error's
// origin, not by a separate Go type — exactly one uniform Error kind
// reaches the caller, as the spec requires.
type ErrorKind int

const (
	_ ErrorKind = iota
	LexError
	ParseError
	IoError
	EncodingError
	IntegrityError
)

func (k ErrorKind) String() string {
	switch k {
	case LexError:
		return "lex error"
	case ParseError:
		return "parse error"
	case IoError:
		return "io error"
	case EncodingError:
		return "encoding error"
	case IntegrityError:
		return "integrity error"
	default:
		return "error"
	}
}

// Error is the single uniform error kind spec.md §6/§7 requires every
// reader-level failure to surface as. It wraps the underlying
// *token.PosError (for Lex/Parse errors) or a plain cause (for Io errors;
// Encoding and Integrity errors carry only a message) without losing it,
// so callers can still errors.As into
// the wrapped type when they need positional detail.
type Error struct {
	Kind  ErrorKind
	Path  string
	Pos   *token.PosError
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.Pos != nil {
		return e.Path + ": " + e.Pos.Explain()
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Path, e.msg, e.cause)
	}

	return e.Path + ": " + e.msg
}

func (e *Error) Unwrap() error {
	if e.Pos != nil {
		return e.Pos
	}

	return e.cause
}

func wrapPosErr(path string, kind ErrorKind, err error) error {
	var pe *token.PosError
	if ok := asPosError(err, &pe); ok {
		return &Error{Kind: kind, Path: path, Pos: pe}
	}

	return &Error{Kind: kind, Path: path, msg: err.Error()}
}

func asPosError(err error, target **token.PosError) bool {
	for err != nil {
		if pe, ok := err.(*token.PosError); ok {
			*target = pe
			return true
		}

		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}

		err = u.Unwrap()
	}

	return false
}

func newIoError(path string, cause error) error {
	return &Error{Kind: IoError, Path: path, msg: "cannot read file", cause: cause}
}

func newEncodingError(path string) error {
	return &Error{
		Kind: EncodingError,
		Path: path,
		msg:  "file is not valid UTF-8 text; it may be a binary PSF file, which this reader cannot decode — convert it to ASCII PSF first",
	}
}

func newIntegrityError(path, msg string) error {
	return &Error{Kind: IntegrityError, Path: path, msg: msg}
}

// UnknownSignalError is returned by Dataset.Signal for a name with no
// matching signal. Available carries the names that were available in
// declaration order (Error() sorts them for display), matching the
// original tool's UnknownSignal(name, choices=…).
type UnknownSignalError struct {
	Name      string
	Available []string
}

func (e *UnknownSignalError) Error() string {
	names := append([]string(nil), e.Available...)
	sort.Strings(names)

	return fmt.Sprintf("unknown signal %q; available: %s", e.Name, strings.Join(names, ", "))
}
