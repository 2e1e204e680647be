// Package units beautifies PSF unit strings for display. It has no
// dependency on the reader: it is a pure function of its input string,
// exactly matching the original tool's units_to_unicode/units_to_latex
// helpers on psf_utils.PSF.
package units

import "regexp"

type substitution struct {
	pattern *regexp.Regexp
	replace string
}

// table is applied in order; later entries never need to see earlier
// replacements since none of the patterns can match generated glyphs.
var table = []substitution{
	{regexp.MustCompile(`sqrt\(([^)]*)\)`), `√$1`},
	{regexp.MustCompile(`\^2`), `²`},
	{regexp.MustCompile(`\bOhm\b`), `Ω`},
	{regexp.MustCompile(`\bR\b`), `Ω`},
	{regexp.MustCompile(`\bI\b`), `A`},
	{regexp.MustCompile(`\bC\b`), `F`},
	{regexp.MustCompile(`\bDeg\b`), `°`},
}

// ToUnicode applies the unit beautification table of spec.md §4.4. An
// empty input yields the empty string.
func ToUnicode(raw string) string {
	if raw == "" {
		return ""
	}

	out := raw
	for _, s := range table {
		out = s.pattern.ReplaceAllString(out, s.replace)
	}

	return out
}

// ToLatex is a documented no-op per the reader's non-goals: LaTeX unit
// rendering is not implemented.
func ToLatex(raw string) string {
	return raw
}
