package units

import "testing"

func TestToUnicode(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"V", "V"},
		{"sqrt(Hz)", "√Hz"},
		{"V^2", "V²"},
		{"Ohm", "Ω"},
		{"R", "Ω"},
		{"I", "A"},
		{"C", "F"},
		{"Deg", "°"},
		{"V/sqrt(Hz)", "V/√Hz"},
	}

	for _, c := range cases {
		if got := ToUnicode(c.in); got != c.want {
			t.Errorf("ToUnicode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestToUnicodeWordBoundaries(t *testing.T) {
	// "Resistance" must not have its embedded "R" swapped for Ohm; \b
	// boundaries in the table guard against this.
	if got := ToUnicode("Resistance"); got != "Resistance" {
		t.Errorf("ToUnicode(%q) = %q, want unchanged", "Resistance", got)
	}
}

func TestToLatexIsIdentity(t *testing.T) {
	for _, s := range []string{"", "V", "sqrt(Hz)", "Ohm"} {
		if got := ToLatex(s); got != s {
			t.Errorf("ToLatex(%q) = %q, want unchanged", s, got)
		}
	}
}
