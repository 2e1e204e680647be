package main

import (
	"testing"

	"github.com/psflib/psf"
)

func TestIsDifferential(t *testing.T) {
	cases := []struct {
		expr    string
		wantA   string
		wantB   string
		wantOk  bool
	}{
		{"vout-vin", "vout", "vin", true},
		{"a-b-c", "", "", false},
		{"-vin", "", "", false},
		{"vout-", "", "", false},
		{"v*-vin", "", "", false},
		{"vout", "", "", false},
	}

	for _, c := range cases {
		a, b, ok := isDifferential(c.expr)
		if ok != c.wantOk {
			t.Errorf("isDifferential(%q) ok = %v, want %v", c.expr, ok, c.wantOk)
			continue
		}

		if ok && (a != c.wantA || b != c.wantB) {
			t.Errorf("isDifferential(%q) = (%q, %q), want (%q, %q)", c.expr, a, b, c.wantA, c.wantB)
		}
	}
}

func TestMagnitude(t *testing.T) {
	if got := magnitude(complex(3, 4)); got != 5 {
		t.Errorf("magnitude(3+4i) = %v, want 5", got)
	}
}

func TestRealValuesOf(t *testing.T) {
	if got := realValuesOf(psf.RealSeries{Values: []float64{1, 2}}); len(got) != 2 {
		t.Errorf("realValuesOf(RealSeries) = %v", got)
	}

	got := realValuesOf(psf.ComplexSeries{Values: []complex128{3 + 4i}})
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("realValuesOf(ComplexSeries) = %v, want [5]", got)
	}

	got = realValuesOf(psf.ScalarFloat{Value: 9})
	if len(got) != 1 || got[0] != 9 {
		t.Errorf("realValuesOf(ScalarFloat) = %v, want [9]", got)
	}
}

func TestDifferenceOf(t *testing.T) {
	a := &psf.Signal{Name: "a", Ordinate: psf.RealSeries{Values: []float64{1, 2, 3}}}
	b := &psf.Signal{Name: "b", Ordinate: psf.RealSeries{Values: []float64{0.5, 0.5, 0.5}}}

	diff, err := differenceOf(a, b)
	if err != nil {
		t.Fatalf("differenceOf: %v", err)
	}

	want := []float64{0.5, 1.5, 2.5}
	for i := range want {
		if diff[i] != want[i] {
			t.Errorf("diff[%d] = %v, want %v", i, diff[i], want[i])
		}
	}
}

func TestDifferenceOfLengthMismatch(t *testing.T) {
	a := &psf.Signal{Name: "a", Ordinate: psf.RealSeries{Values: []float64{1, 2, 3}}}
	b := &psf.Signal{Name: "b", Ordinate: psf.RealSeries{Values: []float64{0.5}}}

	if _, err := differenceOf(a, b); err == nil {
		t.Fatal("expected a length-mismatch error")
	}
}
