package psf

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writePSF(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "result.psf")

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	return path
}

func TestLoadSweptTransient(t *testing.T) {
	path := writePSF(t, `HEADER
"PSFversion" "1.00"
"simulator" "spectre"
TYPE
"float" FLOAT
SWEEP
"time" "float" PROP(
"units" "s"
)
TRACE
"v1" "float"
"v2" "float"
VALUE
"time" 0.0
"v1" 1.0
"v2" 2.0
"time" 1.0
"v1" 1.1
"v2" 2.1
"time" 2.0
"v1" 1.2
"v2" 2.2
END
`)

	ds, err := Load(path, WithCache(false))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	sw, ok := ds.Sweep(0)
	if !ok || sw.Name != "time" {
		t.Fatalf("Sweep(0) = %+v, %v", sw, ok)
	}

	if len(sw.Abscissa) != 3 || sw.Abscissa[2] != 2.0 {
		t.Fatalf("Abscissa = %v", sw.Abscissa)
	}

	sig, err := ds.Signal("v1")
	if err != nil {
		t.Fatalf("Signal(v1): %v", err)
	}

	rs, ok := sig.Ordinate.(RealSeries)
	if !ok {
		t.Fatalf("v1 ordinate type = %T", sig.Ordinate)
	}

	if len(rs.Values) != 3 || rs.Values[1] != 1.1 {
		t.Fatalf("v1 values = %v", rs.Values)
	}

	names := ds.Signals()
	if len(names) != 2 {
		t.Fatalf("Signals() = %v", names)
	}
}

func TestLoadDCOperatingPoint(t *testing.T) {
	path := writePSF(t, `HEADER
"PSFversion" "1.00"
TYPE
"float" FLOAT
"string" STRING
VALUE
"temp" "float" 27
"vdd" "float" 1.8
"corner" "string" "tt"
END
`)

	ds, err := Load(path, WithCache(false))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	names := ds.Signals()
	if len(names) != 3 || names[0] != "temp" || names[1] != "vdd" || names[2] != "corner" {
		t.Fatalf("Signals() = %v, want declaration order [temp vdd corner]", names)
	}

	vdd, err := ds.Signal("vdd")
	if err != nil {
		t.Fatalf("Signal(vdd): %v", err)
	}

	sf, ok := vdd.Ordinate.(ScalarFloat)
	if !ok || sf.Value != 1.8 {
		t.Fatalf("vdd ordinate = %+v", vdd.Ordinate)
	}

	corner, err := ds.Signal("corner")
	if err != nil {
		t.Fatalf("Signal(corner): %v", err)
	}

	ss, ok := corner.Ordinate.(ScalarString)
	if !ok || ss.Value != "tt" {
		t.Fatalf("corner ordinate = %+v", corner.Ordinate)
	}
}

func TestLoadComplexAC(t *testing.T) {
	path := writePSF(t, `HEADER
"PSFversion" "1.00"
TYPE
"complex double" COMPLEX DOUBLE
SWEEP
"freq" "float" PROP(
"grid" 3
"units" "Hz"
)
TRACE
"vout" "complex double"
VALUE
"freq" 100.0
"vout" (1.0 2.0)
"freq" 1000.0
"vout" (3.0 4.0)
END
`)

	ds, err := Load(path, WithCache(false))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	sw, _ := ds.Sweep(0)
	if !LogX(sw) {
		t.Fatal("expected a log-scaled sweep")
	}

	sig, err := ds.Signal("vout")
	if err != nil {
		t.Fatalf("Signal(vout): %v", err)
	}

	cs, ok := sig.Ordinate.(ComplexSeries)
	if !ok {
		t.Fatalf("vout ordinate type = %T", sig.Ordinate)
	}

	if len(cs.Values) != 2 || cs.Values[0] != complex(1.0, 2.0) || cs.Values[1] != complex(3.0, 4.0) {
		t.Fatalf("vout values = %v", cs.Values)
	}
}

func TestLoadGroupTrace(t *testing.T) {
	path := writePSF(t, `HEADER
"PSFversion" "1.00"
TYPE
"float" FLOAT
SWEEP
"freq" "float"
TRACE
"noise" GROUP 2
"id" "float"
"ig" "float"
VALUE
"freq" 100.0
"noise" (1.0 2.0)
"freq" 200.0
"noise" (1.5 2.5)
END
`)

	ds, err := Load(path, WithCache(false))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	id, err := ds.Signal("id")
	if err != nil {
		t.Fatalf("Signal(id): %v", err)
	}

	rs, ok := id.Ordinate.(RealSeries)
	if !ok || len(rs.Values) != 2 || rs.Values[1] != 1.5 {
		t.Fatalf("id ordinate = %+v", id.Ordinate)
	}
}

func TestLoadStructTrace(t *testing.T) {
	path := writePSF(t, `HEADER
"PSFversion" "1.00"
TYPE
"pair_t" STRUCT(
"re" FLOAT
"im" FLOAT
)
SWEEP
"freq" "float"
TRACE
"vout" "pair_t"
VALUE
"freq" 100.0
"vout" (1.0 2.0)
END
`)

	ds, err := Load(path, WithCache(false), WithSeparator("."))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	re, err := ds.Signal("vout.re")
	if err != nil {
		t.Fatalf("Signal(vout.re): %v", err)
	}

	sf, ok := re.Ordinate.(RealSeries)
	if !ok || len(sf.Values) != 1 || sf.Values[0] != 1.0 {
		t.Fatalf("vout.re ordinate = %+v", re.Ordinate)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writePSF(t, `HEADER
"PSFversion" "1.00"
"simulator" "spectre"
END
`)

	ds, err := Load(path, WithCache(false))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(ds.Signals()) != 0 {
		t.Fatalf("Signals() = %v, want none", ds.Signals())
	}

	if ds.Header["simulator"] != "spectre" {
		t.Fatalf("Header[simulator] = %v", ds.Header["simulator"])
	}
}

func TestLoadUnknownSignal(t *testing.T) {
	path := writePSF(t, `HEADER
"PSFversion" "1.00"
TYPE
"float" FLOAT
VALUE
"vdd" "float" 1.8
END
`)

	ds, err := Load(path, WithCache(false))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err = ds.Signal("nonexistent")
	if err == nil {
		t.Fatal("expected an UnknownSignalError")
	}

	var use *UnknownSignalError
	if !errorsAsUnknownSignal(err, &use) {
		t.Fatalf("error is not *UnknownSignalError: %v", err)
	}

	if len(use.Available) != 1 || use.Available[0] != "vdd" {
		t.Fatalf("Available = %v", use.Available)
	}
}

func errorsAsUnknownSignal(err error, target **UnknownSignalError) bool {
	if use, ok := err.(*UnknownSignalError); ok {
		*target = use
		return true
	}

	return false
}

func TestLoadSyntaxError(t *testing.T) {
	path := writePSF(t, `HEADER
"PSFversion" "1.00"
TYPE
"float" FLOAT
VALUE
"vdd" "float" not_a_number
`)

	_, err := Load(path, WithCache(false))
	if err == nil {
		t.Fatal("expected a parse error")
	}

	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}

	if perr.Kind != ParseError && perr.Kind != LexError {
		t.Fatalf("Kind = %v, want ParseError or LexError", perr.Kind)
	}
}

func TestLoadRejectsNonUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.psf")

	if err := os.WriteFile(path, []byte{0xff, 0xfe, 0x00, 0x01}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Load(path, WithCache(false))
	if err == nil {
		t.Fatal("expected an encoding error")
	}

	perr, ok := err.(*Error)
	if !ok || perr.Kind != EncodingError {
		t.Fatalf("error = %+v, want EncodingError", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.psf"), WithCache(false))
	if err == nil {
		t.Fatal("expected an io error")
	}

	perr, ok := err.(*Error)
	if !ok || perr.Kind != IoError {
		t.Fatalf("error = %+v, want IoError", err)
	}
}

func TestLoadCacheRoundTrip(t *testing.T) {
	path := writePSF(t, `HEADER
"PSFversion" "1.00"
TYPE
"float" FLOAT
SWEEP
"time" "float"
TRACE
"v1" "float"
VALUE
"time" 0.0
"v1" 1.0
"time" 1.0
"v1" 1.1
END
`)

	time.Sleep(5 * time.Millisecond)

	ds1, err := Load(path)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	cachePath := path + ".cache"
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("expected a cache file to be written: %v", err)
	}

	ds2, err := Load(path)
	if err != nil {
		t.Fatalf("second (cached) Load: %v", err)
	}

	sig1, _ := ds1.Signal("v1")
	sig2, _ := ds2.Signal("v1")

	rs1 := sig1.Ordinate.(RealSeries)
	rs2 := sig2.Ordinate.(RealSeries)

	if !floatSliceEqual(rs1.Values, rs2.Values) {
		t.Fatalf("cached values = %v, want %v", rs2.Values, rs1.Values)
	}
}

func floatSliceEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			return false
		}
	}

	return true
}

func TestUnitsToUnicode(t *testing.T) {
	if got := UnitsToUnicode("Ohm"); got != "Ω" {
		t.Errorf("UnitsToUnicode(Ohm) = %q", got)
	}
}
