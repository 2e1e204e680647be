package psf

// Ordinate is a signal's dependent value series: spec.md §9 models it as a
// tagged variant rather than a generic container, so assemblers and
// consumers dispatch on a closed set of concrete Go types instead of type
// assertions against `interface{}`.
type Ordinate interface {
	isOrdinate()
}

// RealSeries is a dense, sweep-aligned sequence of real samples.
type RealSeries struct {
	Values []float64
}

// ComplexSeries is a dense, sweep-aligned sequence of complex samples,
// folded from adjacent (re, im) pairs during assembly.
type ComplexSeries struct {
	Values []complex128
}

// ScalarFloat is a single real-valued DC operating-point quantity.
type ScalarFloat struct {
	Value float64
	Units string
}

// ScalarComplex is a single complex-valued DC operating-point quantity.
type ScalarComplex struct {
	Value complex128
}

// ScalarString is a single string-valued DC operating-point quantity.
type ScalarString struct {
	Value string
}

func (RealSeries) isOrdinate()    {}
func (ComplexSeries) isOrdinate() {}
func (ScalarFloat) isOrdinate()   {}
func (ScalarComplex) isOrdinate() {}
func (ScalarString) isOrdinate()  {}

// Len reports the number of samples held by series ordinates, and 1 for
// scalar ordinates.
func Len(o Ordinate) int {
	switch v := o.(type) {
	case RealSeries:
		return len(v.Values)
	case ComplexSeries:
		return len(v.Values)
	default:
		return 1
	}
}
