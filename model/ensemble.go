package model

import (
	"github.com/pkg/errors"
)

// An Ensemble is the state of every chain in a run: one scalar per
// (dimension, lane) pair in a single flat array. Storage is dimension-major,
// so the value for dimension n in lane t lives at Data[Lanes*n+t] and one
// dimension across all lanes is contiguous. Downstream consumers index the
// array with the same rule.
type Ensemble struct {
	Dims  int       // Dims is the length of each chain's state vector
	Lanes int       // Lanes is the number of independent chains
	Data  []float64 // Data holds Dims*Lanes values, dimension-major
}

// NewEnsemble creates an ensemble with every slot set to the same initial
// value. Anything fancier (over-dispersed or per-lane starting points) is the
// caller's job: build the ensemble and scatter with SetLane.
func NewEnsemble(initial float64, dims int, lanes int) (*Ensemble, error) {
	if dims < 1 {
		return nil, errors.Errorf("Dimension count must be >= 1 (found %d)", dims)
	}
	if lanes < 1 {
		return nil, errors.Errorf("Lane count must be >= 1 (found %d)", lanes)
	}

	e := &Ensemble{
		Dims:  dims,
		Lanes: lanes,
		Data:  make([]float64, dims*lanes),
	}
	e.Fill(initial)

	return e, nil
}

// At returns the value for dimension n in lane t.
func (e *Ensemble) At(n int, t int) float64 {
	return e.Data[e.Lanes*n+t]
}

// Set stores v as the value for dimension n in lane t.
func (e *Ensemble) Set(n int, t int, v float64) {
	e.Data[e.Lanes*n+t] = v
}

// Dim returns the contiguous slice holding dimension n across all lanes.
// The slice aliases Data: writes show through.
func (e *Ensemble) Dim(n int) []float64 {
	return e.Data[e.Lanes*n : e.Lanes*(n+1)]
}

// Lane gathers lane t's state vector into dst, which must have length Dims.
func (e *Ensemble) Lane(t int, dst []float64) {
	for n := 0; n < e.Dims; n++ {
		dst[n] = e.Data[e.Lanes*n+t]
	}
}

// SetLane scatters a state vector of length Dims back into lane t's slots.
func (e *Ensemble) SetLane(t int, src []float64) {
	for n := 0; n < e.Dims; n++ {
		e.Data[e.Lanes*n+t] = src[n]
	}
}

// Fill sets every slot to v.
func (e *Ensemble) Fill(v float64) {
	for i := range e.Data {
		e.Data[i] = v
	}
}

// DimName gives a human name to a dimension index for reports and trace
// output. Just a letter scheme (similar to Excel columns).
func DimName(n int) string {
	return letter26(n)
}

func divmod(numerator, denominator int) (quotient, remainder int) {
	quotient = numerator / denominator // integer division, decimals are truncated
	remainder = numerator % denominator
	return
}

// letter26 is sort of base-26 with only letters, but A=0 *and* the start digit (so 0=A, 1=B, and ZZ+1=AAA)
func letter26(n int) string {
	// Easy for n==0
	if n == 0 {
		return "A"
	}
	// Need to bump up one
	n++

	const LETTERS = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits := make([]byte, 0, 8)
	var remain int
	for n > 0 {
		n, remain = divmod(n-1, 26)
		digits = append(digits, LETTERS[remain])
	}

	//reverse
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	return string(digits)
}
