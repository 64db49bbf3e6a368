package analyze

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// ─── Correlation ──────────────────────────────────────────────────────────────

// CheckPaired reports whether x and y form a valid pairing: equal length
// and non-empty.
func CheckPaired(x, y []float64) error {
	if len(x) != len(y) {
		return &LengthMismatchError{X: len(x), Y: len(y)}
	}
	if len(x) == 0 {
		return ErrEmpty
	}
	return nil
}

// Pearson returns the product-moment correlation coefficient of x and y
// using the sum formula
//
//	(nΣxy − ΣxΣy) / sqrt((nΣx² − (Σx)²)(nΣy² − (Σy)²))
//
// It returns 0 for empty or mismatched inputs and when either series has
// no variance.
func Pearson(x, y []float64) float64 {
	if CheckPaired(x, y) != nil {
		return 0
	}
	n := float64(len(x))
	sumX := floats.Sum(x)
	sumY := floats.Sum(y)
	sumXY := floats.Dot(x, y)
	sumX2 := floats.Dot(x, x)
	sumY2 := floats.Dot(y, y)

	varX := n*sumX2 - sumX*sumX
	varY := n*sumY2 - sumY*sumY
	if varX <= 0 || varY <= 0 {
		return 0
	}
	r := (n*sumXY - sumX*sumY) / math.Sqrt(varX*varY)
	switch {
	case r > 1:
		return 1
	case r < -1:
		return -1
	}
	return r
}

// Covariance returns the population covariance mean((x-μx)(y-μy)).
// Empty or mismatched inputs → 0.
func Covariance(x, y []float64) float64 {
	if CheckPaired(x, y) != nil {
		return 0
	}
	mx, my := mean(x), mean(y)
	var s float64
	for i := range x {
		s += (x[i] - mx) * (y[i] - my)
	}
	return s / float64(len(x))
}

// CorrelationMatrix returns the pairwise Pearson matrix for the given
// columns, in the order supplied.
func CorrelationMatrix(cols [][]float64) [][]float64 {
	m := make([][]float64, len(cols))
	for i := range cols {
		m[i] = make([]float64, len(cols))
		for j := range cols {
			if i == j {
				if len(cols[i]) > 0 {
					m[i][j] = 1
				}
				continue
			}
			m[i][j] = Pearson(cols[i], cols[j])
		}
	}
	return m
}

// Pairing is a correlation report for two named columns.
type Pairing struct {
	X            string      `json:"x"`
	Y            string      `json:"y"`
	N            int         `json:"n"`
	Pearson      float64     `json:"pearson"`
	Covariance   float64     `json:"covariance"`
	Significance *TestResult `json:"significance,omitempty"`
}

// Pair correlates two named columns and tests the coefficient for
// significance. Malformed pairings are rejected.
func Pair(xName string, x []float64, yName string, y []float64, alpha float64) (Pairing, error) {
	if err := CheckPaired(x, y); err != nil {
		return Pairing{}, err
	}
	p := Pairing{
		X:          xName,
		Y:          yName,
		N:          len(x),
		Pearson:    Pearson(x, y),
		Covariance: Covariance(x, y),
	}
	sig := CorrelationSignificance(p.Pearson, p.N, alpha)
	p.Significance = &sig
	return p, nil
}

// Matrix is a labelled correlation matrix.
type Matrix struct {
	Columns []string    `json:"columns"`
	R       [][]float64 `json:"r"`
}

// NewMatrix correlates every pair of named columns. names and cols must
// have the same length.
func NewMatrix(names []string, cols [][]float64) (Matrix, error) {
	if len(names) != len(cols) {
		return Matrix{}, &LengthMismatchError{X: len(names), Y: len(cols)}
	}
	return Matrix{Columns: names, R: CorrelationMatrix(cols)}, nil
}
