package surrogate

import (
	"fmt"
	"math"

	"github.com/credlens/credlens/internal/model"
)

// InsufficientSamplesError is raised when too few scoring calls survived to
// fit a trustworthy surrogate. Reported, never retried here: retry policy
// belongs to the scoring collaborator.
type InsufficientSamplesError struct {
	Attempted int
	Scored    int
	Min       int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("insufficient scored samples: %d of %d attempted (minimum %d)",
		e.Scored, e.Attempted, e.Min)
}

// Fitter performs weighted least-squares regression of collaborator scores
// on encoded profile vectors
type Fitter struct {
	minSamples int
}

// NewFitter creates a fitter with the given minimum sample threshold
func NewFitter(minSamples int) *Fitter {
	if minSamples <= 0 {
		minSamples = 10
	}
	return &Fitter{minSamples: minSamples}
}

const pivotEps = 1e-9

// Fit regresses score on the perturbed-profile feature vector using each
// sample's similarity weight as the regression weight. Degenerate or
// collinear columns are dropped before refitting; the damage shows up as a
// lower fit quality, not an error. The result does not depend on the order
// of the samples.
func (f *Fitter) Fit(samples []ScoredSample) (*model.SurrogateModel, error) {
	return f.FitAttempted(samples, len(samples))
}

// FitAttempted is Fit with an explicit attempted-call count for diagnostics
// (the caller may have dropped failed scoring calls already)
func (f *Fitter) FitAttempted(samples []ScoredSample, attempted int) (*model.SurrogateModel, error) {
	if len(samples) < f.minSamples {
		return nil, &InsufficientSamplesError{Attempted: attempted, Scored: len(samples), Min: f.minSamples}
	}

	enc := NewEncoder(samples)
	names := enc.FeatureNames()

	n := len(samples)
	rows := make([][]float64, n)
	y := make([]float64, n)
	w := make([]float64, n)
	for i, s := range samples {
		rows[i] = enc.Vector(s.Profile)
		y[i] = s.Score
		w[i] = s.Weight
	}

	keep := nonDegenerateColumns(rows, w)

	var coefs []float64
	var intercept float64
	for {
		var ok bool
		var drop int
		coefs, intercept, drop, ok = solveWLS(rows, y, w, keep)
		if ok {
			break
		}
		if len(keep) == 0 {
			break
		}
		// Singular pivot: drop the offending column and refit
		keep = append(keep[:drop], keep[drop+1:]...)
	}

	coefficients := make(map[string]float64, len(keep))
	for i, col := range keep {
		coefficients[names[col]] = coefs[i]
	}

	r2 := weightedR2(rows, y, w, keep, coefs, intercept)

	return &model.SurrogateModel{
		Coefficients: coefficients,
		Intercept:    intercept,
		FitQuality:   r2,
		SampleCount:  n,
	}, nil
}

// nonDegenerateColumns returns the indices of columns with nonzero weighted
// variance. Constant one-hot columns (a category every sample shares) carry
// no signal and make the normal equations singular.
func nonDegenerateColumns(rows [][]float64, w []float64) []int {
	if len(rows) == 0 {
		return nil
	}
	p := len(rows[0])
	var keep []int
	for j := 0; j < p; j++ {
		mean, sw := 0.0, 0.0
		for i, row := range rows {
			mean += w[i] * row[j]
			sw += w[i]
		}
		if sw == 0 {
			continue
		}
		mean /= sw
		variance := 0.0
		for i, row := range rows {
			d := row[j] - mean
			variance += w[i] * d * d
		}
		if variance/sw > 1e-12 {
			keep = append(keep, j)
		}
	}
	return keep
}

// solveWLS solves the weighted normal equations for an intercept plus the
// kept columns, with the intercept leading the design matrix. Elimination
// proceeds in column order, so a singular pivot surfaces at the first
// column that is linearly dependent on the columns before it — for a full
// one-hot group that is the group's last category, whose indicator sums
// with its siblings to the intercept. That kept-column index is reported
// for dropping; the surviving siblings are then measured against the
// dropped category as baseline. Returns (coefficients, intercept,
// dropIndex, ok).
func solveWLS(rows [][]float64, y, w []float64, keep []int) ([]float64, float64, int, bool) {
	p := len(keep) + 1 // intercept plus kept columns

	// A = XᵀWX, b = XᵀWy over the design matrix [1 | kept columns]
	a := make([][]float64, p)
	for i := range a {
		a[i] = make([]float64, p+1)
	}
	at := func(row []float64, j int) float64 {
		if j == 0 {
			return 1
		}
		return row[keep[j-1]]
	}
	for i, row := range rows {
		wi := w[i]
		for r := 0; r < p; r++ {
			xr := at(row, r)
			for c := r; c < p; c++ {
				a[r][c] += wi * xr * at(row, c)
			}
			a[r][p] += wi * xr * y[i]
		}
	}
	for r := 1; r < p; r++ {
		for c := 0; c < r; c++ {
			a[r][c] = a[c][r]
		}
	}

	// Gaussian elimination with partial pivoting
	for col := 0; col < p; col++ {
		pivot := col
		for r := col + 1; r < p; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < pivotEps {
			if col == 0 {
				// The intercept pivot is the weight sum; it only vanishes
				// when the weights are degenerate. Drain the columns so the
				// caller's loop terminates.
				return nil, 0, len(keep) - 1, false
			}
			return nil, 0, col - 1, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		for r := col + 1; r < p; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c <= p; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}

	sol := make([]float64, p)
	for r := p - 1; r >= 0; r-- {
		sum := a[r][p]
		for c := r + 1; c < p; c++ {
			sum -= a[r][c] * sol[c]
		}
		sol[r] = sum / a[r][r]
	}
	return sol[1:], sol[0], -1, true
}

// weightedR2 computes the weighted coefficient of determination against the
// same sample set the model was fit on, clamped to [0,1]
func weightedR2(rows [][]float64, y, w []float64, keep []int, coefs []float64, intercept float64) float64 {
	sw, meanY := 0.0, 0.0
	for i := range y {
		sw += w[i]
		meanY += w[i] * y[i]
	}
	if sw == 0 {
		return 0
	}
	meanY /= sw

	ssRes, ssTot := 0.0, 0.0
	for i, row := range rows {
		pred := intercept
		for j, col := range keep {
			pred += coefs[j] * row[col]
		}
		dr := y[i] - pred
		dt := y[i] - meanY
		ssRes += w[i] * dr * dr
		ssTot += w[i] * dt * dt
	}
	if ssTot == 0 {
		// Constant labels are fit exactly by the intercept
		return 1
	}
	r2 := 1 - ssRes/ssTot
	if r2 < 0 {
		return 0
	}
	if r2 > 1 {
		return 1
	}
	return r2
}
