package stats

import (
	"math"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"gonum.org/v1/gonum/stat"
)

// Regression holds an ordinary least squares fit and its goodness of fit.
type Regression struct {
	Line   models.Line
	R2     float64 // coefficient of determination
	StdErr float64 // standard error of the regression; NaN when N == 2
	N      int
}

// Regress fits a line to (xs[i], ys[i]) and evaluates it.
// xs and ys must have equal length of at least 2 with at least two distinct x.
func Regress(xs, ys []float64) Regression {
	line := Fit(xs, ys)
	return Regression{
		Line:   line,
		R2:     RSquared(xs, ys, line),
		StdErr: StdErr(xs, ys, line),
		N:      len(xs),
	}
}

// Fit returns the least squares line through the points. The slope equals
// (nΣxy - ΣxΣy) / (nΣx² - (Σx)²) and the intercept (Σy - mΣx) / n.
func Fit(xs, ys []float64) models.Line {
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return models.Line{M: slope, B: intercept}
}

// Residuals returns y - f(x) for every point.
func Residuals(xs, ys []float64, line models.Line) []float64 {
	res := make([]float64, len(xs))
	for i, x := range xs {
		res[i] = ys[i] - line.At(x)
	}
	return res
}

// SumSquaredResiduals returns Σ(y - f(x))².
func SumSquaredResiduals(xs, ys []float64, line models.Line) float64 {
	var ss float64
	for i, x := range xs {
		d := ys[i] - line.At(x)
		ss += d * d
	}
	return ss
}

// RSquared returns 1 - SS_res/SS_tot for line against the points.
// A flat series has no variance to explain: it scores 1 when the line passes
// through every point and 0 otherwise.
func RSquared(xs, ys []float64, line models.Line) float64 {
	if len(ys) == 0 {
		return math.NaN()
	}
	if constant(ys) {
		if SumSquaredResiduals(xs, ys, line) == 0 {
			return 1
		}
		return 0
	}
	return stat.RSquared(xs, ys, nil, line.B, line.M)
}

// StdErr returns the standard error of the regression sqrt(SS_res / (n-2)).
// Two points always fit exactly and leave no degrees of freedom, so the
// result is NaN for n <= 2.
func StdErr(xs, ys []float64, line models.Line) float64 {
	n := len(xs)
	if n <= 2 {
		return math.NaN()
	}
	return math.Sqrt(SumSquaredResiduals(xs, ys, line) / float64(n-2))
}

// Correlation returns the sample Pearson correlation of x and y.
// It is NaN when either series is constant.
func Correlation(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Correlation(x, y, nil)
}

// Covariance returns the sample covariance of x and y (divides by n-1).
func Covariance(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	return stat.Covariance(x, y, nil)
}
