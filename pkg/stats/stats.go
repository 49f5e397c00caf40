// Package stats provides the descriptive statistics and least-squares
// regression used by the trendline analyzers.
//
// All functions are pure and never reorder their inputs. Quantiles follow a
// single convention throughout (see Quantile) so that medians, interquartile
// ranges and the derived quartiles agree with each other.
package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Extent returns the minimum and maximum of x.
// Returns NaN, NaN if x is empty.
func Extent(x []float64) (lo, hi float64) {
	if len(x) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(x), floats.Max(x)
}

// Sum returns the sum of x. The sum of an empty slice is 0.
func Sum(x []float64) float64 {
	return floats.Sum(x)
}

// Mean returns the arithmetic mean of x, or NaN if x is empty.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	return stat.Mean(x, nil)
}

// Median returns the middle value of x, averaging the two middle values when
// len(x) is even.
func Median(x []float64) float64 {
	return Quantile(x, 0.5)
}

// Variance returns the population variance of x (divides by n).
func Variance(x []float64) float64 {
	switch {
	case len(x) == 0:
		return math.NaN()
	case constant(x):
		return 0
	}
	return stat.PopVariance(x, nil)
}

// PopStdDev returns the population standard deviation of x.
func PopStdDev(x []float64) float64 {
	return math.Sqrt(Variance(x))
}

// StdDev returns the sample standard deviation of x (divides by n-1).
// A single value has a standard deviation of 0.
func StdDev(x []float64) float64 {
	switch {
	case len(x) == 0:
		return math.NaN()
	case len(x) == 1, constant(x):
		return 0
	}
	return stat.StdDev(x, nil)
}

// Quantile returns the p-th quantile of x for p in [0, 1].
//
// With idx = len(x)*p over the sorted values: a fractional idx selects
// sorted[ceil(idx)-1]; an integral idx averages sorted[idx-1] and sorted[idx]
// when len(x) is even and selects sorted[idx] otherwise. p = 0 and p = 1
// return the minimum and maximum.
func Quantile(x []float64, p float64) float64 {
	if len(x) == 0 || p < 0 || p > 1 || math.IsNaN(p) {
		return math.NaN()
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	return quantileSorted(sorted, p)
}

func quantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	switch p {
	case 0:
		return sorted[0]
	case 1:
		return sorted[n-1]
	}
	idx := float64(n) * p
	if idx != math.Trunc(idx) {
		return sorted[int(math.Ceil(idx))-1]
	}
	i := int(idx)
	if n%2 == 0 {
		return (sorted[i-1] + sorted[i]) / 2
	}
	return sorted[i]
}

// IQR returns the interquartile range Quantile(0.75) - Quantile(0.25).
func IQR(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	return quantileSorted(sorted, 0.75) - quantileSorted(sorted, 0.25)
}

// Quartiles returns the lower and upper quartiles as an offset of iqr/2 on
// either side of the median. This is the quartile convention used for fences;
// it does not recompute Quantile(0.25) and Quantile(0.75).
func Quartiles(median, iqr float64) (lower, upper float64) {
	half := iqr / 2
	return median - half, median + half
}

// Fences returns the Tukey fences 1.5*iqr beyond the quartiles, rounded to
// one decimal place.
func Fences(median, iqr float64) (lower, upper float64) {
	lq, uq := Quartiles(median, iqr)
	return roundTo(lq-1.5*iqr, 1), roundTo(uq+1.5*iqr, 1)
}

// ZScore returns (value - mean) / std, or 0 when std is 0.
func ZScore(value, mean, std float64) float64 {
	if std == 0 {
		return 0
	}
	return stat.StdScore(value, mean, std)
}

// constant reports whether every value in x is identical.
func constant(x []float64) bool {
	return floats.Min(x) == floats.Max(x)
}

func roundTo(v float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(v*pow) / pow
}
