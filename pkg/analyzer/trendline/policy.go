package trendline

import (
	"math"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/stats"
)

// Policy decides what an outlier is measured against. Every retained point
// gets one value; the z-score of each value is taken against the mean and
// sample standard deviation the policy reports.
type Policy interface {
	Kind() PolicyKind
	Reference(f *Fit) (values []float64, mean, std float64)
}

// ResidualPolicy measures each point's distance from the fitted line. Used
// when the line explains enough of the variance to be trusted.
type ResidualPolicy struct{}

// Kind implements Policy.
func (ResidualPolicy) Kind() PolicyKind { return PolicyResidual }

// Reference implements Policy.
func (ResidualPolicy) Reference(f *Fit) ([]float64, float64, float64) {
	res := stats.Residuals(f.Xs, f.Ys, f.Regression.Line)
	return res, stats.Mean(res), stats.StdDev(res)
}

// MeanPolicy measures each rating's distance from the average rating.
type MeanPolicy struct{}

// Kind implements Policy.
func (MeanPolicy) Kind() PolicyKind { return PolicyMean }

// Reference implements Policy.
func (MeanPolicy) Reference(f *Fit) ([]float64, float64, float64) {
	return f.Ys, f.Mean, f.StdDev
}

// SelectPolicy picks the residual policy when r2 exceeds threshold and the
// mean policy otherwise. An undefined r2 selects the mean policy.
func SelectPolicy(r2, threshold float64) Policy {
	if r2 > threshold {
		return ResidualPolicy{}
	}
	return MeanPolicy{}
}

// Scores returns |z| for every point of f under p. All scores are zero when
// the reference deviation is at or below floor: a flat reference series has
// no meaningful z-scores, and rounding noise must not be mistaken for one.
func Scores(f *Fit, p Policy, floor float64) []float64 {
	values, mean, std := p.Reference(f)
	scores := make([]float64, len(values))
	if !(std > floor) {
		return scores
	}
	for i, v := range values {
		scores[i] = math.Abs(stats.ZScore(v, mean, std))
	}
	return scores
}
