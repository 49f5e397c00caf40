package trendline

import (
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/stats"
)

// Default refinement settings.
const (
	// DefaultR2Threshold is the R² above which outliers are judged by their
	// distance from the trendline rather than from the average rating.
	DefaultR2Threshold = 0.4

	// DefaultZThreshold flags points beyond the two-tailed 95% interval.
	DefaultZThreshold = 1.96

	// DefaultMinDeviation is the relative standard deviation below which a
	// reference series is treated as flat and no z-score is computed.
	DefaultMinDeviation = 1e-9
)

// PolicyKind names an outlier scoring policy.
type PolicyKind string

const (
	PolicyResidual PolicyKind = "residual"
	PolicyMean     PolicyKind = "mean"
)

// Fit is one pass of the refinement loop over the currently retained points.
type Fit struct {
	Points     []models.RatedPoint
	Xs         []float64
	Ys         []float64
	Regression stats.Regression
	Median     float64
	Mean       float64
	StdDev     float64 // sample standard deviation of Ys
	IQR        float64
}

// Removal records one outlier taken out of the retained set.
type Removal struct {
	X        int        `json:"x"`
	Y        float64    `json:"y"`
	Z        float64    `json:"z"`
	Policy   PolicyKind `json:"policy"`
	Retained int        `json:"retained"` // size of the set the z-score was computed over
}

// Refinement is the outcome of the refinement loop.
type Refinement struct {
	Final      Fit
	Policy     PolicyKind // policy chosen for the final fit
	Outliers   []int      // removed x values in removal order
	Removals   []Removal
	Iterations int // number of fits performed
}
