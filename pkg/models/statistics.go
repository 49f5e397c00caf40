package models

import (
	"encoding/json"
	"math"
)

// ShowSeason is the season number used for whole-show statistics.
const ShowSeason = 0

// Trend describes the direction of a fitted trendline.
type Trend string

const (
	TrendPositive Trend = "positive"
	TrendNegative Trend = "negative"
	TrendStable   Trend = "stable"
)

// Line is a fitted regression line y = M*x + B.
type Line struct {
	M float64 `json:"m" toon:"m"`
	B float64 `json:"b" toon:"b"`
}

// At evaluates the line at x.
func (l Line) At(x float64) float64 {
	return l.M*x + l.B
}

// Point is the fitted line evaluated at an episode index.
type Point struct {
	X int     `json:"x" toon:"x"`
	Y float64 `json:"y" toon:"y"`
}

// SeasonStatistics is the statistics record for one season, or for the whole
// show when SeasonNumber is ShowSeason.
//
// RangeX, RangeY, SumY, VarianceY, Correlation and Covariance are computed
// once from the rated points before any outlier is removed. Every other
// field describes the retained set after the refinement loop terminates.
type SeasonStatistics struct {
	SeasonNumber int        `json:"season_number"`
	Start        Point      `json:"start"`
	End          Point      `json:"end"`
	N            int        `json:"n"`
	Line         Line       `json:"line_mb"`
	RangeX       [2]int     `json:"range_x"`
	RangeY       [2]float64 `json:"range_y"`
	MedianY      float64    `json:"median_y"`
	SumY         float64    `json:"sum_y"`
	MeanY        float64    `json:"mean_y"`
	StdY         float64    `json:"std_y"`
	IQR          float64    `json:"iqr"`
	VarianceY    float64    `json:"variance_y"`
	R2           float64    `json:"r2"`
	StdErr       float64    `json:"std_err"` // NaN when N == 2
	Correlation  float64    `json:"s_corr"`
	Covariance   float64    `json:"s_cov"`
	Outliers     []int      `json:"outliers"`

	Quartiles  [2]float64 `json:"quartiles"`
	Fences     [2]float64 `json:"fences"`
	Iterations int        `json:"iterations"`
}

// Trend returns the direction of the final trendline.
func (s *SeasonStatistics) Trend() Trend {
	switch {
	case s.Line.M > 0:
		return TrendPositive
	case s.Line.M < 0:
		return TrendNegative
	default:
		return TrendStable
	}
}

// Fitted evaluates the final trendline at episode index x.
func (s *SeasonStatistics) Fitted(x int) float64 {
	return s.Line.At(float64(x))
}

// IsShow reports whether the record covers the whole show.
func (s *SeasonStatistics) IsShow() bool {
	return s.SeasonNumber == ShowSeason
}

// ShowStatistics holds the whole-show record and one record per season that
// had enough rated episodes.
type ShowStatistics struct {
	Title    string             `json:"title,omitempty"`
	Episodes int                `json:"episodes"`
	Rated    int                `json:"rated"`
	Show     *SeasonStatistics  `json:"show"`
	Seasons  []SeasonStatistics `json:"seasons"`
}

// Season returns the record for season number n, if present.
func (s *ShowStatistics) Season(n int) (*SeasonStatistics, bool) {
	for i := range s.Seasons {
		if s.Seasons[i].SeasonNumber == n {
			return &s.Seasons[i], true
		}
	}
	return nil, false
}

// Float is a float64 whose JSON form is null when the value is not finite.
type Float float64

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler. null decodes to NaN.
func (f *Float) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

type lineJSON struct {
	M Float `json:"m"`
	B Float `json:"b"`
}

type pointJSON struct {
	X int   `json:"x"`
	Y Float `json:"y"`
}

type seasonStatisticsJSON struct {
	SeasonNumber int       `json:"season_number"`
	Start        pointJSON `json:"start"`
	End          pointJSON `json:"end"`
	N            int       `json:"n"`
	Line         lineJSON  `json:"line_mb"`
	RangeX       [2]int    `json:"range_x"`
	RangeY       [2]Float  `json:"range_y"`
	MedianY      Float     `json:"median_y"`
	SumY         Float     `json:"sum_y"`
	MeanY        Float     `json:"mean_y"`
	StdY         Float     `json:"std_y"`
	IQR          Float     `json:"iqr"`
	VarianceY    Float     `json:"variance_y"`
	R2           Float     `json:"r2"`
	StdErr       Float     `json:"std_err"`
	Correlation  Float     `json:"s_corr"`
	Covariance   Float     `json:"s_cov"`
	Outliers     []int     `json:"outliers"`
	Quartiles    [2]Float  `json:"quartiles"`
	Fences       [2]Float  `json:"fences"`
	Iterations   int       `json:"iterations"`
	Trend        Trend     `json:"trend"`
}

// MarshalJSON writes non-finite values (a two-point season's standard error,
// the correlation of a flat season) as null.
func (s SeasonStatistics) MarshalJSON() ([]byte, error) {
	outliers := s.Outliers
	if outliers == nil {
		outliers = []int{}
	}
	return json.Marshal(seasonStatisticsJSON{
		SeasonNumber: s.SeasonNumber,
		Start:        pointJSON{X: s.Start.X, Y: Float(s.Start.Y)},
		End:          pointJSON{X: s.End.X, Y: Float(s.End.Y)},
		N:            s.N,
		Line:         lineJSON{M: Float(s.Line.M), B: Float(s.Line.B)},
		RangeX:       s.RangeX,
		RangeY:       [2]Float{Float(s.RangeY[0]), Float(s.RangeY[1])},
		MedianY:      Float(s.MedianY),
		SumY:         Float(s.SumY),
		MeanY:        Float(s.MeanY),
		StdY:         Float(s.StdY),
		IQR:          Float(s.IQR),
		VarianceY:    Float(s.VarianceY),
		R2:           Float(s.R2),
		StdErr:       Float(s.StdErr),
		Correlation:  Float(s.Correlation),
		Covariance:   Float(s.Covariance),
		Outliers:     outliers,
		Quartiles:    [2]Float{Float(s.Quartiles[0]), Float(s.Quartiles[1])},
		Fences:       [2]Float{Float(s.Fences[0]), Float(s.Fences[1])},
		Iterations:   s.Iterations,
		Trend:        s.Trend(),
	})
}

// UnmarshalJSON restores a record written by MarshalJSON.
func (s *SeasonStatistics) UnmarshalJSON(data []byte) error {
	var raw seasonStatisticsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SeasonStatistics{
		SeasonNumber: raw.SeasonNumber,
		Start:        Point{X: raw.Start.X, Y: float64(raw.Start.Y)},
		End:          Point{X: raw.End.X, Y: float64(raw.End.Y)},
		N:            raw.N,
		Line:         Line{M: float64(raw.Line.M), B: float64(raw.Line.B)},
		RangeX:       raw.RangeX,
		RangeY:       [2]float64{float64(raw.RangeY[0]), float64(raw.RangeY[1])},
		MedianY:      float64(raw.MedianY),
		SumY:         float64(raw.SumY),
		MeanY:        float64(raw.MeanY),
		StdY:         float64(raw.StdY),
		IQR:          float64(raw.IQR),
		VarianceY:    float64(raw.VarianceY),
		R2:           float64(raw.R2),
		StdErr:       float64(raw.StdErr),
		Correlation:  float64(raw.Correlation),
		Covariance:   float64(raw.Covariance),
		Outliers:     raw.Outliers,
		Quartiles:    [2]float64{float64(raw.Quartiles[0]), float64(raw.Quartiles[1])},
		Fences:       [2]float64{float64(raw.Fences[0]), float64(raw.Fences[1])},
		Iterations:   raw.Iterations,
	}
	return nil
}
