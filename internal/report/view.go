package report

import (
	"math"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
)

// SeasonView is the serialized form of a season record. Values that are not
// finite (a two-point season's standard error) are nil, so JSON and TOON
// encoders both emit null.
type SeasonView struct {
	SeasonNumber int          `json:"season_number" toon:"season_number"`
	Start        PointView    `json:"start" toon:"start"`
	End          PointView    `json:"end" toon:"end"`
	N            int          `json:"n" toon:"n"`
	Line         LineView     `json:"line_mb" toon:"line_mb"`
	RangeX       [2]int       `json:"range_x" toon:"range_x"`
	RangeY       [2]*float64  `json:"range_y" toon:"range_y"`
	MedianY      *float64     `json:"median_y" toon:"median_y"`
	SumY         *float64     `json:"sum_y" toon:"sum_y"`
	MeanY        *float64     `json:"mean_y" toon:"mean_y"`
	StdY         *float64     `json:"std_y" toon:"std_y"`
	IQR          *float64     `json:"iqr" toon:"iqr"`
	VarianceY    *float64     `json:"variance_y" toon:"variance_y"`
	R2           *float64     `json:"r2" toon:"r2"`
	StdErr       *float64     `json:"std_err" toon:"std_err"`
	Correlation  *float64     `json:"s_corr" toon:"s_corr"`
	Covariance   *float64     `json:"s_cov" toon:"s_cov"`
	Outliers     []int        `json:"outliers" toon:"outliers"`
	Quartiles    [2]*float64  `json:"quartiles" toon:"quartiles"`
	Fences       [2]*float64  `json:"fences" toon:"fences"`
	Iterations   int          `json:"iterations" toon:"iterations"`
	Trend        models.Trend `json:"trend" toon:"trend"`
}

// PointView is a fitted point with a nullable y.
type PointView struct {
	X int      `json:"x" toon:"x"`
	Y *float64 `json:"y" toon:"y"`
}

// LineView is a trendline with nullable coefficients.
type LineView struct {
	M *float64 `json:"m" toon:"m"`
	B *float64 `json:"b" toon:"b"`
}

// ShowView is the serialized form of a show analysis.
type ShowView struct {
	Title    string       `json:"title,omitempty" toon:"title"`
	Episodes int          `json:"episodes" toon:"episodes"`
	Rated    int          `json:"rated" toon:"rated"`
	Show     *SeasonView  `json:"show" toon:"show"`
	Seasons  []SeasonView `json:"seasons" toon:"seasons"`
}

// NewSeasonView converts a season record.
func NewSeasonView(s *models.SeasonStatistics) SeasonView {
	outliers := s.Outliers
	if outliers == nil {
		outliers = []int{}
	}
	return SeasonView{
		SeasonNumber: s.SeasonNumber,
		Start:        PointView{X: s.Start.X, Y: finite(s.Start.Y)},
		End:          PointView{X: s.End.X, Y: finite(s.End.Y)},
		N:            s.N,
		Line:         LineView{M: finite(s.Line.M), B: finite(s.Line.B)},
		RangeX:       s.RangeX,
		RangeY:       [2]*float64{finite(s.RangeY[0]), finite(s.RangeY[1])},
		MedianY:      finite(s.MedianY),
		SumY:         finite(s.SumY),
		MeanY:        finite(s.MeanY),
		StdY:         finite(s.StdY),
		IQR:          finite(s.IQR),
		VarianceY:    finite(s.VarianceY),
		R2:           finite(s.R2),
		StdErr:       finite(s.StdErr),
		Correlation:  finite(s.Correlation),
		Covariance:   finite(s.Covariance),
		Outliers:     outliers,
		Quartiles:    [2]*float64{finite(s.Quartiles[0]), finite(s.Quartiles[1])},
		Fences:       [2]*float64{finite(s.Fences[0]), finite(s.Fences[1])},
		Iterations:   s.Iterations,
		Trend:        s.Trend(),
	}
}

// NewShowView converts a show analysis.
func NewShowView(s *models.ShowStatistics) ShowView {
	v := ShowView{
		Title:    s.Title,
		Episodes: s.Episodes,
		Rated:    s.Rated,
		Seasons:  make([]SeasonView, 0, len(s.Seasons)),
	}
	if s.Show != nil {
		show := NewSeasonView(s.Show)
		v.Show = &show
	}
	for i := range s.Seasons {
		v.Seasons = append(v.Seasons, NewSeasonView(&s.Seasons[i]))
	}
	return v
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
