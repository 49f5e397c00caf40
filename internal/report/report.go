// Package report turns computed statistics into renderable output.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MitchellAV/IMDb-TV-Graph/internal/output"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/fatih/color"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown in place of values that are not finite.
const NotAvailable = "n/a"

var printer = message.NewPrinter(language.English)

// Show builds the report of a whole show: the show-wide summary followed by
// one table row per season.
func Show(s *models.ShowStatistics) *output.Report {
	title := s.Title
	if title == "" {
		title = "Show"
	}

	r := &output.Report{
		Title: title,
		Data:  NewShowView(s),
	}

	r.Sections = append(r.Sections, &output.Summary{
		Title: "Overview",
		Fields: []output.Field{
			{Label: "Episodes", Value: printer.Sprintf("%d", s.Episodes)},
			{Label: "Rated", Value: printer.Sprintf("%d", s.Rated)},
			{Label: "Seasons with statistics", Value: strconv.Itoa(len(s.Seasons))},
		},
	})

	if s.Show != nil {
		r.Sections = append(r.Sections, Summary("Episode Ratings", s.Show))
	}
	if len(s.Seasons) > 0 {
		r.Sections = append(r.Sections, SeasonTable(s.Seasons))
	}
	return r
}

// Season builds the report of a single season record.
func Season(title string, s *models.SeasonStatistics) *output.Report {
	heading := fmt.Sprintf("Season %d", s.SeasonNumber)
	if s.IsShow() {
		heading = "Whole Show"
	}
	if title != "" {
		heading = title + ": " + heading
	}
	return &output.Report{
		Title:    heading,
		Sections: []output.Renderable{Summary("Episode Ratings", s)},
		Data:     NewSeasonView(s),
	}
}

// Summary lists the headline statistics of a record: rating range and
// average, spread, fit quality and trend direction.
func Summary(title string, s *models.SeasonStatistics) *output.Summary {
	return &output.Summary{
		Title: title,
		Fields: []output.Field{
			{Label: "Lowest", Value: plain(s.RangeY[0])},
			{Label: "Average", Value: fixed(s.MeanY, 1)},
			{Label: "Highest", Value: plain(s.RangeY[1])},
			{Label: "Number of Episodes", Value: strconv.Itoa(s.N)},
			{Label: "Standard Deviation", Value: ratingPoints(s.StdY)},
			{Label: "R²", Value: fixed(s.R2, 2)},
			{Label: "Standard Error of Regression", Value: ratingPoints(s.StdErr)},
			{Label: "Trendline Direction", Value: Direction(s), Color: TrendColor(s.Trend())},
			{Label: "Outliers Removed", Value: Outliers(s.Outliers)},
		},
		Data: NewSeasonView(s),
	}
}

// SeasonTable lists one row per season record.
func SeasonTable(seasons []models.SeasonStatistics) *output.Table {
	headers := []string{"Season", "Episodes", "Lowest", "Average", "Highest", "Std Dev", "R²", "Std Err", "Slope", "Trend", "Outliers"}
	rows := make([][]string, 0, len(seasons))
	views := make([]SeasonView, 0, len(seasons))
	for i := range seasons {
		s := &seasons[i]
		rows = append(rows, []string{
			strconv.Itoa(s.SeasonNumber),
			strconv.Itoa(s.N),
			plain(s.RangeY[0]),
			fixed(s.MeanY, 1),
			plain(s.RangeY[1]),
			fixed(s.StdY, 2),
			fixed(s.R2, 2),
			fixed(s.StdErr, 2),
			precision(s.Line.M, 2),
			TrendName(s.Trend()),
			Outliers(s.Outliers),
		})
		views = append(views, NewSeasonView(s))
	}
	return output.NewTable("Seasons", headers, rows, nil, views)
}

// EpisodeView is one row of an episode listing.
type EpisodeView struct {
	Index  int     `json:"index" toon:"index"`
	Season int     `json:"season" toon:"season"`
	Number int     `json:"number" toon:"number"`
	Title  string  `json:"title" toon:"title"`
	Rating float64 `json:"rating" toon:"rating"`
	Votes  int     `json:"votes" toon:"votes"`
}

// Episodes lists episodes in the given order. Unrated episodes show n/a.
func Episodes(title string, episodes []models.Episode) *output.Table {
	headers := []string{"#", "Season", "Episode", "Title", "Rating", "Votes"}
	rows := make([][]string, 0, len(episodes))
	views := make([]EpisodeView, 0, len(episodes))
	for _, ep := range episodes {
		rating := NotAvailable
		if ep.IsRated() {
			rating = strconv.FormatFloat(ep.Rating, 'f', 1, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(ep.Index),
			strconv.Itoa(ep.Season),
			strconv.Itoa(ep.Number),
			ep.Title,
			rating,
			printer.Sprintf("%d", ep.Votes),
		})
		views = append(views, EpisodeView{
			Index:  ep.Index,
			Season: ep.Season,
			Number: ep.Number,
			Title:  ep.Title,
			Rating: ep.Rating,
			Votes:  ep.Votes,
		})
	}
	return output.NewTable(title, headers, rows, nil, views)
}

// Direction renders the slope to two significant digits with its trend name,
// e.g. "0.012 Positive".
func Direction(s *models.SeasonStatistics) string {
	return precision(s.Line.M, 2) + " " + TrendName(s.Trend())
}

// TrendName returns the display name of a trend.
func TrendName(t models.Trend) string {
	return cases.Title(language.English).String(string(t))
}

// TrendColor returns the color a trend is shown in.
func TrendColor(t models.Trend) *color.Color {
	switch t {
	case models.TrendPositive:
		return color.New(color.FgGreen)
	case models.TrendNegative:
		return color.New(color.FgRed)
	default:
		return color.New(color.FgYellow)
	}
}

// Outliers lists removed episode indexes, or "none".
func Outliers(xs []int) string {
	if len(xs) == 0 {
		return "none"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}

func notFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

func fixed(v float64, places int) string {
	if notFinite(v) {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}

func plain(v float64) string {
	if notFinite(v) {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func precision(v float64, digits int) string {
	if notFinite(v) {
		return NotAvailable
	}
	return strconv.FormatFloat(v, 'g', digits, 64)
}

func ratingPoints(v float64) string {
	if notFinite(v) {
		return NotAvailable
	}
	return "±" + fixed(v, 2) + " Rating Points"
}
