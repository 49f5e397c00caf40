package report

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/MitchellAV/IMDb-TV-Graph/internal/output"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/analyzer/season"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyzedShow(t *testing.T) *models.ShowStatistics {
	t.Helper()
	seasons := []models.Season{
		{Number: 1, Episodes: []models.Episode{
			{Rating: 9.0}, {Rating: 9.1}, {Rating: 9.0}, {Rating: 2.0}, {Rating: 9.2}, {Rating: 9.1},
		}},
		{Number: 2, Episodes: []models.Episode{{Rating: 8.4}, {Rating: 8.6}}},
	}
	show, err := season.New().Analyze(context.Background(), seasons)
	require.NoError(t, err)
	show.Title = "Northern Lights"
	return show
}

func TestShowText(t *testing.T) {
	show := analyzedShow(t)

	out, err := output.Render(output.FormatText, Show(show))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Northern Lights\n"))
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "Episode Ratings")
	assert.Contains(t, out, "Number of Episodes:")
	assert.Contains(t, out, "Outliers Removed:")
	assert.Contains(t, out, "Seasons")
	assert.Contains(t, out, NotAvailable, "the two-episode season has no standard error")
}

func TestShowMarkdown(t *testing.T) {
	out, err := output.Render(output.FormatMarkdown, Show(analyzedShow(t)))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# Northern Lights\n\n## Overview\n"))
	assert.Contains(t, out, "- **Lowest:** 2\n")
	assert.Contains(t, out, "| Season | Episodes |")
	assert.Contains(t, out, "| 1 | 5 | 2 | 9.1 | 9.2 |")
}

func TestShowJSON(t *testing.T) {
	out, err := output.Render(output.FormatJSON, Show(analyzedShow(t)))
	require.NoError(t, err)

	var v struct {
		Title   string `json:"title"`
		Rated   int    `json:"rated"`
		Seasons []struct {
			SeasonNumber int      `json:"season_number"`
			StdErr       *float64 `json:"std_err"`
			Outliers     []int    `json:"outliers"`
			Trend        string   `json:"trend"`
		} `json:"seasons"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "Northern Lights", v.Title)
	assert.Equal(t, 8, v.Rated)
	require.Len(t, v.Seasons, 2)
	assert.Equal(t, []int{4}, v.Seasons[0].Outliers)
	assert.NotNil(t, v.Seasons[0].StdErr)
	assert.Nil(t, v.Seasons[1].StdErr, "NaN becomes null")
	assert.Equal(t, "positive", v.Seasons[1].Trend)
}

func TestShowTOON(t *testing.T) {
	out, err := output.Render(output.FormatTOON, Show(analyzedShow(t)))
	require.NoError(t, err)
	assert.Contains(t, out, "Northern Lights")
	assert.NotContains(t, out, "NaN")
}

func TestShowWithoutStatistics(t *testing.T) {
	r := Show(&models.ShowStatistics{Episodes: 3, Rated: 1, Seasons: []models.SeasonStatistics{}})
	assert.Equal(t, "Show", r.Title)
	assert.Len(t, r.Sections, 1, "only the overview when nothing could be computed")

	var buf bytes.Buffer
	require.NoError(t, r.RenderText(&buf, false))
	assert.Contains(t, buf.String(), "Rated:")
}

func TestSeason(t *testing.T) {
	show := analyzedShow(t)

	r := Season("Northern Lights", &show.Seasons[0])
	assert.Equal(t, "Northern Lights: Season 1", r.Title)

	r = Season("", show.Show)
	assert.Equal(t, "Whole Show", r.Title)

	view, ok := r.RenderData().(SeasonView)
	require.True(t, ok)
	assert.Equal(t, models.ShowSeason, view.SeasonNumber)
}

func TestSummaryValues(t *testing.T) {
	s := &models.SeasonStatistics{
		SeasonNumber: 2,
		N:            2,
		Line:         models.Line{M: -0.01234, B: 8},
		RangeY:       [2]float64{7.2, 8.4},
		MeanY:        7.84,
		StdY:         0.5,
		R2:           1,
		StdErr:       math.NaN(),
	}

	values := map[string]string{}
	for _, f := range Summary("Ratings", s).Fields {
		values[f.Label] = f.Value
	}
	assert.Equal(t, "7.2", values["Lowest"])
	assert.Equal(t, "7.8", values["Average"])
	assert.Equal(t, "8.4", values["Highest"])
	assert.Equal(t, "2", values["Number of Episodes"])
	assert.Equal(t, "±0.50 Rating Points", values["Standard Deviation"])
	assert.Equal(t, "1.00", values["R²"])
	assert.Equal(t, NotAvailable, values["Standard Error of Regression"])
	assert.Equal(t, "-0.012 Negative", values["Trendline Direction"])
	assert.Equal(t, "none", values["Outliers Removed"])
}

func TestEpisodes(t *testing.T) {
	episodes := []models.Episode{
		{Index: 1, Season: 1, Number: 1, Title: "Pilot", Rating: 8.1, Votes: 12345},
		{Index: 2, Season: 1, Number: 2, Title: "Unaired"},
	}
	table := Episodes("Episodes", episodes)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "1", "1", "Pilot", "8.1", "12,345"}, table.Rows[0])
	assert.Equal(t, NotAvailable, table.Rows[1][4])

	views, ok := table.RenderData().([]EpisodeView)
	require.True(t, ok)
	assert.Equal(t, 12345, views[0].Votes)
}

func TestTrendHelpers(t *testing.T) {
	assert.Equal(t, "Positive", TrendName(models.TrendPositive))
	assert.Equal(t, "Stable", TrendName(models.TrendStable))
	assert.NotNil(t, TrendColor(models.TrendNegative))
	assert.Equal(t, "3, 17", Outliers([]int{3, 17}))
}

func TestNewSeasonViewNullsNonFinite(t *testing.T) {
	v := NewSeasonView(&models.SeasonStatistics{StdErr: math.NaN(), Correlation: math.Inf(1), MeanY: 8})
	assert.Nil(t, v.StdErr)
	assert.Nil(t, v.Correlation)
	require.NotNil(t, v.MeanY)
	assert.Equal(t, 8.0, *v.MeanY)
	assert.Equal(t, []int{}, v.Outliers)
}
