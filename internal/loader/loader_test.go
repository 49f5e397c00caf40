package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtures(t *testing.T) {
	for _, name := range []string{"show.json", "show.yaml", "show.csv"} {
		t.Run(name, func(t *testing.T) {
			show, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)

			require.Len(t, show.Seasons, 2)
			assert.Equal(t, 9, show.EpisodeCount())
			assert.Equal(t, 1, show.Seasons[0].Number)
			assert.Equal(t, 2, show.Seasons[1].Number)

			pilot := show.Seasons[0].Episodes[0]
			assert.Equal(t, models.Episode{Season: 1, Number: 1, Title: "Pilot", Rating: 9.0, Votes: 1204}, pilot)

			last := show.Seasons[1].Episodes[2]
			assert.Equal(t, 3, last.Number)
			assert.Equal(t, "Return", last.Title)
			assert.False(t, last.IsRated())

			if name == "show.csv" {
				assert.Equal(t, "show", show.Title, "csv files are named after the file")
			} else {
				assert.Equal(t, "Northern Lights", show.Title)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.json", FormatJSON},
		{"dir/b.YAML", FormatYAML},
		{"c.yml", FormatYAML},
		{"d.csv", FormatCSV},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("show.xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load("show.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = ParseFormat("toml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseJSONSeasonNumbering(t *testing.T) {
	data := `{"seasons": [
		{"seasonNumber": 3, "episodes": [{"imDbRating": 7.5}]},
		{"episodes": [{"episodeNumber": "4", "imDbRating": "8.25"}]},
		{"episodes": null}
	]}`

	show, err := Parse([]byte(data), FormatJSON)
	require.NoError(t, err)
	require.Len(t, show.Seasons, 3)

	assert.Equal(t, 3, show.Seasons[0].Number)
	assert.Equal(t, 1, show.Seasons[0].Episodes[0].Number, "missing episode numbers follow position")
	assert.Equal(t, 2, show.Seasons[1].Number, "missing season numbers follow position")
	assert.Equal(t, 4, show.Seasons[1].Episodes[0].Number)
	assert.Equal(t, 8.25, show.Seasons[1].Episodes[0].Rating)
	assert.Empty(t, show.Seasons[2].Episodes)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		data   string
	}{
		{"json syntax", FormatJSON, `{"seasons": [`},
		{"json missing seasons", FormatJSON, `{"title": "x"}`},
		{"json rating out of range", FormatJSON, `{"seasons": [{"episodes": [{"imDbRating": 11}]}]}`},
		{"json rating not numeric", FormatJSON, `{"seasons": [{"episodes": [{"imDbRating": "great"}]}]}`},
		{"json missing rating", FormatJSON, `{"seasons": [{"episodes": [{"title": "x"}]}]}`},
		{"yaml syntax", FormatYAML, "seasons: [\n  - {"},
		{"yaml not a mapping", FormatYAML, "- 1\n- 2\n"},
		{"csv empty", FormatCSV, ""},
		{"csv missing column", FormatCSV, "season,episode\n1,1\n"},
		{"csv bad rating", FormatCSV, "season,episode,rating\n1,1,high\n"},
		{"csv rating out of range", FormatCSV, "season,episode,rating\n1,1,12\n"},
		{"csv missing season", FormatCSV, "season,episode,rating\n,1,8.0\n"},
		{"csv NaN rating", FormatCSV, "season,episode,rating\n1,1,8.0\n1,2,NaN\n1,3,8.2\n"},
		{"csv infinite rating", FormatCSV, "season,episode,rating\n1,1,+Inf\n"},
		{"csv negative rating", FormatCSV, "season,episode,rating\n1,1,-0.5\n"},
		{"csv negative season", FormatCSV, "season,episode,rating\n-1,1,8.0\n"},
		{"json string rating out of range", FormatJSON, `{"seasons": [{"episodes": [{"imDbRating": "42"}]}]}`},
		{"yaml string rating out of range", FormatYAML, "seasons:\n  - episodes:\n      - imDbRating: \"10.5\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, ErrInvalidFile)
		})
	}

	_, err := Parse([]byte("{}"), Format("toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseRatingBounds(t *testing.T) {
	show, err := Parse([]byte("season,episode,rating\n1,1,0\n1,2,10\n1,3,\n"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, show.Seasons, 1)
	eps := show.Seasons[0].Episodes
	assert.Equal(t, 0.0, eps[0].Rating)
	assert.Equal(t, 10.0, eps[1].Rating)
	assert.False(t, eps[2].IsRated())

	show, err = Parse([]byte(`{"seasons": [{"episodes": [{"imDbRating": "10"}, {"imDbRating": "7.25"}]}]}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 10.0, show.Seasons[0].Episodes[0].Rating)
	assert.Equal(t, 7.25, show.Seasons[0].Episodes[1].Rating)
}

func TestParseCSVColumnOrder(t *testing.T) {
	data := strings.Join([]string{
		"Rating, Episode, Season",
		"8.0, 1, 2",
		"7.5, 1, 1",
		"7.9, 2, 2",
	}, "\n")

	show, err := Parse([]byte(data), FormatCSV)
	require.NoError(t, err)
	require.Len(t, show.Seasons, 2)
	assert.Equal(t, 2, show.Seasons[0].Number, "seasons keep file order")
	assert.Len(t, show.Seasons[0].Episodes, 2)
	assert.Equal(t, 7.5, show.Seasons[1].Episodes[0].Rating)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadFormatIgnoresExtension(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "show.csv"))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ratings.txt")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = Load(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	show, err := LoadFormat(path, FormatCSV)
	require.NoError(t, err)
	assert.Len(t, show.Seasons, 2)
}
