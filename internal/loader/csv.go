package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
)

var requiredColumns = []string{"season", "episode", "rating"}

// parseCSV reads rows of season,episode,rating with optional title and
// votes columns, in any order. Rows are grouped by season in file order.
func parseCSV(r io.Reader) (*models.Show, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", ErrInvalidFile)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("%w: missing %q column", ErrInvalidFile, c)
		}
	}

	show := &models.Show{}
	bySeason := make(map[int]int)
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
		}

		ep, err := csvEpisode(record, cols)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidFile, line, err)
		}

		i, ok := bySeason[ep.Season]
		if !ok {
			i = len(show.Seasons)
			bySeason[ep.Season] = i
			show.Seasons = append(show.Seasons, models.Season{Number: ep.Season})
		}
		show.Seasons[i].Episodes = append(show.Seasons[i].Episodes, ep)
	}
	return show, nil
}

func csvEpisode(record []string, cols map[string]int) (models.Episode, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var season, episode, votes count
	var r rating
	if err := season.parse(field("season")); err != nil {
		return models.Episode{}, fmt.Errorf("season: %w", err)
	}
	if !season.set {
		return models.Episode{}, errors.New("season is required")
	}
	if err := episode.parse(field("episode")); err != nil {
		return models.Episode{}, fmt.Errorf("episode: %w", err)
	}
	if err := r.parse(field("rating")); err != nil {
		return models.Episode{}, fmt.Errorf("rating: %w", err)
	}
	if err := votes.parse(field("votes")); err != nil {
		return models.Episode{}, fmt.Errorf("votes: %w", err)
	}

	return models.Episode{
		Season: season.value,
		Number: episode.value,
		Title:  field("title"),
		Rating: float64(r),
		Votes:  votes.value,
	}, nil
}
