package loader

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"gopkg.in/yaml.v3"
)

// document is the episode file layout: a show with its IMDb season listings.
// Counts arrive as strings or numbers and ratings as numbers, numeric
// strings or empty values for episodes that have not aired.
type document struct {
	Title     string           `json:"title" yaml:"title"`
	FullTitle string           `json:"fullTitle" yaml:"fullTitle"`
	Seasons   []seasonDocument `json:"seasons" yaml:"seasons"`
}

type seasonDocument struct {
	SeasonNumber count             `json:"seasonNumber" yaml:"seasonNumber"`
	Episodes     []episodeDocument `json:"episodes" yaml:"episodes"`
}

type episodeDocument struct {
	SeasonNumber    count  `json:"seasonNumber" yaml:"seasonNumber"`
	EpisodeNumber   count  `json:"episodeNumber" yaml:"episodeNumber"`
	Title           string `json:"title" yaml:"title"`
	ImDbRating      rating `json:"imDbRating" yaml:"imDbRating"`
	ImDbRatingCount count  `json:"imDbRatingCount" yaml:"imDbRatingCount"`
}

// show converts the document to the model. A season without its own number
// takes it from its first numbered episode, then from its position.
func (d *document) show() *models.Show {
	title := d.Title
	if title == "" {
		title = d.FullTitle
	}

	s := &models.Show{Title: title, Seasons: make([]models.Season, 0, len(d.Seasons))}
	for i, sd := range d.Seasons {
		number := sd.SeasonNumber.value
		if !sd.SeasonNumber.set {
			number = i + 1
			for _, ed := range sd.Episodes {
				if ed.SeasonNumber.set {
					number = ed.SeasonNumber.value
					break
				}
			}
		}

		season := models.Season{Number: number, Episodes: make([]models.Episode, 0, len(sd.Episodes))}
		for j, ed := range sd.Episodes {
			ep := models.Episode{
				Season: number,
				Number: ed.EpisodeNumber.value,
				Title:  ed.Title,
				Rating: float64(ed.ImDbRating),
				Votes:  ed.ImDbRatingCount.value,
			}
			if !ed.EpisodeNumber.set {
				ep.Number = j + 1
			}
			season.Episodes = append(season.Episodes, ep)
		}
		s.Seasons = append(s.Seasons, season)
	}
	return s
}

// count is a non-negative integer written as a number or a string such as
// "1" or "12,345".
type count struct {
	value int
	set   bool
}

func (c *count) parse(s string) error {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		*c = count{}
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fmt.Errorf("invalid count %q", s)
	}
	*c = count{value: n, set: true}
	return nil
}

func (c *count) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = count{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return c.parse(s)
	}
	return c.parse(string(data))
}

func (c *count) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		*c = count{}
		return nil
	}
	return c.parse(node.Value)
}

// rating is an IMDb rating; empty or null means unrated (0).
type rating float64

// Rating bounds. IMDb ratings are 1..10; 0 marks an unrated episode.
const (
	minRating = 0
	maxRating = 10
)

func (r *rating) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" || s == "~" {
		*r = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid rating %q", s)
	}
	// NaN fails every comparison, so it is rejected explicitly.
	if math.IsNaN(f) || f < minRating || f > maxRating {
		return fmt.Errorf("rating %s out of range %d..%d", s, minRating, maxRating)
	}
	*r = rating(f)
	return nil
}

func (r *rating) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return r.parse(s)
	}
	return r.parse(string(data))
}

func (r *rating) UnmarshalYAML(node *yaml.Node) error {
	if node.ShortTag() == "!!null" {
		*r = 0
		return nil
	}
	return r.parse(node.Value)
}
