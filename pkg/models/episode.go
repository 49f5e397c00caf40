package models

// Episode is a single rated (or not yet rated) episode of a show.
type Episode struct {
	Season int     `json:"season" toon:"season"`
	Number int     `json:"number" toon:"number"`
	Title  string  `json:"title,omitempty" toon:"title"`
	Rating float64 `json:"rating" toon:"rating"` // 0 means unrated
	Votes  int     `json:"votes,omitempty" toon:"votes"`

	// Index is the show-global 1-based position of the episode across all
	// seasons. It is assigned by the aggregation step, not read from source data.
	Index int `json:"index,omitempty" toon:"index"`
}

// IsRated reports whether the episode carries a rating.
func (e Episode) IsRated() bool {
	return e.Rating != 0
}

// Season groups the episodes of one season in broadcast order.
type Season struct {
	Number   int       `json:"number" toon:"number"`
	Episodes []Episode `json:"episodes" toon:"episodes"`
}

// RatedPoint is an (episode index, rating) pair with a non-zero rating.
type RatedPoint struct {
	X int     `json:"x" toon:"x"`
	Y float64 `json:"y" toon:"y"`
}

// RatedPoints converts episodes to regression points, dropping unrated ones.
// Order is preserved.
func RatedPoints(episodes []Episode) []RatedPoint {
	points := make([]RatedPoint, 0, len(episodes))
	for _, ep := range episodes {
		if !ep.IsRated() {
			continue
		}
		points = append(points, RatedPoint{X: ep.Index, Y: ep.Rating})
	}
	return points
}

// Show is a titled list of seasons as read from an episode file.
type Show struct {
	Title   string   `json:"title,omitempty" toon:"title"`
	Seasons []Season `json:"seasons" toon:"seasons"`
}

// EpisodeCount returns the number of episodes across all seasons.
func (s *Show) EpisodeCount() int {
	n := 0
	for _, season := range s.Seasons {
		n += len(season.Episodes)
	}
	return n
}
