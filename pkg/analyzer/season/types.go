package season

import (
	"fmt"
	"strings"
)

// ProgressFunc is called after each season (and the whole show) is analyzed.
type ProgressFunc func()

// SortOrder selects how an episode listing is ordered.
type SortOrder string

const (
	SortEpisodeAsc  SortOrder = "ep-asc"
	SortEpisodeDesc SortOrder = "ep-desc"
	SortRatingAsc   SortOrder = "rating-asc"
	SortRatingDesc  SortOrder = "rating-desc"
	SortVotesAsc    SortOrder = "votes-asc"
	SortVotesDesc   SortOrder = "votes-desc"
)

// SortOrders lists every supported order.
var SortOrders = []SortOrder{
	SortEpisodeAsc, SortEpisodeDesc,
	SortRatingAsc, SortRatingDesc,
	SortVotesAsc, SortVotesDesc,
}

// ParseSortOrder parses a sort order name. An empty name is episode order.
func ParseSortOrder(s string) (SortOrder, error) {
	if s == "" {
		return SortEpisodeAsc, nil
	}
	for _, o := range SortOrders {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// SeasonSortOrder selects how per-season records are ordered.
type SeasonSortOrder string

const (
	SortSeasonAsc     SeasonSortOrder = "season-asc"
	SortSeasonDesc    SeasonSortOrder = "season-desc"
	SortAvgRatingAsc  SeasonSortOrder = "avg-rating-asc"
	SortAvgRatingDesc SeasonSortOrder = "avg-rating-desc"
	SortMedianAsc     SeasonSortOrder = "median-asc"
	SortMedianDesc    SeasonSortOrder = "median-desc"
	SortSlopeAsc      SeasonSortOrder = "slope-asc"
	SortSlopeDesc     SeasonSortOrder = "slope-desc"
	SortStdAsc        SeasonSortOrder = "std-asc"
	SortStdDesc       SeasonSortOrder = "std-desc"
	SortR2Asc         SeasonSortOrder = "r2-asc"
	SortR2Desc        SeasonSortOrder = "r2-desc"
	SortStdErrAsc     SeasonSortOrder = "std-err-asc"
	SortStdErrDesc    SeasonSortOrder = "std-err-desc"
)

// SeasonSortOrders lists every supported season order.
var SeasonSortOrders = []SeasonSortOrder{
	SortSeasonAsc, SortSeasonDesc,
	SortAvgRatingAsc, SortAvgRatingDesc,
	SortMedianAsc, SortMedianDesc,
	SortSlopeAsc, SortSlopeDesc,
	SortStdAsc, SortStdDesc,
	SortR2Asc, SortR2Desc,
	SortStdErrAsc, SortStdErrDesc,
}

// ParseSeasonSortOrder parses a season order name. An empty name is season
// number order.
func ParseSeasonSortOrder(s string) (SeasonSortOrder, error) {
	if s == "" {
		return SortSeasonAsc, nil
	}
	for _, o := range SeasonSortOrders {
		if strings.EqualFold(s, string(o)) {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown season sort order %q", s)
}
