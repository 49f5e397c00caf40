package season

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
)

// Sort returns a copy of episodes in the given order. Rating orders break
// ties on vote count in the same direction. Unknown orders fall back to
// episode order.
func Sort(episodes []models.Episode, order SortOrder) []models.Episode {
	out := slices.Clone(episodes)

	var compare func(a, b models.Episode) int
	switch order {
	case SortEpisodeDesc:
		compare = func(a, b models.Episode) int { return cmp.Compare(b.Index, a.Index) }
	case SortRatingAsc:
		compare = func(a, b models.Episode) int {
			return cmp.Or(cmp.Compare(a.Rating, b.Rating), cmp.Compare(a.Votes, b.Votes))
		}
	case SortRatingDesc:
		compare = func(a, b models.Episode) int {
			return cmp.Or(cmp.Compare(b.Rating, a.Rating), cmp.Compare(b.Votes, a.Votes))
		}
	case SortVotesAsc:
		compare = func(a, b models.Episode) int { return cmp.Compare(a.Votes, b.Votes) }
	case SortVotesDesc:
		compare = func(a, b models.Episode) int { return cmp.Compare(b.Votes, a.Votes) }
	default:
		compare = func(a, b models.Episode) int { return cmp.Compare(a.Index, b.Index) }
	}

	slices.SortStableFunc(out, compare)
	return out
}

// seasonKeys maps each metric order to the record field it compares.
var seasonKeys = map[SeasonSortOrder]func(s *models.SeasonStatistics) float64{
	SortAvgRatingAsc:  func(s *models.SeasonStatistics) float64 { return s.MeanY },
	SortAvgRatingDesc: func(s *models.SeasonStatistics) float64 { return s.MeanY },
	SortMedianAsc:     func(s *models.SeasonStatistics) float64 { return s.MedianY },
	SortMedianDesc:    func(s *models.SeasonStatistics) float64 { return s.MedianY },
	SortSlopeAsc:      func(s *models.SeasonStatistics) float64 { return s.Line.M },
	SortSlopeDesc:     func(s *models.SeasonStatistics) float64 { return s.Line.M },
	SortStdAsc:        func(s *models.SeasonStatistics) float64 { return s.StdY },
	SortStdDesc:       func(s *models.SeasonStatistics) float64 { return s.StdY },
	SortR2Asc:         func(s *models.SeasonStatistics) float64 { return s.R2 },
	SortR2Desc:        func(s *models.SeasonStatistics) float64 { return s.R2 },
	SortStdErrAsc:     func(s *models.SeasonStatistics) float64 { return s.StdErr },
	SortStdErrDesc:    func(s *models.SeasonStatistics) float64 { return s.StdErr },
}

// SortSeasons returns a copy of records in the given order. Records with a
// NaN key (the standard error of a two-episode season) go last in either
// direction, and equal keys fall back to season number. Unknown orders fall
// back to season order.
func SortSeasons(records []models.SeasonStatistics, order SeasonSortOrder) []models.SeasonStatistics {
	out := slices.Clone(records)
	bySeason := func(a, b *models.SeasonStatistics) int { return cmp.Compare(a.SeasonNumber, b.SeasonNumber) }

	key, ok := seasonKeys[order]
	switch {
	case order == SortSeasonDesc:
		slices.SortStableFunc(out, func(a, b models.SeasonStatistics) int { return bySeason(&b, &a) })
	case ok:
		desc := strings.HasSuffix(string(order), "-desc")
		slices.SortStableFunc(out, func(a, b models.SeasonStatistics) int {
			ka, kb := key(&a), key(&b)
			if na, nb := math.IsNaN(ka), math.IsNaN(kb); na || nb {
				if na && nb {
					return bySeason(&a, &b)
				}
				if na {
					return 1
				}
				return -1
			}
			c := cmp.Compare(ka, kb)
			if desc {
				c = -c
			}
			return cmp.Or(c, bySeason(&a, &b))
		})
	default:
		slices.SortStableFunc(out, func(a, b models.SeasonStatistics) int { return bySeason(&a, &b) })
	}
	return out
}
