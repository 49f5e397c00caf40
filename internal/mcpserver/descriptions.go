package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeAnalyzeRatings() string {
	return `Fits a rating trendline to a TV show's episode ratings, removing statistical outliers one at a time, and reports statistics for the whole show and for every season.

USE WHEN:
- Asking whether a show got better or worse over its run
- Comparing seasons of a show by average rating and consistency
- Finding standout episodes that break from a season's trend
- You already have the ratings and no episode file on disk

INTERPRETING RESULTS:
- Episodes are numbered 1..N across the whole show in season order; x values and outliers use that index
- Ratings of 0 mean unrated and are ignored
- line_mb.m is the slope in rating points per episode; trend is positive, negative or stable
- r2 near 1: ratings follow the trendline closely. Below 0.4 the series is treated as flat and outliers are judged against the mean
- std_err is the typical distance of a rating from the trendline; null when only two episodes are left
- outliers lists episodes removed because their |z| exceeded 1.96; at most one is removed per pass
- range_y, sum_y, variance_y, s_corr and s_cov describe every rated episode; the other fields describe episodes left after outlier removal
- A season with fewer than two rated episodes has no statistics and is omitted

METRICS RETURNED:
- show: whole-show record (season_number 0)
- seasons: one record per season with start/end points, n, line_mb, range_x, range_y, median_y, mean_y, std_y, iqr, quartiles, fences, r2, std_err, s_corr, s_cov, outliers, iterations, trend
- episodes and rated: total and rated episode counts`
}

func describeAnalyzeFile() string {
	return `Reads an IMDb episode export (JSON, YAML or CSV) from disk and runs the same trendline analysis as analyze_ratings.

USE WHEN:
- A show's episode list has been saved to a file
- Re-checking a show after its episode file was refreshed
- You need episode titles and vote counts kept alongside the statistics

INTERPRETING RESULTS:
- Same fields and thresholds as analyze_ratings
- JSON files follow the IMDb API shape: seasons[].episodes[] with imDbRating as a number, numeric string, empty string or null
- CSV files need season, episode and rating columns; title and votes are optional
- Unrated or unreleased episodes still take an episode index, so later indexes do not shift

METRICS RETURNED:
- show: whole-show record (season_number 0)
- seasons: per-season records as in analyze_ratings
- title: the show title from the file, or the file name`
}
