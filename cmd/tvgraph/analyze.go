package main

import (
	"fmt"

	"github.com/MitchellAV/IMDb-TV-Graph/internal/loader"
	"github.com/MitchellAV/IMDb-TV-Graph/internal/report"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/analyzer/season"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/urfave/cli/v2"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Fit trendlines to a show and every season",
		ArgsUsage: "<episode-file>",
		Description: `Reads an episode file (.json, .yaml or .csv), fits a trendline to the
whole show and to every season with at least two rated episodes, and
prints the statistics of each.

Examples:
  tvgraph analyze breaking-bad.json
  tvgraph -f json analyze show.csv
  tvgraph --verbose analyze show.yaml   # log every outlier removal
  tvgraph analyze --sort-seasons slope-desc show.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sort-seasons",
				Usage: "Season table order: season, avg-rating, median, slope, std, r2 or std-err, suffixed -asc or -desc (default from config)",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	path, err := episodeFile(c)
	if err != nil {
		return err
	}
	e, err := setup(c)
	if err != nil {
		return err
	}

	_, stats, err := e.analyzeFile(c, path)
	if err != nil {
		return err
	}
	if err := e.sortSeasons(c, stats); err != nil {
		return err
	}

	formatter, err := e.formatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(report.Show(stats))
}

func seasonCmd() *cli.Command {
	return &cli.Command{
		Name:      "season",
		Aliases:   []string{"s"},
		Usage:     "Show the statistics of one season",
		ArgsUsage: "<episode-file>",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "number",
				Aliases:  []string{"n"},
				Usage:    "Season number (0 for the whole show)",
				Required: true,
			},
		},
		Action: runSeasonCmd,
	}
}

func runSeasonCmd(c *cli.Context) error {
	path, err := episodeFile(c)
	if err != nil {
		return err
	}
	e, err := setup(c)
	if err != nil {
		return err
	}

	_, stats, err := e.analyzeFile(c, path)
	if err != nil {
		return err
	}

	number := c.Int("number")
	record, ok := stats.Show, stats.Show != nil
	if number != models.ShowSeason {
		record, ok = stats.Season(number)
	}
	if !ok {
		return fmt.Errorf("season %d has fewer than two rated episodes", number)
	}

	formatter, err := e.formatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(report.Season(stats.Title, record))
}

func episodesCmd() *cli.Command {
	return &cli.Command{
		Name:      "episodes",
		Aliases:   []string{"ep"},
		Usage:     "List episodes with their show-wide index",
		ArgsUsage: "<episode-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "sort",
				Usage: "Order: ep-asc, ep-desc, rating-asc, rating-desc, votes-asc, votes-desc (default from config)",
			},
			&cli.IntFlag{
				Name:    "season",
				Aliases: []string{"n"},
				Usage:   "Only list this season",
			},
		},
		Action: runEpisodesCmd,
	}
}

func runEpisodesCmd(c *cli.Context) error {
	path, err := episodeFile(c)
	if err != nil {
		return err
	}
	e, err := setup(c)
	if err != nil {
		return err
	}

	sortName := c.String("sort")
	if sortName == "" {
		sortName = e.cfg.Analysis.Sort
	}
	order, err := season.ParseSortOrder(sortName)
	if err != nil {
		return err
	}

	show, err := loader.Load(path)
	if err != nil {
		return err
	}

	episodes := season.Sequence(show.Seasons)
	title := "Episodes"
	if c.IsSet("season") {
		number := c.Int("season")
		var filtered []models.Episode
		for _, ep := range episodes {
			if ep.Season == number {
				filtered = append(filtered, ep)
			}
		}
		if len(filtered) == 0 {
			return fmt.Errorf("season %d not found", number)
		}
		episodes = filtered
		title = fmt.Sprintf("Season %d Episodes", number)
	}

	formatter, err := e.formatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(report.Episodes(show.Title+": "+title, season.Sort(episodes, order)))
}
