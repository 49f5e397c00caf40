package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MitchellAV/IMDb-TV-Graph/internal/report"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/analyzer/season"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/watch"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func watchCmd() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Re-analyze episode files whenever they change",
		ArgsUsage: "<episode-file...>",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Value: watch.DefaultDebounce,
				Usage: "How long a file must stay unchanged before it is re-analyzed",
			},
			&cli.StringFlag{
				Name:  "sort-seasons",
				Usage: "Season table order (see analyze --sort-seasons)",
			},
		},
		Action: runWatchCmd,
	}
}

func runWatchCmd(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return fmt.Errorf("expected at least one episode file")
	}
	files := c.Args().Slice()

	e, err := setup(c)
	if err != nil {
		return err
	}
	if _, err := season.ParseSeasonSortOrder(c.String("sort-seasons")); err != nil {
		return err
	}

	watcher, err := watch.NewWatcher(files,
		watch.WithDebounce(c.Duration("debounce")),
		watch.WithOutput(c.App.Writer),
		watch.WithLogger(e.logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Stop()

	run := func(path string) {
		_, stats, err := e.analyzeFile(c, path)
		if err == nil {
			err = e.sortSeasons(c, stats)
		}
		if err != nil {
			color.New(color.FgRed).Fprintf(c.App.ErrWriter, "Error: %v\n", err)
			return
		}
		formatter, err := e.formatter(c)
		if err != nil {
			color.New(color.FgRed).Fprintf(c.App.ErrWriter, "Error: %v\n", err)
			return
		}
		defer formatter.Close()
		if err := formatter.Output(report.Show(stats)); err != nil {
			color.New(color.FgRed).Fprintf(c.App.ErrWriter, "Error: %v\n", err)
		}
	}

	for _, f := range files {
		run(f)
	}
	watcher.SetCallback(run)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = watcher.Start(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
