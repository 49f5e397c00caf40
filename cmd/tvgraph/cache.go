package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/MitchellAV/IMDb-TV-Graph/internal/output"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear cached statistics",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show the number, size and age of cached results",
				Action: runCacheStats,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached result",
				Action: runCacheClear,
			},
		},
	}
}

func runCacheStats(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	store, err := e.openCache(c)
	if err != nil {
		return err
	}
	if !store.Enabled() {
		color.New(color.FgYellow).Fprintln(c.App.Writer, "Cache is disabled.")
		return nil
	}

	stats, err := store.GetStats()
	if err != nil {
		return fmt.Errorf("read cache: %w", err)
	}

	p := message.NewPrinter(language.English)
	summary := &output.Summary{
		Title: "Cache",
		Fields: []output.Field{
			{Label: "Directory", Value: stats.Dir},
			{Label: "Entries", Value: strconv.Itoa(stats.Entries)},
			{Label: "Total Size", Value: p.Sprintf("%d bytes", stats.TotalSize)},
			{Label: "Oldest", Value: age(stats.OldestAge, stats.Entries)},
			{Label: "Newest", Value: age(stats.NewestAge, stats.Entries)},
		},
		Data: stats,
	}

	formatter, err := e.formatter(c)
	if err != nil {
		return err
	}
	defer formatter.Close()
	return formatter.Output(summary)
}

func age(d time.Duration, entries int) string {
	if entries == 0 {
		return "n/a"
	}
	return d.Round(time.Second).String()
}

func runCacheClear(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	store, err := e.openCache(c)
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	color.New(color.FgGreen).Fprintf(c.App.Writer, "Cache cleared: %s\n", e.cfg.Cache.Dir)
	return nil
}
