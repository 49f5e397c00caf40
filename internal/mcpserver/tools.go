package mcpserver

import (
	"context"
	"fmt"

	"github.com/MitchellAV/IMDb-TV-Graph/internal/loader"
	"github.com/MitchellAV/IMDb-TV-Graph/internal/output"
	"github.com/MitchellAV/IMDb-TV-Graph/internal/report"
	"github.com/MitchellAV/IMDb-TV-Graph/pkg/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SeasonInput is one season's ratings in broadcast order.
type SeasonInput struct {
	Number  int       `json:"number" jsonschema:"Season number, starting at 1."`
	Ratings []float64 `json:"ratings" jsonschema:"Episode ratings from 0 to 10 in broadcast order. 0 marks an unrated episode."`
}

// OutputInput holds the options shared by every tool.
type OutputInput struct {
	Season int    `json:"season,omitempty" jsonschema:"Only return the record of this season number. 0 returns the whole show."`
	Format string `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// RatingsInput is the input of analyze_ratings.
type RatingsInput struct {
	OutputInput
	Title   string        `json:"title,omitempty" jsonschema:"Show title used in the report heading."`
	Seasons []SeasonInput `json:"seasons" jsonschema:"Seasons of the show. Order does not matter; they are sorted by number."`
}

// FileInput is the input of analyze_file.
type FileInput struct {
	OutputInput
	Path       string `json:"path" jsonschema:"Path to an episode file (.json, .yaml, .yml or .csv)."`
	FileFormat string `json:"file_format,omitempty" jsonschema:"Override the file format detected from the extension: json, yaml or csv."`
}

func getFormat(input OutputInput) output.Format {
	switch input.Format {
	case "json":
		return output.FormatJSON
	case "markdown", "md":
		return output.FormatMarkdown
	default:
		return output.FormatTOON
	}
}

func toolResult(r output.Renderable, format output.Format) (*mcp.CallToolResult, any, error) {
	text, err := output.Render(format, r)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func toSeasons(in []SeasonInput) ([]models.Season, error) {
	seasons := make([]models.Season, 0, len(in))
	for _, s := range in {
		if s.Number < 1 {
			return nil, fmt.Errorf("season number %d: must be at least 1", s.Number)
		}
		episodes := make([]models.Episode, 0, len(s.Ratings))
		for i, r := range s.Ratings {
			if r < 0 || r > 10 {
				return nil, fmt.Errorf("season %d episode %d: rating %g outside 0..10", s.Number, i+1, r)
			}
			episodes = append(episodes, models.Episode{Season: s.Number, Number: i + 1, Rating: r})
		}
		seasons = append(seasons, models.Season{Number: s.Number, Episodes: episodes})
	}
	return seasons, nil
}

// analyze runs the analyzer over show and renders the whole show or the
// requested season.
func (s *Server) analyze(ctx context.Context, show *models.Show, opts OutputInput) (*mcp.CallToolResult, any, error) {
	stats, err := s.analyzer.Analyze(ctx, show.Seasons)
	if err != nil {
		return toolError(err.Error())
	}
	stats.Title = show.Title

	format := getFormat(opts)
	if opts.Season == models.ShowSeason {
		return toolResult(report.Show(stats), format)
	}

	record, ok := stats.Season(opts.Season)
	if !ok {
		return toolError(fmt.Sprintf("season %d has fewer than two rated episodes", opts.Season))
	}
	return toolResult(report.Season(show.Title, record), format)
}

func (s *Server) handleAnalyzeRatings(ctx context.Context, req *mcp.CallToolRequest, input RatingsInput) (*mcp.CallToolResult, any, error) {
	if len(input.Seasons) == 0 {
		return toolError("no seasons given")
	}
	seasons, err := toSeasons(input.Seasons)
	if err != nil {
		return toolError(err.Error())
	}
	return s.analyze(ctx, &models.Show{Title: input.Title, Seasons: seasons}, input.OutputInput)
}

func (s *Server) handleAnalyzeFile(ctx context.Context, req *mcp.CallToolRequest, input FileInput) (*mcp.CallToolResult, any, error) {
	if input.Path == "" {
		return toolError("path is required")
	}

	var (
		show *models.Show
		err  error
	)
	if input.FileFormat != "" {
		show, err = loadAs(input.Path, input.FileFormat)
	} else {
		show, err = loader.Load(input.Path)
	}
	if err != nil {
		return toolError(err.Error())
	}
	return s.analyze(ctx, show, input.OutputInput)
}

func loadAs(path, format string) (*models.Show, error) {
	f, err := loader.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return loader.LoadFormat(path, f)
}
