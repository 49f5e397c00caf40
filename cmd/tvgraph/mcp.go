package main

import (
	"github.com/MitchellAV/IMDb-TV-Graph/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the rating analysis
as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "tvgraph": {
        "command": "tvgraph",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_ratings   Trendline statistics from a list of season ratings
  - analyze_file      Trendline statistics from an episode file on disk`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:  "manifest",
				Usage: "Print the MCP registry manifest (server.json)",
				Action: func(c *cli.Context) error {
					data, err := mcpserver.GenerateManifest(version)
					if err != nil {
						return err
					}
					_, err = c.App.Writer.Write(append(data, '\n'))
					return err
				},
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	// Logs go to stderr; stdout carries the protocol.
	server := mcpserver.NewServer(version, mcpserver.WithAnalyzer(e.cfg.SeasonAnalyzer(e.logger)))
	return server.Run(c.Context)
}
