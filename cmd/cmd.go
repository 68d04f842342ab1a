// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// tuiCommand returns the top-level TUI command. It is also the default action.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Action:  r.TUI,
	}
}

// suggestCommand prints search suggestions for a partial query
func suggestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Show search suggestions for a partial query",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags:     jsonFlags(),
		Action:    r.Suggest,
	}
}

// searchCommand searches for artists
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search for artists",
		Arguments: []cli.Argument{&cli.StringArg{Name: "query"}},
		Flags:     jsonFlags(),
		Action:    r.Search,
	}
}

// artistCommand lists every album track of an artist
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "artist",
		Usage:     "List the songs of an artist by channel id",
		Arguments: []cli.Argument{&cli.StringArg{Name: "channel-id"}},
		Flags: append(jsonFlags(),
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, csv or markdown",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write to a file instead of stdout",
			},
		),
		Action: r.Artist,
	}
}

// setupCommand handles setup operations for configuration, database and authentication.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config.toml from the built-in template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:   "database",
				Usage:  "Initialize the media cache database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "headers",
				Usage: "Authenticate with headers copied from a browser request",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command from browser DevTools (Copy as cURL)",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command",
					},
					&cli.StringFlag{
						Name:  "output",
						Usage: "Output path for the headers file (default: catalogue.headers_path)",
					},
				},
				Action: r.SetupHeaders,
			},
			{
				Name:   "oauth",
				Usage:  "Authenticate with the OAuth device flow",
				Action: r.SetupOAuth,
			},
		},
	}
}

// cacheCommand inspects and trims the media cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect the downloaded media cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached songs, most recently played first",
				Flags: append(jsonFlags(),
					&cli.StringFlag{
						Name:  "artist",
						Usage: "Only list songs by this artist",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of songs to list",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Output format: text or csv",
						Value:   "text",
					},
				),
				Action: r.CacheList,
			},
			{
				Name:  "prune",
				Usage: "Remove songs not played within cache.max_age_days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "days",
						Usage: "Override cache.max_age_days",
					},
				},
				Action: r.CachePrune,
			},
		},
	}
}
