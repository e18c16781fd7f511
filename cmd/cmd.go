// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   "config.toml",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

// setupCommand handles setup operations for the database and configuration file.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write the default configuration file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Overwrite an existing file",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// serveCommand starts the upload server and web player.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the web player and upload endpoint",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the player in a browser once listening",
			},
		},
		Action: r.Serve,
	}
}

// playCommand launches the terminal player.
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "play",
		Aliases: []string{"tui"},
		Usage:   "Launch the interactive terminal player",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name:      "track",
				UsageText: "Path or URL to load immediately",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the player owns the terminal",
				Value: "./tmp/playdeck-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// sessionCommand inspects and edits the persisted session.
func sessionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "session",
		Usage: "Inspect and manage the persisted session",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print the current track, volume, favorites and queue",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "List stored entries as-is",
					},
				},
				Action: r.SessionShow,
			},
			{
				Name:  "export",
				Usage: "Export favorites or the queue",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (m3u, csv, text, json)",
						Value:   "m3u",
					},
					&cli.StringFlag{
						Name:  "list",
						Usage: "Which list to export (favorites, queue)",
						Value: listFavorites,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (default: stdout)",
					},
				},
				Action: r.SessionExport,
			},
			{
				Name:  "import",
				Usage: "Append tracks from an M3U playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "file",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "list",
						Usage: "Which list to append to (favorites, queue)",
						Value: listQueue,
					},
				},
				Action: r.SessionImport,
			},
			{
				Name:  "reset",
				Usage: "Restore the default session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "purge",
						Usage: "Delete stored entries instead of writing defaults",
					},
				},
				Action: r.SessionReset,
			},
		},
	}
}
