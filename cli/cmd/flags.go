// Package cmd provides the commands of the bcoskema binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags.
var (
	// FormatFlag selects report format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Report format: json, table, yaml",
	}

	// ConfigFlag points at a bcoskema.yaml file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to config file (default: ./bcoskema.yaml when present)",
		EnvVars: []string{"BCOSKEMA_CONFIG"},
	}

	// LogLevelFlag sets the log level: debug, info, warn, error.
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error",
	}

	// LangFlag selects the message language: en, ja.
	LangFlag = &cli.StringFlag{
		Name:  "lang",
		Usage: "Message language: en, ja",
	}
)

// GlobalFlags returns the flags accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{ConfigFlag, LogLevelFlag, LangFlag}
}

// App assembles the command tree.
func App(version string) *cli.App {
	return &cli.App{
		Name:    "bcoskema",
		Usage:   "Validate and build BioCompute Objects",
		Version: version,
		Flags:   GlobalFlags(),
		Commands: []*cli.Command{
			ValidateCommand(),
			BuildCommand(),
			ETagCommand(),
			SchemaCommand(),
		},
	}
}
