// Package cli provides the command-line interface for humanflow.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "driver",
		Aliases: []string{"d"},
		Usage:   "Driver to use (appium, mock)",
		Value:   "appium",
		EnvVars: []string{"HUMANFLOW_DRIVER"},
	},
	&cli.StringFlag{
		Name:    "appium-url",
		Usage:   "Appium server URL",
		EnvVars: []string{"APPIUM_URL"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"HUMANFLOW_VERBOSE"},
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "humanflow",
		Usage:   "Human-paced flow runner for mobile apps",
		Version: Version,
		Description: `Humanflow executes flow files against a device with humanized
timing between actions.

Examples:
  humanflow run flow.yaml
  humanflow run flow.yaml -e USER=test -e PASS=secret
  humanflow --driver mock run flow.yaml`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			runCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
