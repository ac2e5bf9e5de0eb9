// flyhigh runs the flight search pipeline from the terminal.
//
// Usage:
//
//	flyhigh search --to Chennai --dates "next week"
//	flyhigh search --query "two business seats to Paris in a week in June"
//	flyhigh resolve-date "25th December"
//	flyhigh chat
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dharmasatrya/flyhigh/internal/app"
	"github.com/dharmasatrya/flyhigh/internal/config"
)

func main() {
	cliApp := &cli.App{
		Name:  "flyhigh",
		Usage: "Search live flight prices by phrase or conversation",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "timezone",
				Usage:   "Timezone that decides what \"today\" is",
				EnvVars: []string{"APP_TIMEZONE"},
			},
		},
		Commands: []*cli.Command{
			searchCommand(),
			urlCommand(),
			resolveDateCommand(),
			chatCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadApp builds the pipeline from the environment, letting global flags override it.
func loadApp(c *cli.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if tz := c.String("timezone"); tz != "" {
		cfg.Timezone = tz
	}
	return app.New(cfg)
}
