package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dharmasatrya/flyhigh/internal/conversation"
	"github.com/dharmasatrya/flyhigh/internal/models"
	"github.com/dharmasatrya/flyhigh/pkg/currency"
)

func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "from",
			Aliases: []string{"o"},
			Usage:   "Origin city or airport (defaults to DEFAULT_ORIGIN)",
		},
		&cli.StringFlag{
			Name:    "to",
			Aliases: []string{"d"},
			Usage:   "Destination city or airport",
		},
		&cli.StringFlag{
			Name:  "dates",
			Value: "next week",
			Usage: "Travel dates, e.g. \"25/12/2026\" or \"1 June to 8 June\"",
		},
		&cli.IntFlag{
			Name:    "passengers",
			Aliases: []string{"n"},
			Value:   1,
			Usage:   "Number of adult passengers",
		},
		&cli.StringFlag{
			Name:  "class",
			Value: models.DefaultFlightClass,
			Usage: "Travel class (economy, premium economy, business, first)",
		},
	}
}

func queryFromFlags(c *cli.Context, defaultOrigin string) models.StructuredQuery {
	origin := c.String("from")
	if origin == "" {
		origin = defaultOrigin
	}
	return models.StructuredQuery{
		Origin:      origin,
		Destination: c.String("to"),
		Dates:       c.String("dates"),
		Passengers:  c.Int("passengers"),
		FlightClass: c.String("class"),
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Run one live search and print the result",
		Flags: append(queryFlags(),
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Free-form request parsed by the AI model instead of --from/--to",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format (text, json)",
			},
		),
		Action: func(c *cli.Context) error {
			a, err := loadApp(c)
			if err != nil {
				return err
			}
			defer a.Close()

			q := queryFromFlags(c, a.Config.DefaultOrigin)
			if free := strings.TrimSpace(c.String("query")); free != "" {
				parsed, err := a.LLM.ParseQuery(c.Context, free)
				if err != nil {
					return explain(err)
				}
				q = *parsed
			}

			result, err := a.Orchestrator.Search(c.Context, q)
			if err != nil {
				return explain(err)
			}

			if c.String("format") == "json" {
				return printJSON(c.App.Writer, result)
			}
			printResult(c.App.Writer, result)
			return nil
		},
	}
}

func urlCommand() *cli.Command {
	return &cli.Command{
		Name:  "url",
		Usage: "Print the provider search link without fetching it",
		Flags: queryFlags(),
		Action: func(c *cli.Context) error {
			a, err := loadApp(c)
			if err != nil {
				return err
			}
			defer a.Close()

			built, err := a.Builder.Build(queryFromFlags(c, a.Config.DefaultOrigin))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, built.URL)
			return nil
		},
	}
}

func resolveDateCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve-date",
		Usage:     "Show the calendar date a phrase resolves to",
		ArgsUsage: "<expression>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "explain",
				Usage: "Also print which parsing strategy matched",
			},
		},
		Action: func(c *cli.Context) error {
			expr := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(expr) == "" {
				return cli.Exit("a date expression is required", 2)
			}

			a, err := loadApp(c)
			if err != nil {
				return err
			}
			defer a.Close()

			date, strategy, ok := a.Resolver.Explain(expr)
			if !ok {
				return &models.InvalidDateError{Expression: expr}
			}
			if c.Bool("explain") {
				fmt.Fprintf(c.App.Writer, "%s\t(%s)\n", date, strategy)
				return nil
			}
			fmt.Fprintln(c.App.Writer, date)
			return nil
		},
	}
}

func chatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Plan a trip in conversation; the search runs once all details are known",
		Action: func(c *cli.Context) error {
			a, err := loadApp(c)
			if err != nil {
				return err
			}
			defer a.Close()

			session := a.Sessions.Create()
			out := c.App.Writer
			fmt.Fprintln(out, "assistant: Where would you like to fly? (Ctrl-D to quit)")

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Fprint(out, "you: ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				resp, err := session.Send(c.Context, line)
				if err != nil {
					fmt.Fprintf(out, "assistant: %v\n", explain(err))
					if session.State() == conversation.StateComplete {
						return nil
					}
					continue
				}

				fmt.Fprintf(out, "assistant: %s\n", resp.Reply)
				if resp.Result != nil {
					fmt.Fprintf(out, "assistant: %s\n", resp.Summary)
					fmt.Fprintf(out, "link: %s\n", resp.Result.RedirectURL)
					return nil
				}
			}
		},
	}
}

// explain swaps upstream model failures for user guidance.
func explain(err error) error {
	if guidance, ok := conversation.Guidance(err); ok {
		return fmt.Errorf("%s", guidance)
	}
	return err
}

func printResult(w io.Writer, result *models.SearchResult) {
	when := result.DepartureDate
	if result.ReturnDate != nil {
		when += " to " + *result.ReturnDate
	}
	fmt.Fprintf(w, "Dates:    %s\n", when)
	if result.CheapestPrice != nil {
		fmt.Fprintf(w, "Cheapest: %s\n", currency.FormatGBP(*result.CheapestPrice))
	} else {
		fmt.Fprintln(w, "Cheapest: no price found on the results page")
	}
	fmt.Fprintf(w, "Link:     %s\n", result.RedirectURL)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
