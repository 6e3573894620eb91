// Package cmd - fetch command
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"virgin-history/adapters/virgin"
	"virgin-history/core/history"
	"virgin-history/core/output"
	"virgin-history/core/window"
	"virgin-history/internal/config"
	"virgin-history/internal/errors"
	"virgin-history/internal/logging"
)

var (
	fetchMonth    string
	fetchYear     int
	fetchLast     string
	fetchFrom     string
	fetchTo       string
	fetchFormat   string
	fetchOut      string
	fetchUsername string
	fetchPassword string
	noInteractive bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <number>",
	Short: "Download usage history for a subscriber number",
	Long: `Download call/SMS/data usage records for one subscriber number.

Exactly one range selector is required: --month, --year, --last or
--from/--to. The records are sorted by timestamp and rendered as an
aligned table or as CSV suitable for archival and later merging.

Examples:
  virgin-history fetch 48123456789 --last month
  virgin-history fetch 48123456789 --month 2023-02
  virgin-history fetch 48123456789 --year 2022 --format csv --output 2022.csv
  virgin-history fetch 48123456789 --from 2023-01-10 --to 2023-03-20`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchMonth, "month", "", "calendar month to fetch (YYYY-MM)")
	fetchCmd.Flags().IntVar(&fetchYear, "year", 0, "calendar year to fetch")
	fetchCmd.Flags().StringVar(&fetchLast, "last", "", "trailing range to fetch (month, year)")
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "range start (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "range end (YYYY-MM-DD, inclusive)")
	fetchCmd.Flags().StringVarP(&fetchFormat, "format", "f", "", "output format (table, csv)")
	fetchCmd.Flags().StringVarP(&fetchOut, "output", "o", "", "write output to file instead of stdout")
	fetchCmd.Flags().StringVarP(&fetchUsername, "username", "u", "", "portal username")
	fetchCmd.Flags().StringVarP(&fetchPassword, "password", "p", "", "portal password")
	fetchCmd.Flags().BoolVarP(&noInteractive, "no-interactive", "n", false, "never prompt for credentials")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg := config.Get()
	subscriber := args[0]

	rng, err := resolveRange(time.Now().UTC())
	if err != nil {
		return err
	}

	username, password, err := resolveCredentials(cfg)
	if err != nil {
		return err
	}

	client, err := virgin.NewClient(virgin.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: time.Duration(cfg.API.TimeoutSeconds) * time.Second,
	})
	if err != nil {
		return err
	}

	if err := client.Login(ctx, username, password); err != nil {
		return err
	}

	logging.Info("fetching history",
		zap.String("subscriber", subscriber),
		zap.Time("start", rng.Start),
		zap.Time("end", rng.End))

	records, err := history.Fetch(ctx, client, subscriber, rng, cfg.API.PageSize, cfg.API.WindowDays)
	if err != nil {
		return err
	}

	format := output.Format(fetchFormat)
	if fetchFormat == "" {
		format = output.Format(cfg.Output.DefaultFormat)
	}
	formatter, err := output.New(format)
	if err != nil {
		return err
	}

	out := os.Stdout
	if fetchOut != "" {
		f, err := os.Create(fetchOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	if err := formatter.Render(out, records); err != nil {
		return err
	}
	if fetchOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(records), fetchOut)
	}
	return nil
}

// resolveRange derives the requested date range from the mutually
// exclusive range flags.
func resolveRange(now time.Time) (window.Window, error) {
	selectors := 0
	for _, set := range []bool{fetchMonth != "", fetchYear != 0, fetchLast != "", fetchFrom != "" || fetchTo != ""} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		return window.Window{}, errors.Input("exactly one of --month, --year, --last or --from/--to is required")
	}

	switch {
	case fetchMonth != "":
		t, err := time.ParseInLocation("2006-01", fetchMonth, time.UTC)
		if err != nil {
			return window.Window{}, errors.Newf(errors.TypeInput, "invalid month %q, want YYYY-MM", fetchMonth)
		}
		return window.MonthRange(t.Year(), t.Month()), nil

	case fetchYear != 0:
		return window.YearRange(fetchYear), nil

	case fetchLast != "":
		switch fetchLast {
		case "month":
			return window.LastMonth(now), nil
		case "year":
			return window.LastYear(now), nil
		default:
			return window.Window{}, errors.Newf(errors.TypeInput, "invalid --last %q, want month or year", fetchLast)
		}

	default:
		if fetchFrom == "" || fetchTo == "" {
			return window.Window{}, errors.Input("--from and --to must be given together")
		}
		start, err := time.ParseInLocation("2006-01-02", fetchFrom, time.UTC)
		if err != nil {
			return window.Window{}, errors.Newf(errors.TypeInput, "invalid --from %q, want YYYY-MM-DD", fetchFrom)
		}
		end, err := time.ParseInLocation("2006-01-02", fetchTo, time.UTC)
		if err != nil {
			return window.Window{}, errors.Newf(errors.TypeInput, "invalid --to %q, want YYYY-MM-DD", fetchTo)
		}
		// --to names a day; the range covers it entirely.
		return window.RangeOf(start, end.Add(24*time.Hour-time.Second))
	}
}
