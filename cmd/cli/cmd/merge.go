// Package cmd - merge command
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"virgin-history/core/output"
	"virgin-history/core/reconcile"
	"virgin-history/core/types"
	"virgin-history/internal/errors"
)

var (
	mergeOut   string
	mergeDrift []string
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge <export.csv>...",
	Short: "Merge archived CSV exports into one deduplicated report",
	Long: `Merge two or more archived CSV exports, possibly overlapping in time,
into one canonical report with a single record per event.

Duplicate events keep the largest observed quantity. Differing
quantities on a category other than data usage abort the merge: such a
mismatch means inconsistent inputs, not normal snapshot drift.

Examples:
  virgin-history merge january.csv february.csv
  virgin-history merge old.csv redownload.csv --output merged.csv
  virgin-history merge a.csv b.csv --drift-category DATA --drift-category MMS`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVarP(&mergeOut, "output", "o", "", "write output to file instead of stdout")
	mergeCmd.Flags().StringArrayVar(&mergeDrift, "drift-category", nil,
		"category tolerating quantity drift between snapshots (default DATA)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	collections := make([][]types.Record, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(errors.TypeInput, err, "cannot open export %s", path)
		}
		records, err := output.ReadCSV(f)
		f.Close()
		if err != nil {
			return errors.Wrapf(errors.TypeDecode, err, "cannot decode export %s", path)
		}
		collections = append(collections, records)
	}

	policy := reconcile.DefaultDriftPolicy
	if len(mergeDrift) > 0 {
		policy = reconcile.DriftCategories(mergeDrift...)
	}

	merged, err := reconcile.Merge(policy, collections...)
	if err != nil {
		return err
	}

	out := os.Stdout
	if mergeOut != "" {
		f, err := os.Create(mergeOut)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	formatter := &output.CSVFormatter{}
	if err := formatter.Render(out, merged); err != nil {
		return err
	}
	if mergeOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %d records to %s\n", len(merged), mergeOut)
	}
	return nil
}
