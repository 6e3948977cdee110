package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/databio/bedboss-sub000/internal/stats"
	"github.com/databio/bedboss-sub000/pkg/bedboss"
)

type statsOutput struct {
	Footprint *bedboss.FootprintStats   `json:"footprint"`
	Tiers     *bedboss.TierDistribution `json:"tiers,omitempty"`
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Summarize the chromosome footprint of an interval file",
		Long: `Summarize the per-chromosome spans of a file. When a genome registry is
configured, the distribution of compatibility tiers is printed as well.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := bedboss.ExtractFootprint(args[0])
			if err != nil {
				return err
			}
			summary, err := bedboss.Summarize(fp)
			if err != nil {
				return err
			}
			out := statsOutput{Footprint: summary}

			var report *bedboss.Report
			reg, err := a.registry()
			switch {
			case errors.Is(err, errNoRegistry):
			case err != nil:
				return err
			default:
				p, err := a.pipeline(reg)
				if err != nil {
					return err
				}
				report, err = p.Validator.DetermineCompatibility(cmd.Context(), fp, reg.Models(), args[0])
				if err != nil {
					return err
				}
				out.Tiers = bedboss.Tiers(report)
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), out)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, summary)
			if report == nil {
				return nil
			}
			fmt.Fprintln(w, out.Tiers)
			if hist, err := stats.NewFitHistogram(report, 10); err == nil {
				fmt.Fprint(w, hist)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), bedboss.Info())
		},
	}
}
