package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/databio/bedboss-sub000/pkg/bedboss"
)

func newCompatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compat <file>",
		Short: "Score an interval file against every registered genome",
		Long: `Compare the chromosome footprint of a file with every genome in the
registry and print the statistics, points and tier of each comparison.
Tier 1 is an excellent match, tier 4 a poor one.

Example:
  bedboss compat --registry genomes.yaml peaks.bed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			p, err := a.pipeline(reg)
			if err != nil {
				return err
			}

			fp, err := bedboss.ExtractFootprint(args[0])
			if err != nil {
				return err
			}
			report, err := p.Validator.DetermineCompatibility(cmd.Context(), fp, reg.Models(), args[0])
			if err != nil {
				return err
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), report)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GENOME\tTIER\tPOINTS\tXS\tOOBR\tSEQUENCE_FIT")
			for _, r := range report.Results {
				s := r.Stats
				fmt.Fprintf(tw, "%s\t%d\t%d\t%.4f\t%s\t%s\n",
					r.Genome, r.Tier(), s.Compatibility.AssignedPoints, s.ChromNameStats.XS,
					optional(s.ChromLengthStats.OOBR), optional(s.SequenceFitStats.SequenceFit))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if best, ok := report.Predict(); ok {
				fmt.Fprintf(cmd.OutOrStdout(), "\npredicted genome: %s\n", best.Genome)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "\npredicted genome: none")
			}
			return nil
		},
	}
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *v)
}

func newPredictCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <file>...",
		Short: "Classify interval files and predict their reference genome",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}
			p, err := a.pipeline(reg)
			if err != nil {
				return err
			}

			results := make([]*bedboss.Result, 0, len(args))
			for _, path := range args {
				res, err := p.Process(cmd.Context(), path)
				if err != nil {
					return err
				}
				results = append(results, res)
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), results)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tCOMPLIANCE\tFORMAT\tGENOME")
			for _, r := range results {
				genome := r.Prediction
				if genome == "" {
					genome = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					r.Path, r.Classification.BedCompliance, r.Classification.DataFormat, genome)
			}
			return tw.Flush()
		},
	}
}
