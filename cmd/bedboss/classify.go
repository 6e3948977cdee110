package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/databio/bedboss-sub000/pkg/bedboss"
)

type classifyResult struct {
	Path string `json:"path"`
	*bedboss.Classification
}

func newClassifyCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "classify <file>...",
		Short: "Detect the BED dialect and compliance of interval files",
		Long: `Detect which standardized dialect each file follows (UCSC BED, ENCODE
narrowPeak, broadPeak, gappedPeak, RNA elements or generic BED-like) and how
many of its columns follow the BED schema.

Example:
  bedboss classify peaks.narrowPeak regions.bed.gz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.pipeline(nil)
			if err != nil {
				return err
			}
			allowPartial := p.AllowPartial && !strict

			results := make([]classifyResult, 0, len(args))
			for _, path := range args {
				out, err := p.Classifier.ClassifyFile(path, allowPartial)
				if err != nil {
					return fmt.Errorf("classifying %s: %w", path, err)
				}
				results = append(results, classifyResult{Path: path, Classification: out})
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), results)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tCOMPLIANCE\tFORMAT")
			for _, r := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Path, r.BedCompliance, r.DataFormat)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail on unparseable files instead of reporting unknown_data_format")
	return cmd
}

func newFootprintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "footprint <file>",
		Short: "Print the chromosome footprint of an interval file",
		Long: `Print, for each chromosome named in the file, the largest end coordinate
observed on it. Plain and gzip-compressed files are accepted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := bedboss.ExtractFootprint(args[0])
			if err != nil {
				return err
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), fp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range fp.Names() {
				end, _ := fp.Get(name)
				fmt.Fprintf(tw, "%s\t%d\n", name, end)
			}
			return tw.Flush()
		},
	}
}
