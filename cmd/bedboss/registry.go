package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/databio/bedboss-sub000/pkg/bedboss"
)

type genomeEntry struct {
	Alias       string `json:"alias"`
	Digest      string `json:"digest"`
	Chromosomes int    `json:"chromosomes"`
	TotalLength int64  `json:"total_length"`
}

func newRegistryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "List or import genome models",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the registered genomes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry()
			if err != nil {
				return err
			}

			entries := make([]genomeEntry, 0, reg.Len())
			for _, m := range reg.Models() {
				entries = append(entries, genomeEntry{
					Alias:       m.Alias(),
					Digest:      m.Digest(),
					Chromosomes: m.Len(),
					TotalLength: m.TotalLength(),
				})
			}

			if a.jsonOut {
				return writeJSON(cmd.OutOrStdout(), entries)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ALIAS\tCHROMOSOMES\tTOTAL_LENGTH\tDIGEST")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", e.Alias, e.Chromosomes, e.TotalLength, e.Digest)
			}
			return tw.Flush()
		},
	}

	var out string
	imp := &cobra.Command{
		Use:   "import <dir>",
		Short: "Build a YAML registry from a directory of chrom.sizes files",
		Long: `Read every <alias>.chrom.sizes file in a directory and write the
resulting genome models, with computed digests, to a YAML registry.

Example:
  bedboss registry import ./chrom_sizes --out genomes.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := out
			if dest == "" {
				dest = a.cfg.Registry.Path
			}
			if dest == "" {
				return errors.New("no output path: use --out or --registry")
			}

			reg, err := bedboss.LoadChromSizesDir(args[0])
			if err != nil {
				return err
			}
			if err := reg.SaveYAML(dest); err != nil {
				return err
			}

			a.log.WithField("path", dest).Infof("wrote %d genomes", reg.Len())
			return nil
		},
	}
	imp.Flags().StringVarP(&out, "out", "o", "", "registry file to write (defaults to registry.path)")

	cmd.AddCommand(list, imp)
	return cmd
}
