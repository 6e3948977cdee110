package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/databio/bedboss-sub000/internal/config"
	"github.com/databio/bedboss-sub000/pkg/bedboss"
)

// app holds the state shared by every subcommand.
type app struct {
	cfgFile        string
	logLevel       string
	jsonOut        bool
	profileMode    string
	registryPath   string
	chromSizesDir  string
	excludedRanges string
	exclude        []string

	cfg     *config.Config
	log     *logrus.Logger
	profile interface{ Stop() }
}

func newRootCmd() *cobra.Command {
	a := &app{log: logrus.StandardLogger()}

	rootCmd := &cobra.Command{
		Use:   "bedboss",
		Short: "Classify interval files and check reference genome compatibility",
		Long: `bedboss inspects BED and ENCODE peak files.

It reports which standardized dialect a file follows together with its
bed{n}+{m} compliance, extracts the chromosome footprint, and rates the
file against a registry of reference genome models.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.profile != nil {
				a.profile.Stop()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "info", "debug, info, warn or error")
	flags.BoolVar(&a.jsonOut, "json", false, "print JSON output")
	flags.StringVar(&a.profileMode, "profile", "", "write a cpu or mem profile to the working directory")
	flags.StringVarP(&a.registryPath, "registry", "r", "", "YAML genome registry (overrides registry.path)")
	flags.StringVar(&a.chromSizesDir, "chrom-sizes", "", "directory of <alias>.chrom.sizes files (overrides registry.chrom_sizes)")
	flags.StringVar(&a.excludedRanges, "excluded-ranges", "", "BED4 excluded-ranges database (overrides excluded_ranges.path)")
	flags.StringSliceVar(&a.exclude, "exclude", nil, "genome aliases to leave out (overrides compatibility.exclude)")

	rootCmd.AddCommand(
		newClassifyCmd(a),
		newFootprintCmd(a),
		newCompatCmd(a),
		newPredictCmd(a),
		newRegistryCmd(a),
		newStatsCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("registry") {
		cfg.Registry.Path = a.registryPath
	}
	if flags.Changed("chrom-sizes") {
		cfg.Registry.ChromSizes = a.chromSizesDir
	}
	if flags.Changed("excluded-ranges") {
		cfg.ExcludedRanges.Path = a.excludedRanges
	}
	if flags.Changed("exclude") {
		cfg.Compatibility.Exclude = a.exclude
	}

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log.SetLevel(level)
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	switch a.profileMode {
	case "":
	case "cpu":
		a.profile = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
	case "mem":
		a.profile = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
	default:
		return fmt.Errorf("unknown profile mode %q", a.profileMode)
	}

	a.cfg = cfg
	return nil
}

var errNoRegistry = errors.New("no genome registry configured: use --registry or --chrom-sizes")

// registry loads the configured genome registry. A YAML registry takes
// precedence over a chrom.sizes directory.
func (a *app) registry() (*bedboss.Registry, error) {
	switch {
	case a.cfg.Registry.Path != "":
		return bedboss.LoadRegistry(a.cfg.Registry.Path)
	case a.cfg.Registry.ChromSizes != "":
		return bedboss.LoadChromSizesDir(a.cfg.Registry.ChromSizes)
	default:
		return nil, errNoRegistry
	}
}

// pipeline builds a pipeline from the configuration. reg may be nil.
func (a *app) pipeline(reg *bedboss.Registry) (*bedboss.Pipeline, error) {
	p := bedboss.NewPipeline(reg)
	p.Logger = a.log
	p.AllowPartial = a.cfg.Classifier.AllowPartial
	p.Classifier.Options = a.cfg.Classifier.TableOptions()
	p.Classifier.Logger = a.log
	p.Validator.Exclude = a.cfg.Compatibility.Exclude
	p.Validator.Workers = a.cfg.Compatibility.Workers
	p.Validator.Logger = a.log

	if path := a.cfg.ExcludedRanges.Path; path != "" {
		x, err := bedboss.LoadExcludedRanges(path)
		if err != nil {
			return nil, err
		}
		a.log.WithFields(logrus.Fields{
			"path":    path,
			"ranges":  x.Len(),
			"sources": x.Sources(),
		}).Debug("loaded excluded ranges")
		p.Validator.Overlaps = x
	}
	return p, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
