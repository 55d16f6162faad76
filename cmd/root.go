package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"mapsize/internal/config"
	"mapsize/internal/errors"
)

// newRootCmd builds the root command around a fresh Config so that each
// invocation, including those made from tests, starts from defaults.
func newRootCmd() *cobra.Command {
	cfg := &config.Config{}

	rootCmd := &cobra.Command{
		Use:   "mapsize [options] [map-filename]",
		Short: "Report how much image size each object file contributes",
		Long: `Mapsize reads a linker map file and totals the size contributed by each
object file, falling back to the section name for lines that name no file.
Sections listed after /DISCARD/ are not part of the image and are ignored.
The map file defaults to ` + config.DefaultMapFile + ` in the current directory.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMapsize(cmd, args, cfg)
		},
	}

	flags := rootCmd.Flags()
	flags.BoolVarP(&cfg.Hex, "hex", "x", false, "Print sizes in hex")
	flags.VarP((*formatFlag)(&cfg.Format), "format", "f", "Report format (text, json, csv)")
	flags.StringSliceVar(&cfg.Include, "include", []string{}, "Only report keys matching these glob patterns (repeatable)")
	flags.StringSliceVar(&cfg.Exclude, "exclude", []string{}, "Do not report keys matching these glob patterns (repeatable)")
	flags.StringVarP(&cfg.ConfigFile, "config", "c", "", "YAML file with default options")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log scan statistics to stderr")
	flags.BoolVar(&cfg.Debug, "debug", false, "Log every counted record to stderr")
	flags.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Suppress warnings")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.MarkFlagsMutuallyExclusive("debug", "quiet")

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if te, ok := err.(interface{ Unwrap() error }); ok && te.Unwrap() != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %s\n", err.Error(), te.Unwrap().Error())
		} else {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		}
		os.Exit(1)
	}
}

func runMapsize(cmd *cobra.Command, args []string, cfg *config.Config) error {
	// Arguments parsed fine; later failures are not usage errors.
	cmd.SilenceUsage = true

	if len(args) > 0 {
		cfg.MapFile = args[0]
	}

	if cfg.ConfigFile != "" {
		fileCfg, err := config.LoadFile(cfg.ConfigFile)
		if err != nil {
			return err
		}
		cfg.Merge(fileCfg, cmd.Flags().Changed)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	return executeMapsize(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

type formatFlag config.Format

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string {
	return string(*f)
}

func (f *formatFlag) Set(v string) error {
	switch config.Format(strings.ToLower(v)) {
	case config.FormatText, config.FormatJSON, config.FormatCSV:
		*f = formatFlag(strings.ToLower(v))
		return nil
	default:
		return errors.NewConfigError("must be 'text', 'json' or 'csv'", nil)
	}
}

func (f *formatFlag) Type() string {
	return "string"
}
