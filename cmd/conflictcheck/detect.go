package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gitrdm/gokanconflict/pkg/conflict"
	"github.com/gitrdm/gokanconflict/pkg/fd"
	"github.com/gitrdm/gokanconflict/pkg/testmodel"
)

type detectFlags struct {
	model       string
	config      string
	hittingSets bool
	workers     int
	verbose     bool
}

func newDetectCmd() *cobra.Command {
	var flags detectFlags
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Report missing invalid tuples of a test model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDetect(cmd, flags)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.model, "model", "m", "", "test model YAML file (required)")
	f.StringVarP(&flags.config, "config", "c", "", "configuration YAML file (default: everything enabled)")
	f.BoolVar(&flags.hittingSets, "hitting-sets", false, "also print the minimal repairs covering all findings")
	f.IntVarP(&flags.workers, "workers", "w", 1, "parallel detection workers, 0 for one per CPU")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func loadConfiguration(path string) (conflict.Configuration, error) {
	if path == "" {
		return conflict.DefaultConfiguration(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return conflict.Configuration{}, err
	}
	defer f.Close()
	return conflict.LoadConfiguration(f)
}

func runDetect(cmd *cobra.Command, flags detectFlags) error {
	logger, err := newLogger(flags.verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	model, err := testmodel.LoadFile(flags.model)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	cfg, err := loadConfiguration(flags.config)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	manager, err := conflict.NewManager(cfg, model,
		conflict.WithLogger(logger),
		conflict.WithSolverMonitor(fd.NewSolverMonitor()))
	if err != nil {
		return err
	}

	var findings []conflict.MissingInvalidTuple
	if flags.workers == 1 {
		findings, err = manager.DetectMissingInvalidTuples(cmd.Context())
	} else {
		findings, err = manager.DetectMissingInvalidTuplesParallel(cmd.Context(), flags.workers)
	}
	if err != nil {
		return fmt.Errorf("detect: %w", err)
	}

	out := cmd.OutOrStdout()
	printFindings(out, findings)

	if flags.hittingSets && len(findings) > 0 {
		sets, err := conflict.NewHittingSetBuilder(model, conflict.WithLogger(logger)).ComputeMinimalDiagnosisHittingSets(findings)
		if err != nil {
			return fmt.Errorf("hitting sets: %w", err)
		}
		fmt.Fprintf(out, "\n%d minimal repair(s):\n", len(sets))
		for _, s := range sets {
			fmt.Fprintf(out, "  %s\n", s)
		}
	}

	if cfg.ShouldAbort && len(findings) > 0 {
		return errAbort
	}
	return nil
}

func printFindings(w io.Writer, findings []conflict.MissingInvalidTuple) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "no missing invalid tuples")
		return
	}
	fmt.Fprintf(w, "%d missing invalid tuple(s):\n", len(findings))
	for _, f := range findings {
		fmt.Fprintf(w, "  %s\n", f)
	}
}
