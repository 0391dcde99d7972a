package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gridgrad/internal/logging"
	"gridgrad/internal/models"
	"gridgrad/pkg/config"
	"gridgrad/pkg/reconstruction"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

type options struct {
	dataFile   string
	outDir     string
	configPath string
	plotDir    string
	plotAxes   []string
	workers    int
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gridgrad",
		Short: "Compute per-axis gradients of a sparse 3D grid",
		Long: `gridgrad loads x y z value samples, rebuilds the full cuboid spanned by
their coordinates, fills missing cells with the average of their up to 6
neighbours and writes the finite-difference gradient along each axis to
dfx_out.txt, dfy_out.txt and dfz_out.txt in the output directory.

The run fails without writing anything if a missing cell has no valued
neighbour when it is visited.`,
		Example:      "  gridgrad --data-file lattice3x3x3-linear.txt --out-dir out",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGradients(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.dataFile, "data-file", "", "filename with data in format x y z value")
	flags.StringVar(&opts.outDir, "out-dir", "", "output dir")
	flags.StringVar(&opts.configPath, "config", "gridgrad.yaml", "YAML configuration file (defaults are used if it does not exist)")
	flags.StringVar(&opts.plotDir, "plot-dir", "", "render gradient slices as PNG heat maps into this directory")
	flags.StringSliceVar(&opts.plotAxes, "plot-axis", nil, "axes to slice each gradient along when plotting (default: the gradient's own axis)")
	flags.IntVar(&opts.workers, "workers", 0, "number of axis gradients computed at once (overrides config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("data-file")
	_ = cmd.MarkFlagRequired("out-dir")

	cmd.AddCommand(newInitConfigCmd())
	return cmd
}

func newInitConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-config PATH",
		Short: "Write a default configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.CreateDefaultConfigFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Default configuration written to %s\n", args[0])
			return nil
		},
	}
}

func runGradients(cmd *cobra.Command, opts *options) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Processing.Workers = opts.workers
	}
	if flags.Changed("verbose") {
		cfg.Output.Verbose = opts.verbose
	}

	logger, err := logging.New(cfg.Output.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	dataFile, err := expandHome(opts.dataFile)
	if err != nil {
		return err
	}

	plotAxes := make([]models.Axis, 0, len(opts.plotAxes))
	for _, s := range opts.plotAxes {
		axis, err := models.ParseAxis(s)
		if err != nil {
			return err
		}
		plotAxes = append(plotAxes, axis)
	}

	plotDir := opts.plotDir
	if plotDir == "" && cfg.Output.Plot {
		plotDir = filepath.Join(opts.outDir, cfg.Output.PlotDir)
	}

	params := &reconstruction.Params{
		DataFile:    dataFile,
		OutputDir:   opts.outDir,
		OutputFiles: [3]string{cfg.Output.Files.X, cfg.Output.Files.Y, cfg.Output.Files.Z},
		Workers:     cfg.Processing.Workers,
		ValueBits:   cfg.Processing.ValueBits,
		PlotDir:     plotDir,
		PlotAxes:    plotAxes,
		Logger:      logger,
	}

	logger.Info("Running file", zap.String("file", dataFile))
	start := time.Now()
	r := reconstruction.NewReconstructor(params)
	if err := r.Process(cmd.Context()); err != nil {
		return err
	}

	res := r.Result()
	logger.Info("done",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("filled", res.Filled),
		zap.Strings("files", res.Files[:]))
	return nil
}

// expandHome replaces a leading "~" with the user's home directory
func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand %s: %w", path, err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
