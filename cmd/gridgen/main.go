package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gridgrad/internal/logging"
	"gridgrad/pkg/dataset"
	"gridgrad/pkg/generator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		minXYZ       string
		maxXYZ       string
		missingCells string
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "gridgen",
		Short: "Generate i j k value cells numbered in order of creation",
		Long: `gridgen prints every cell of the box [min, max) as "i j k value" lines,
where value is the sequential number of the cell in i, j, k order.

Cells listed in --missing-cells are skipped to simulate missing data in real
experiments; they still consume a sequence number.`,
		Example:      "  gridgen --min-xyz 0,0,0 --max-xyz 3,3,3 --missing-cells 1,1,1",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New(verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			return run(cmd.OutOrStdout(), logger, minXYZ, maxXYZ, missingCells)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&minXYZ, "min-xyz", "", "comma-separated minimum values for i,j,k")
	flags.StringVar(&maxXYZ, "max-xyz", "", "comma-separated maximum values for i,j,k (exclusive)")
	flags.StringVar(&missingCells, "missing-cells", "", "comma-separated list of cells to skip, e.g. i1,j1,k1,i2,j2,k2")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("min-xyz")
	_ = cmd.MarkFlagRequired("max-xyz")

	return cmd
}

// run validates every argument before writing anything to out
func run(out io.Writer, logger *zap.Logger, minXYZ, maxXYZ, missingCells string) error {
	excluded, err := generator.ParseExcluded(missingCells)
	if err != nil {
		return err
	}
	mins, err := generator.ParseTriple(minXYZ)
	if err != nil {
		return fmt.Errorf("--min-xyz: %w", err)
	}
	maxs, err := generator.ParseTriple(maxXYZ)
	if err != nil {
		return fmt.Errorf("--max-xyz: %w", err)
	}

	samples := generator.Generate(mins, maxs, excluded)
	logger.Debug("Generated cells",
		zap.Ints("min", mins[:]),
		zap.Ints("max", maxs[:]),
		zap.Int("excluded", len(excluded)),
		zap.Int("emitted", len(samples)))

	return dataset.WriteSamples(out, samples, 64)
}
