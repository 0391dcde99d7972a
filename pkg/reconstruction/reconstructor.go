package reconstruction

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"gridgrad/internal/models"
	"gridgrad/pkg/dataset"
	"gridgrad/pkg/gradient"
	"gridgrad/pkg/grid"
	"gridgrad/pkg/interpolation"
	"gridgrad/pkg/visualization"
)

// ErrInputNotFound is returned when the data file does not exist
var ErrInputNotFound = errors.New("reconstruction: file not found")

// DefaultOutputFiles are the gradient file names for the x, y and z axes
var DefaultOutputFiles = [3]string{"dfx_out.txt", "dfy_out.txt", "dfz_out.txt"}

// Params holds the reconstruction parameters
type Params struct {
	// DataFile holds whitespace-separated x y z value rows
	DataFile string

	// OutputDir receives one gradient file per axis. It is created if needed.
	OutputDir string

	// OutputFiles names the gradient file of each axis; empty entries use DefaultOutputFiles
	OutputFiles [3]string

	// Workers bounds how many axis gradients are computed at once
	Workers int

	// ValueBits selects 32- or 64-bit formatting of output values
	ValueBits int

	// PlotDir, when set, receives PNG heat maps of every gradient slice
	PlotDir string

	// PlotAxes lists the axes each gradient is sliced along. Empty slices
	// every gradient along its own axis.
	PlotAxes []models.Axis

	// Logger receives progress messages; nil disables logging
	Logger *zap.Logger
}

// Result summarises a completed run
type Result struct {
	// Ranges are the inferred per-axis ranges of the input
	Ranges [3]models.AxisRange

	// Samples is the number of distinct cells in the input
	Samples int

	// Missing is the number of cells absent from the input box
	Missing int

	// Filled is the number of missing cells filled from their neighbours
	Filled int

	// Stats describes the gradient along each axis
	Stats [3]gradient.Stats

	// Files are the paths of the written gradient files
	Files [3]string
}

// Reconstructor runs the gradient pipeline:
// 1. Loading the sparse samples
// 2. Inferring the axis ranges and building the dense box
// 3. Filling missing cells from their neighbours
// 4. Computing the gradient along each axis
// 5. Saving the gradient files
// 6. Optionally rendering gradient slices
type Reconstructor struct {
	params *Params
	logger *zap.Logger

	sparse models.Sparse
	dense  *grid.Grid
	grads  [3]*grid.Grid

	result Result
}

// NewReconstructor creates a new reconstructor instance with the provided parameters
func NewReconstructor(params *Params) *Reconstructor {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconstructor{
		params: params,
		logger: logger,
	}
}

// Process runs the complete pipeline. No output file is written unless every
// cell of the box has a value and all gradients were computed.
func (r *Reconstructor) Process(ctx context.Context) error {
	r.logger.Info("Step 1: Loading samples", zap.String("file", r.params.DataFile))
	if err := r.loadSamples(); err != nil {
		return err
	}

	r.logger.Info("Step 2: Building dense grid")
	if err := r.buildDense(); err != nil {
		return fmt.Errorf("failed to build dense grid: %w", err)
	}

	r.logger.Info("Step 3: Filling missing cells")
	if err := r.fillMissing(); err != nil {
		return err
	}

	r.logger.Info("Step 4: Calculating gradients along each axis",
		zap.Int("workers", r.params.Workers))
	if err := r.computeGradients(ctx); err != nil {
		return fmt.Errorf("failed to compute gradients: %w", err)
	}

	r.logger.Info("Step 5: Saving gradients", zap.String("dir", r.params.OutputDir))
	if err := r.saveGradients(); err != nil {
		return fmt.Errorf("failed to save gradients: %w", err)
	}

	if r.params.PlotDir != "" {
		r.logger.Info("Step 6: Rendering gradient slices", zap.String("dir", r.params.PlotDir))
		if err := r.plotGradients(); err != nil {
			return fmt.Errorf("failed to render gradient slices: %w", err)
		}
	}

	return nil
}

// Result returns the summary of the last run
func (r *Reconstructor) Result() Result {
	return r.result
}

// Gradients returns the computed gradient grids for x, y and z
func (r *Reconstructor) Gradients() [3]*grid.Grid {
	return r.grads
}

func (r *Reconstructor) loadSamples() error {
	if _, err := os.Stat(r.params.DataFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s: %w", ErrInputNotFound, r.params.DataFile, err)
		}
		return fmt.Errorf("failed to stat data file: %w", err)
	}

	sparse, err := dataset.Load(r.params.DataFile)
	if err != nil {
		return fmt.Errorf("failed to load samples: %w", err)
	}
	r.sparse = sparse
	r.result.Samples = len(sparse)
	r.logger.Info("Loaded samples", zap.Int("cells", len(sparse)))
	return nil
}

func (r *Reconstructor) buildDense() error {
	ranges, err := dataset.InferRanges(r.sparse)
	if err != nil {
		return err
	}
	r.result.Ranges = ranges

	for _, axis := range models.Axes {
		rg := ranges[axis]
		r.logger.Info("Index range",
			zap.Stringer("axis", axis),
			zap.Int("min", rg.Min),
			zap.Int("max", rg.Max),
			zap.Int("n", rg.Count))
		if rg.HasGaps() {
			r.logger.Warn("Axis has unobserved coordinates, the box spans the full range",
				zap.Stringer("axis", axis),
				zap.Int("observed", rg.Count),
				zap.Int("span", rg.Span()))
		}
	}

	r.dense = grid.FromSparse(r.sparse, ranges)
	r.sparse = nil

	shape := r.dense.Shape()
	r.logger.Info("Total elements",
		zap.Int("cells", r.dense.Len()),
		zap.Ints("shape", shape[:]),
		zap.String("memory", humanize.Bytes(uint64(r.dense.Len())*9)))
	return nil
}

func (r *Reconstructor) fillMissing() error {
	missing := r.dense.Missing()
	r.result.Missing = len(missing)
	if len(missing) == 0 {
		return nil
	}

	r.logger.Info("Some values are missing, trying to fix it", zap.Int("missing", len(missing)))
	if ce := r.logger.Check(zap.DebugLevel, "Missing element cells"); ce != nil {
		ce.Write(zap.Stringers("cells", missing))
	}

	r.result.Filled = interpolation.FillNeighbors(r.dense, missing)
	r.logger.Info("Filled missing cells from neighbours", zap.Int("filled", r.result.Filled))

	if residual := r.dense.Missing(); len(residual) > 0 {
		return fmt.Errorf("%w: %d cells, first %s", interpolation.ErrUnfilled, len(residual), residual[0])
	}
	return nil
}

func (r *Reconstructor) computeGradients(ctx context.Context) error {
	grads, err := gradient.All(ctx, r.dense, r.params.Workers)
	if err != nil {
		return err
	}
	r.grads = grads
	r.dense = nil

	for _, axis := range models.Axes {
		s := gradient.Summarize(grads[axis])
		r.result.Stats[axis] = s
		r.logger.Info("Gradient summary",
			zap.Stringer("axis", axis),
			zap.Float64("mean", s.Mean),
			zap.Float64("std", s.StdDev),
			zap.Float64("min", s.Min),
			zap.Float64("max", s.Max))
	}
	return nil
}

// saveGradients writes every gradient to a temporary sibling first and only
// renames them into place once all three were written, so a failed run never
// leaves a partial set of output files behind.
func (r *Reconstructor) saveGradients() error {
	var paths [3]string
	for _, axis := range models.Axes {
		name := r.params.OutputFiles[axis]
		if name == "" {
			name = DefaultOutputFiles[axis]
		}
		paths[axis] = filepath.Join(r.params.OutputDir, name)
	}

	var written []string
	discard := func() {
		for _, p := range written {
			_ = os.Remove(p)
		}
	}

	for _, axis := range models.Axes {
		tmp := paths[axis] + ".tmp"
		r.logger.Info("Saving gradient", zap.Stringer("axis", axis), zap.String("file", paths[axis]))
		if err := dataset.SaveGrid(tmp, r.grads[axis], r.params.ValueBits); err != nil {
			_ = os.Remove(tmp)
			discard()
			return err
		}
		written = append(written, tmp)
	}

	var renamed []string
	for _, axis := range models.Axes {
		if err := os.Rename(paths[axis]+".tmp", paths[axis]); err != nil {
			discard()
			for _, p := range renamed {
				_ = os.Remove(p)
			}
			return fmt.Errorf("error renaming gradient file: %w", err)
		}
		renamed = append(renamed, paths[axis])
	}
	r.result.Files = paths
	return nil
}

func (r *Reconstructor) plotGradients() error {
	for _, axis := range models.Axes {
		name := "d" + axis.String()
		viewer := visualization.NewViewer(r.grads[axis], name)

		sliceAxes := r.params.PlotAxes
		if len(sliceAxes) == 0 {
			sliceAxes = []models.Axis{axis}
		}
		for _, along := range sliceAxes {
			dir := filepath.Join(r.params.PlotDir, name)
			if len(r.params.PlotAxes) > 0 {
				dir = filepath.Join(dir, along.String())
			}
			if err := viewer.SaveSliceSequence(along, dir); err != nil {
				return err
			}
		}
	}
	return nil
}
