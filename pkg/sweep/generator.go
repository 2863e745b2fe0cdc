// Package sweep generates sensitivity tables of the payable-price model over
// distance, biochar price, moisture and chip price.
//
// Every sweep validates its inputs first; structural problems abort with an
// error wrapping ErrInvalidSweep or economics.ErrInvalidParameter. Points
// whose values are not finite are kept and reported in the series' flags.
// Results are deterministic and independent of the worker count.
package sweep

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iwvelando/chip-economics/pkg/economics"
	"github.com/iwvelando/chip-economics/pkg/mathutil"
)

// Flag marks a point whose outputs are not finite.
type Flag struct {
	Index  int    `json:"index" yaml:"index"`
	Reason string `json:"reason" yaml:"reason"`
}

// FlagSet is embedded by every series.
type FlagSet struct {
	Flags []Flag `json:"flags" yaml:"flags"`
}

// Flagged returns the flagged points in index order.
func (f FlagSet) Flagged() []Flag {
	return f.Flags
}

// Series is a computed sweep table.
type Series interface {
	Header() []string
	Records() [][]string
	Flagged() []Flag
}

// Generator runs sweeps with a bounded number of workers.
type Generator struct {
	logger  *zap.Logger
	workers int
}

// NewGenerator creates a Generator. workers <= 1 computes points sequentially.
func NewGenerator(logger *zap.Logger, workers int) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if workers < 1 {
		workers = 1
	}
	return &Generator{logger: logger, workers: workers}
}

// Workers returns the configured worker count.
func (g *Generator) Workers() int {
	return g.workers
}

// forEach calls fn for every index in [0, n). Indices are split into
// contiguous chunks, one per worker.
func (g *Generator) forEach(ctx context.Context, n int, fn func(i int)) error {
	if g.workers <= 1 || n < 2 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
		}
		return nil
	}

	chunk := (n + g.workers - 1) / g.workers
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		eg.Go(func() error {
			for i := start; i < end; i++ {
				if err := egCtx.Err(); err != nil {
					return err
				}
				fn(i)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (g *Generator) validate(op string, p economics.EconomicParameters, spec interface{ Validate() error }) error {
	if err := p.Validate(); err != nil {
		g.logger.Error("invalid parameters",
			zap.String("op", op),
			zap.Error(err),
		)
		return fmt.Errorf("sweep parameters: %w", err)
	}
	if err := spec.Validate(); err != nil {
		g.logger.Error("invalid sweep specification",
			zap.String("op", op),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// flag checks the values of every point and returns flags in index order.
func (g *Generator) flag(op string, n int, values func(i int) []float64) []Flag {
	var flags []Flag
	for i := 0; i < n; i++ {
		if mathutil.IsFinite(values(i)...) {
			continue
		}
		flags = append(flags, Flag{Index: i, Reason: "non-finite value"})
		g.logger.Warn("non-finite sweep point",
			zap.String("op", op),
			zap.Int("index", i),
		)
	}
	return flags
}

func (g *Generator) done(op string, points int, started time.Time) {
	g.logger.Debug("sweep complete",
		zap.String("op", op),
		zap.Int("points", points),
		zap.Int("workers", g.workers),
		zap.Duration("duration", time.Since(started)),
	)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
