package hltoll

import (
	"context"
	"errors"
	"fmt"

	"hilo/internal/ir"
	"hilo/internal/layout"
	"hilo/internal/rewrite"
)

// ErrInvalidOutput reports lowered IR that fails verification.
var ErrInvalidOutput = errors.New("lowered module failed verification")

// Options configures Lower.
type Options struct {
	// MaxIterations bounds the number of conversion sweeps.
	MaxIterations int
	// Target supplies layout defaults where the module has no dl_spec. The
	// zero value selects x86_64-linux-gnu.
	Target layout.Target
}

// Lower converts mod to the ll dialect. mod itself is left unchanged; on
// failure no IR is returned.
func Lower(ctx context.Context, mod *ir.Operation, opts Options) (*ir.Operation, error) {
	out, _, err := LowerWithStats(ctx, mod, opts)
	return out, err
}

// LowerWithStats is Lower that also reports conversion statistics.
func LowerWithStats(ctx context.Context, mod *ir.Operation, opts Options) (*ir.Operation, rewrite.Stats, error) {
	target := opts.Target
	if target.Triple == "" {
		target = layout.X86_64LinuxGNU()
	}
	out, stats, err := rewrite.Convert(ctx, mod, Patterns(layout.NewAnalysis(target)), LegalityTarget(),
		rewrite.Options{MaxIterations: opts.MaxIterations})
	if err != nil {
		return nil, stats, fmt.Errorf("lowering: %w", err)
	}
	if err := ir.Verify(out); err != nil {
		return nil, stats, fmt.Errorf("%w: %w", ErrInvalidOutput, err)
	}
	return out, stats, nil
}
