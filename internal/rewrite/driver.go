package rewrite

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hilo/internal/ir"
	"hilo/internal/trace"
)

// DefaultMaxIterations bounds the number of sweeps when Options leaves it
// unset.
const DefaultMaxIterations = 64

// Options tunes ApplyPartialConversion.
type Options struct {
	// MaxIterations is the sweep limit; zero means DefaultMaxIterations.
	MaxIterations int
}

// Stats describes a finished conversion.
type Stats struct {
	Sweeps   int
	Rewrites int
	Declines int
}

type driver struct {
	patterns *PatternSet
	target   *Target
	rw       *Rewriter
	tracer   trace.Tracer
	stats    Stats
}

// ApplyPartialConversion converts a deep clone of root until target holds
// for every operation. It returns the converted clone, or an error and no
// IR. Patterns that break their contract surface as an error wrapping
// ErrInternal, never as ErrConversionFailed.
func ApplyPartialConversion(ctx context.Context, root *ir.Operation, patterns *PatternSet, target *Target, opts Options) (*ir.Operation, error) {
	out, _, err := Convert(ctx, root, patterns, target, opts)
	return out, err
}

// Convert is ApplyPartialConversion that also reports statistics.
func Convert(ctx context.Context, root *ir.Operation, patterns *PatternSet, target *Target, opts Options) (out *ir.Operation, stats Stats, err error) {
	limit := opts.MaxIterations
	if limit <= 0 {
		limit = DefaultMaxIterations
	}
	d := &driver{
		patterns: patterns,
		target:   target,
		rw:       NewRewriter(),
		tracer:   trace.FromContext(ctx),
	}
	ctx, span := trace.Start(ctx, trace.ScopePass, "conversion")
	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(*InternalError)
			if !ok {
				panic(r)
			}
			out, err = nil, ie
		}
		span.WithExtra("sweeps", strconv.Itoa(d.stats.Sweeps)).
			WithExtra("rewrites", strconv.Itoa(d.stats.Rewrites))
		span.EndErr(err)
		stats = d.stats
	}()

	work := ir.Clone(root)
	for {
		if err := ctx.Err(); err != nil {
			return nil, d.stats, err
		}
		illegal := target.Illegal(work)
		if len(illegal) == 0 {
			return work, d.stats, nil
		}
		if d.stats.Sweeps >= limit {
			return nil, d.stats, remaining(illegal, d.stats.Sweeps, true)
		}
		progress, err := d.sweep(work, span.ID())
		if err != nil {
			return nil, d.stats, err
		}
		if !progress {
			return nil, d.stats, remaining(target.Illegal(work), d.stats.Sweeps, false)
		}
	}
}

func remaining(ops []*ir.Operation, sweeps int, exhausted bool) *ConversionError {
	e := &ConversionError{Sweeps: sweeps, Exhausted: exhausted}
	for _, op := range ops {
		e.Remaining = append(e.Remaining, IllegalOp{Name: op.Name(), Loc: op.Loc()})
	}
	return e
}

// sweep visits the module innermost first and tries every illegal op once.
func (d *driver) sweep(root *ir.Operation, parent uint64) (bool, error) {
	d.stats.Sweeps++
	span := trace.Begin(d.tracer, trace.ScopeSweep, "sweep#"+strconv.Itoa(d.stats.Sweeps), parent)
	rewrites := 0
	for _, op := range ir.PostOrder(root) {
		if op.IsErased() || d.target.IsLegal(op) {
			continue
		}
		ok, err := d.apply(op, span.ID())
		if err != nil {
			span.End(err.Error())
			return false, err
		}
		if ok {
			rewrites++
		}
	}
	span.WithExtra("rewrites", strconv.Itoa(rewrites)).End("")
	return rewrites > 0, nil
}

// apply tries the patterns for op in order until one succeeds.
func (d *driver) apply(op *ir.Operation, parent uint64) (bool, error) {
	for _, p := range d.patterns.For(op.Name()) {
		name := PatternName(p)
		span := trace.Begin(d.tracer, trace.ScopePattern, name, parent)
		before := d.rw.Mutations()
		saved := d.rw.Save()
		d.rw.SetInsertionPoint(op)
		err := p.MatchAndRewrite(op, op.Operands(), d.rw)
		d.rw.Restore(saved)
		changed := d.rw.Mutations() != before

		switch {
		case err == nil:
			if !changed {
				panic(&InternalError{Pattern: name, Op: op.Name(), Detail: "reported success without changing the IR"})
			}
			d.stats.Rewrites++
			span.End("rewritten")
			return true, nil
		case errors.Is(err, ErrNoMatch):
			if changed {
				panic(&InternalError{Pattern: name, Op: op.Name(), Detail: "declined after changing the IR: " + err.Error()})
			}
			d.stats.Declines++
			span.End(err.Error())
		default:
			span.End(err.Error())
			return false, fmt.Errorf("%s on %s at %s: %w", name, op.Name(), op.Loc(), err)
		}
	}
	return false, nil
}
