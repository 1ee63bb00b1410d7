package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hilo/internal/backend/llvm"
	"hilo/internal/diag"
	"hilo/internal/hltoll"
	"hilo/internal/ir"
	"hilo/internal/irpack"
	"hilo/internal/observ"
	"hilo/internal/rewrite"
	"hilo/internal/source"
	"hilo/internal/trace"
)

// ErrFailed is returned when the result bag holds errors.
var ErrFailed = errors.New("lowering failed")

// Options configures Lower.
type Options struct {
	Config Config
	// Emit overrides Config.Lower.Emit when set.
	Emit           EmitKind
	MaxDiagnostics int
	EnableTimings  bool
	// Progress receives stage events; nil disables them.
	Progress ProgressSink
}

// Result is the outcome of one Lower run.
type Result struct {
	Path   string
	Input  *ir.Operation
	Module *ir.Operation
	Emit   EmitKind
	Output []byte
	Stats  rewrite.Stats
	Bag    *diag.Bag
	Timer  *observ.Timer
}

func (o Options) emitKind() EmitKind {
	switch {
	case o.Emit != "":
		return o.Emit
	case o.Config.Lower.Emit != "":
		return o.Config.Lower.Emit
	default:
		return EmitLL
	}
}

// Lower reads the snapshot at path, lowers it and renders the requested
// output. Failures are recorded in the result bag and reported as an error
// wrapping ErrFailed; the partial result is returned alongside.
func Lower(ctx context.Context, path string, opts Options) (*Result, error) {
	maxDiags := opts.MaxDiagnostics
	if maxDiags <= 0 {
		maxDiags = 100
	}
	res := &Result{Path: path, Emit: opts.emitKind(), Bag: diag.NewBag(maxDiags)}
	r := &run{res: res, sink: opts.Progress, started: time.Now()}
	if opts.EnableTimings {
		r.timer = observ.NewTimer()
		res.Timer = r.timer
	}

	ctx, span := trace.Start(ctx, trace.ScopeDriver, "lower")
	span.WithExtra("path", path)

	err := r.lowerFile(ctx, opts)
	if r.timer != nil {
		res.Bag.Force(timingDiagnostic(path, r.timer.Report()))
	}
	span.EndErr(err)
	return res, err
}

// run tracks the phases of one Lower call.
type run struct {
	res     *Result
	timer   *observ.Timer
	sink    ProgressSink
	stage   Stage
	started time.Time
}

// begin reports stage as started and returns the function that closes its
// timing phase.
func (r *run) begin(stage Stage) func(note string) {
	r.stage = stage
	emitStage(r.sink, r.res.Path, stage, StatusWorking, nil, time.Since(r.started))
	return r.timer.Start(string(stage))
}

func (r *run) fail(code diag.Code, err error) error {
	diag.ReportError(diag.BagReporter{Bag: r.res.Bag}, code, source.Unknown, err.Error()).Emit()
	emitStage(r.sink, r.res.Path, r.stage, StatusError, err, time.Since(r.started))
	return fmt.Errorf("%w: %s: %w", ErrFailed, r.res.Path, err)
}

func (r *run) lowerFile(ctx context.Context, opts Options) error {
	res := r.res
	endRead := r.begin(StageRead)
	mod, code, err := readSnapshot(res.Path)
	endRead("")
	if err != nil {
		return r.fail(code, err)
	}
	res.Input = mod

	endLower := r.begin(StageLower)
	low, stats, err := hltoll.LowerWithStats(ctx, mod, hltoll.Options{
		MaxIterations: opts.Config.Lower.MaxIterations,
		Target:        opts.Config.LayoutTarget(),
	})
	res.Stats = stats
	endLower(fmt.Sprintf("sweeps=%d rewrites=%d", stats.Sweeps, stats.Rewrites))
	if err != nil {
		return r.fail(reportLowering(res.Bag, err), err)
	}
	res.Module = low

	endEmit := r.begin(StageEmit)
	out, err := render(low, res.Emit, opts.Config)
	endEmit(string(res.Emit))
	if err != nil {
		return r.fail(diag.IOEmitFailed, err)
	}
	res.Output = out
	emitStage(r.sink, res.Path, StageEmit, StatusDone, nil, time.Since(r.started))
	return nil
}

func readSnapshot(path string) (*ir.Operation, diag.Code, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, diag.IOReadFailed, err
	}
	defer f.Close()
	mod, err := irpack.Decode(f)
	switch {
	case err == nil:
		return mod, diag.UnknownCode, nil
	case errors.Is(err, irpack.ErrFormat):
		return nil, diag.IOSnapshotVersion, err
	default:
		return nil, diag.IOSnapshotFormat, err
	}
}

// reportLowering adds one note per illegal op left behind and returns the
// code for the primary diagnostic.
func reportLowering(bag *diag.Bag, err error) diag.Code {
	var ce *rewrite.ConversionError
	switch {
	case errors.Is(err, rewrite.ErrInternal):
		return diag.LowerInternal
	case errors.As(err, &ce):
		for _, op := range ce.Remaining {
			msg := fmt.Sprintf("%s is still illegal", op.Name)
			diag.ReportError(diag.BagReporter{Bag: bag}, diag.LowerIllegalOp, op.Loc, msg).Emit()
		}
		return diag.LowerFailed
	case errors.Is(err, hltoll.ErrInvalidOutput):
		return diag.LowerVerify
	default:
		return diag.LowerFailed
	}
}

func render(mod *ir.Operation, kind EmitKind, cfg Config) ([]byte, error) {
	var buf bytes.Buffer
	switch kind {
	case EmitLL:
		if err := ir.Print(&buf, mod); err != nil {
			return nil, err
		}
	case EmitLLVM:
		text, err := llvm.EmitString(mod, cfg.LayoutTarget())
		if err != nil {
			return nil, err
		}
		buf.WriteString(text)
	case EmitPack:
		if err := irpack.Encode(&buf, mod); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("invalid emit kind %q", kind)
	}
	return buf.Bytes(), nil
}

// WriteSnapshot encodes mod into path, replacing it atomically.
func WriteSnapshot(path string, mod *ir.Operation) error {
	var buf bytes.Buffer
	if err := irpack.Encode(&buf, mod); err != nil {
		return err
	}
	return WriteOutput(path, buf.Bytes())
}

// WriteOutput writes data next to path and renames it into place.
func WriteOutput(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
