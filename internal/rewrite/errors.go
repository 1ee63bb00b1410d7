package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"hilo/internal/source"
)

var (
	// ErrNoMatch is wrapped by every pattern decline.
	ErrNoMatch = errors.New("pattern does not apply")
	// ErrConversionFailed is wrapped by *ConversionError.
	ErrConversionFailed = errors.New("conversion failed")
	// ErrInternal is wrapped by *InternalError.
	ErrInternal = errors.New("internal rewrite inconsistency")
)

// Decline returns an ErrNoMatch error carrying reason.
func Decline(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNoMatch, fmt.Sprintf(format, args...))
}

// IllegalOp describes an operation left illegal at the fixed point.
type IllegalOp struct {
	Name string
	Loc  source.Span
}

// ConversionError reports the operations that no pattern could legalize.
type ConversionError struct {
	Remaining []IllegalOp
	Sweeps    int
	// Exhausted is set when the sweep limit stopped the driver.
	Exhausted bool
}

func (e *ConversionError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrConversionFailed.Error())
	if e.Exhausted {
		fmt.Fprintf(&sb, ": sweep limit %d reached", e.Sweeps)
	}
	fmt.Fprintf(&sb, ": %d illegal operation(s) remain:", len(e.Remaining))
	for _, op := range e.Remaining {
		fmt.Fprintf(&sb, " %s at %s;", op.Name, op.Loc)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

func (e *ConversionError) Unwrap() error { return ErrConversionFailed }

// InternalError is the panic value for broken rewrite contracts, such as a
// pattern that declines after mutating the IR.
type InternalError struct {
	Pattern string
	Op      string
	Detail  string
}

func (e *InternalError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("rewrite: %s: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("rewrite: %s on %s: %s", e.Pattern, e.Op, e.Detail)
}

func (e *InternalError) Unwrap() error { return ErrInternal }
