package symbols

import (
	"errors"
	"fmt"
)

var (
	// ErrScopeUnderflow reports a Pop without a matching Push.
	ErrScopeUnderflow = errors.New("scope underflow")
	// ErrNoScope reports Bind or Lookup with no open scope.
	ErrNoScope = errors.New("no open scope")
	// ErrUnknownContext reports a declaration context the naming scheme does
	// not support.
	ErrUnknownContext = errors.New("unknown declaration context")
)

// InternalError is the panic value for violated internal invariants.
type InternalError struct {
	Op     string
	Detail string
	Err    error
}

func (e *InternalError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Detail == "" {
		return fmt.Sprintf("symbols: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("symbols: %s: %v: %s", e.Op, e.Err, e.Detail)
}

func (e *InternalError) Unwrap() error { return e.Err }

// Recover converts a recovered *InternalError into an error and re-panics
// on anything else. Use it as `defer symbols.Recover(&err)`.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	ie, ok := r.(*InternalError)
	if !ok {
		panic(r)
	}
	*errp = errors.Join(*errp, ie)
}
