package cadence

import "fmt"

// ErrorKind classifies an AnimationError. See spec §7.
type ErrorKind uint8

const (
	// ErrAlreadyRunning means start was invoked on an instance that is not Stopped.
	ErrAlreadyRunning ErrorKind = iota
	// ErrRecycled means the operation targeted a controller whose instance has
	// been returned to the pool (run_count no longer matches).
	ErrRecycled
	// ErrNotRoot means an internal invariant was violated: a non-root instance
	// was added to or removed from the manager's root list.
	ErrNotRoot
	// ErrInvalidArgument means a required argument was missing or not
	// accepted: a nil property reference, a handoff mode Start does not
	// take, or FadeOut on a group controller.
	ErrInvalidArgument
)

func (k ErrorKind) String() string {
	switch k {
	case ErrAlreadyRunning:
		return "already running"
	case ErrRecycled:
		return "recycled"
	case ErrNotRoot:
		return "not root"
	case ErrInvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

// AnimationError is the one error type the core produces. Subcategories are
// distinguished by Kind; use errors.As to recover it from a wrapped error.
type AnimationError struct {
	Kind ErrorKind
	Op   string // operation that failed, e.g. "start"
	Err  error  // optional wrapped cause
}

func (e *AnimationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cadence: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("cadence: %s: %s", e.Op, e.Kind)
}

func (e *AnimationError) Unwrap() error { return e.Err }

func newError(kind ErrorKind, op string) error {
	return &AnimationError{Kind: kind, Op: op}
}

func newErrorf(kind ErrorKind, op string, err error) error {
	return &AnimationError{Kind: kind, Op: op, Err: err}
}
