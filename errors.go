package ospf6

import (
	"errors"
	"fmt"
)

// Errors returned by Manager operations. GetNext style operations report
// exhaustion with ok=false and a nil error, never with ErrNotFound.
var (
	ErrInvalidArgument             = errors.New("ospf6: invalid argument")
	ErrNotFound                    = errors.New("ospf6: entry not found")
	ErrAlreadyExists               = errors.New("ospf6: entry already exists")
	ErrInternalAccess              = errors.New("ospf6: routing daemon access failed")
	ErrInvalidRouterID             = errors.New("ospf6: invalid router ID")
	ErrRouterIDChangeNotTakeEffect = errors.New("ospf6: router ID change takes effect after the process restarts")
	ErrAreaIDChangeNotTakeEffect   = errors.New("ospf6: area ID change takes effect after the interface restarts")
	ErrStubAreaNotForBackbone      = errors.New("ospf6: backbone area cannot be a stub area")
	ErrAreaRangeCostConflict       = errors.New("ospf6: a range that is not advertised cannot have a cost")
	ErrAreaRangeNetworkDefault     = errors.New("ospf6: area range cannot be the default network")
	ErrAreaRangeOverlap            = errors.New("ospf6: area range overlaps an existing range")
	ErrInstanceExists              = errors.New("ospf6: instance already exists")
	ErrInstanceNotExist            = errors.New("ospf6: instance does not exist")
	ErrNoStore                     = errors.New("ospf6: no startup configuration store")
)

// accessError wraps a daemon access failure so that it matches both
// ErrInternalAccess and the underlying cause.
type accessError struct {
	op  string
	err error
}

func (e *accessError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInternalAccess, e.op, e.err)
}

func (e *accessError) Is(target error) bool { return target == ErrInternalAccess }

func (e *accessError) Unwrap() error { return e.err }

func access(op string, err error) error {
	if err == nil {
		return nil
	}
	return &accessError{op: op, err: err}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidArgument}, args...)...)
}
