package skeletal

import (
	"errors"
	"fmt"
)

var (
	ErrDataContract    = errors.New("data contract violation")
	ErrUnsortedFrames  = errors.New("keyframes are not sorted by time")
	ErrNotFound        = errors.New("not found")
	ErrInvalidSkeleton = errors.New("invalid skeleton data")
	ErrInvalidKey      = errors.New("invalid keyframe")
)

// ContractError is the panic value raised when a timeline or constraint
// references an entity that does not exist in the bound skeleton. It
// means the animation was built against different skeleton data.
type ContractError struct {
	Kind  string
	Index int
	Count int
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Kind, e.Index, e.Count)
}

func (e *ContractError) Unwrap() error { return ErrDataContract }

func violate(kind string, index, count int) {
	panic(&ContractError{Kind: kind, Index: index, Count: count})
}
