package instance

import "errors"

var (
	ErrNotFound       = errors.New("instance not found")
	ErrMismatchedData = errors.New("animation state data belongs to other skeleton data")
	ErrNilData        = errors.New("skeleton data is nil")
)
