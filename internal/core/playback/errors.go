package playback

import "errors"

var (
	ErrInvalidTrack     = errors.New("track index must be >= 0")
	ErrNilAnimation     = errors.New("animation is nil")
	ErrUnknownAnimation = errors.New("animation not found")
)
