package server

import "errors"

var (
	ErrClosed         = errors.New("pose server: closed")
	ErrNotStarted     = errors.New("pose server: not started")
	ErrAlreadyStarted = errors.New("pose server: already started")
	ErrClientLimit    = errors.New("pose server: client limit reached")
	ErrBadConfig      = errors.New("pose server: bad config")
	ErrListen         = errors.New("pose server: listen")
)
