package daw

import "errors"

var (
	// ErrDevice wraps a failure to open or drive the audio output.
	ErrDevice         = errors.New("audio device error")
	ErrAlreadyPlaying = errors.New("player is already playing")
	ErrNotPlaying     = errors.New("player is not playing")
	ErrInvalidConfig  = errors.New("invalid player config")
)
