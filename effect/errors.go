package effect

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid effect configuration")
)
