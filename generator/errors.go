package generator

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
