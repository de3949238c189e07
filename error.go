package match

import "errors"

var (
	ErrInvalidOrder = errors.New("order price and quantity must be positive")
	ErrNotFound     = errors.New("order not found")
)
