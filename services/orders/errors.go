package orders

import "errors"

// ErrOrderNotFound is returned when no order matches the given identifier
var ErrOrderNotFound = errors.New("order not found")
