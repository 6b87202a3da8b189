package fees

import "errors"

// ErrInvalidAmount is returned when an input amount is negative.
// Inputs come from validated catalog prices, so callers treat this as a
// contract violation and surface a generic pricing failure.
var ErrInvalidAmount = errors.New("invalid amount: must be a non-negative integer of minor units")
