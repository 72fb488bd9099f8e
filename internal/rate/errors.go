package rate

import "errors"

var (
	// ErrRateLimited is returned once a window has exceeded its budget.
	ErrRateLimited = errors.New("rate limited")
)
