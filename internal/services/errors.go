package services

import "errors"

// Analytics service errors
var (
	ErrNoSource = errors.New("no snapshot source configured")
)
