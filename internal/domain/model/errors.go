package model

import "errors"

// Sentinel error kinds for domain records.
var (
	ErrInvalidRecord = errors.New("invalid player record")
	ErrInvalidMatch  = errors.New("invalid match")
)
