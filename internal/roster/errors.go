package roster

import "errors"

// Error constants.
var (
	ErrLoadRoster    = errors.New("load roster failed")
	ErrUnknownPlayer = errors.New("player not in roster")
)
