package teams

import "errors"

// Sentinel error kinds for team generation.
var (
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrDuplicatePlayer     = errors.New("duplicate player in pool")
	ErrPoolTooLarge        = errors.New("pool too large for exact partition")
	ErrUnknownStrategy     = errors.New("unknown partition strategy")
)
