package scoring

import "errors"

// ErrInvalidWeights is returned for negative or non-finite weights.
var ErrInvalidWeights = errors.New("invalid score weights")
