package domain

import "github.com/cockroachdb/errors"

// Environment-level failures. Any of these aborts a run with env-000.
var (
	ErrRootNotFound  = errors.New("root directory not found")
	ErrNoDecoder     = errors.New("no decoder available")
	ErrInvalidConfig = errors.New("invalid configuration")
)
