package strategy

import "errors"

var (
	// ErrSignatureMismatch indicates the computed checksum differs from the supplied signature.
	ErrSignatureMismatch = errors.New("signature mismatch")

	// ErrBuiltinConflict indicates a plugin id shadows an immutable built-in strategy.
	ErrBuiltinConflict = errors.New("id conflicts with built-in strategy")

	// ErrInvalidPlugin indicates a signed plugin config carries values the weight formula cannot compute.
	ErrInvalidPlugin = errors.New("invalid plugin config")
)
