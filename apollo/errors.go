package apollo

import "errors"

// Sentinel init errors. Both are terminal: the caller must not proceed with
// a half-initialized client.
var (
	ErrInvalidConfig      = errors.New("apollo: invalid client configuration")
	ErrDuplicateNamespace = errors.New("apollo: duplicate namespace prefix")
)
