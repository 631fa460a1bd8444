package flowbridge

import "errors"

// ErrNotUnique is returned by SingleResult when more than one task matches.
var ErrNotUnique = errors.New("query result is not unique")
