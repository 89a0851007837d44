package rank

import "errors"

// ErrUnknownStrategy indicates an unrecognized ranking parameter.
var ErrUnknownStrategy = errors.New("unknown ranking strategy")
