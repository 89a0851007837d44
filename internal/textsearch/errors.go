package textsearch

import "errors"

// ErrUnavailable indicates the search engine errored or could not be
// reached. The condition is retryable by the caller.
var ErrUnavailable = errors.New("text-search engine unavailable")
