package dictionary

import "errors"

var (
	// ErrStoreRequired is returned by New when no synonym store is given.
	ErrStoreRequired = errors.New("dictionary: synonym store required")

	// ErrLoadFailed wraps store errors raised while loading the dictionary.
	ErrLoadFailed = errors.New("dictionary: load failed")

	errStaleLoad = errors.New("dictionary: reset during load")
)
