package omap

import "errors"

// Sentinel kinds for ordered map errors.
var (
	ErrDuplicateKey = errors.New("key already present")
	ErrNotFound     = errors.New("key not found")
	ErrCapacity     = errors.New("map capacity exhausted")
)
