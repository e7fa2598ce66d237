package model

import "errors"

var (
	// ErrMissingRoot marks a sentence whose dependency tree has no unique root.
	// Recovered by the fallback traversal order.
	ErrMissingRoot = errors.New("sentence has no unique dependency root")

	// ErrMissingHead marks a mention without a resolvable head token.
	// Such mentions stay unresolved singletons.
	ErrMissingHead = errors.New("mention has no resolvable head token")

	// ErrMalformedSpan marks a zero-length or inverted mention span
	ErrMalformedSpan = errors.New("malformed mention span")

	// ErrClusterInvariant is fatal: a mention is reachable from two clusters
	ErrClusterInvariant = errors.New("cluster partition invariant violated")

	// ErrUnknownSieve is returned for a sieve name that is not registered
	ErrUnknownSieve = errors.New("unknown sieve")
)
