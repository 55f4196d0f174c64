package domain

import "errors"

// Cache-facing errors. Tasks translate these to HTTP status per spec §7.
var (
	ErrNotFound          = errors.New("cache: key not found")
	ErrCacheUnavailable  = errors.New("cache: backend unavailable")
	ErrMalformedSubXML   = errors.New("subscription: malformed xml")
	ErrMissingIMSSubRoot = errors.New("subscription: missing IMSSubscription root")
)
