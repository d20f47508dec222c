package domain

import "errors"

var (
	// ErrNotFound marks lookups for unknown job or opening ids.
	ErrNotFound = errors.New("not found")
	// ErrGeometry marks malformed input geometry: bad viewBox, missing wall,
	// out-of-range position. Fatal at job creation, surfaced synchronously.
	ErrGeometry = errors.New("invalid geometry")
	// ErrGenerationCall marks a failed call to the external generator
	// (unreachable, auth, timeout). Fatal for the job, never retried.
	ErrGenerationCall = errors.New("generation call failed")
)
