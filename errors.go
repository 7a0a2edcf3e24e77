package tetsurf

import "errors"

var (
	// ErrTaggingInconsistency is returned when cell tags cannot be trusted:
	// the complex was never tagged, a tag falls outside [0, N) or the complex
	// changed after tagging or classification.
	ErrTaggingInconsistency = errors.New("tagging inconsistency")
	// ErrAdjacencyAsymmetry is returned when a neighbor relationship is not
	// mutual or the two cells do not share exactly one face.
	ErrAdjacencyAsymmetry = errors.New("adjacency asymmetry")
	// ErrPredicateFailure wraps errors returned by an inclusion predicate.
	// The predicate's own error remains reachable with errors.Is and errors.As.
	ErrPredicateFailure = errors.New("predicate failure")
)
