package services

import "errors"

var (
	// ErrNotFound means a referenced module, lesson or user does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNoActiveLessons is returned by ApproveModule when the module has
	// nothing to approve.
	ErrNoActiveLessons = errors.New("module has no active lessons")

	// ErrGenerationFailed means the certificate document could not be
	// rendered. No store state is mutated when it occurs.
	ErrGenerationFailed = errors.New("certificate generation failed")
)
