package repositories

import "errors"

var (
	// Expected conditions: the caller recovers by starting a fresh tournament.
	ErrStateNotFound = errors.New("tournament state not found")
	ErrStateCorrupt  = errors.New("tournament state is corrupt")

	ErrCatalogNotFound = errors.New("country catalog not found")
	ErrCatalogInvalid  = errors.New("country catalog is invalid")

	ErrHistoryCorrupt  = errors.New("tournament history is corrupt")
	ErrHistoryConflict = errors.New("tournament history id already taken")
)
