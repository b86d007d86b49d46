package ingestion

import "errors"

var (
	// ErrCatalogRepositoryRequired is returned when a catalog repository is not provided.
	ErrCatalogRepositoryRequired = errors.New("catalog repository required")

	// ErrSynonymRepositoryRequired is returned when a synonym repository is not provided.
	ErrSynonymRepositoryRequired = errors.New("synonym repository required")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("batch size must be positive")

	// ErrInvalidSeed is returned when a seed file cannot be decoded or
	// describes invalid rows.
	ErrInvalidSeed = errors.New("invalid seed")
)
