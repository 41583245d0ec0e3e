package core

import "context"

// TokenRepository is the persistence port consumed by the token service.
// Implementations keep insertion order for All and do not persist Status.
type TokenRepository interface {
	// All returns every stored token in insertion order.
	All(ctx context.Context) ([]Token, error)

	// Get returns the token with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (Token, error)

	// Insert appends a new token. It returns ErrDuplicateID if the id is already taken.
	Insert(ctx context.Context, token Token) error

	// Update replaces the stored token with the same id or returns ErrNotFound.
	Update(ctx context.Context, token Token) error

	// Delete removes the token and reports whether anything was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
