package player

import (
	"context"
	"errors"
)

// ErrPlayerNotFound is returned when a player lookup yields no record.
var ErrPlayerNotFound = errors.New("player not found")

// Repository provides player persistence. The engine never touches storage
// directly; implementations live under internal/storage.
type Repository interface {
	// Load returns the player with the given ID, or ErrPlayerNotFound.
	Load(ctx context.Context, id string) (*Player, error)
	// Save persists the full player record, creating it if absent.
	Save(ctx context.Context, p *Player) error
	// Ensure returns the player with the given ID, creating a fresh record
	// with the given role and starting defaults when absent.
	Ensure(ctx context.Context, id, role string) (*Player, error)
}
