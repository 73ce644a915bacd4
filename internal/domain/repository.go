package domain

import "context"

// InstrumentRepository defines the interface for instrument persistence.
// It follows the Domain-Driven Design repository pattern.
// All methods accept context.Context to enable proper timeout handling,
// cancellation propagation, and request-scoped values like tracing IDs.
type InstrumentRepository interface {
	// Add stores a new instrument and returns its id. A colliding id is
	// replaced by a fresh one.
	Add(ctx context.Context, instrument Instrument) (string, error)
	Update(ctx context.Context, instrument Instrument) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Instrument, error)
	FindAll(ctx context.Context) ([]Instrument, error)
}
