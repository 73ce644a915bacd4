package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

// InstrumentRepository keeps instruments in insertion order for the lifetime
// of the process.
type InstrumentRepository struct {
	mu          sync.RWMutex
	instruments map[string]domain.Instrument
	order       []string
}

func NewInstrumentRepository() *InstrumentRepository {
	return &InstrumentRepository{
		instruments: make(map[string]domain.Instrument),
	}
}

func (r *InstrumentRepository) Add(ctx context.Context, inst domain.Instrument) (string, error) {
	if !inst.IsStorable() {
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidInstrument, inst.ListTitle())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instruments[inst.ID]; exists || inst.ID == "" {
		inst.ID = uuid.New().String()
	}
	if inst.LastModified == nil {
		inst.Touch(time.Now())
	}
	r.instruments[inst.ID] = inst
	r.order = append(r.order, inst.ID)
	return inst.ID, nil
}

func (r *InstrumentRepository) Update(ctx context.Context, inst domain.Instrument) error {
	if !inst.IsStorable() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInstrument, inst.ListTitle())
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instruments[inst.ID]; !exists {
		return domain.ErrInstrumentNotFound
	}
	if inst.LastModified == nil {
		inst.Touch(time.Now())
	}
	r.instruments[inst.ID] = inst
	return nil
}

func (r *InstrumentRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.instruments[id]; !exists {
		return domain.ErrInstrumentNotFound
	}
	delete(r.instruments, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *InstrumentRepository) FindByID(ctx context.Context, id string) (*domain.Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	inst, exists := r.instruments[id]
	if !exists {
		return nil, domain.ErrInstrumentNotFound
	}
	return &inst, nil
}

func (r *InstrumentRepository) FindAll(ctx context.Context) ([]domain.Instrument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	instruments := make([]domain.Instrument, 0, len(r.order))
	for _, id := range r.order {
		instruments = append(instruments, r.instruments[id])
	}
	return instruments, nil
}

var _ domain.InstrumentRepository = (*InstrumentRepository)(nil)
