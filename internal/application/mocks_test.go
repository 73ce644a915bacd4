package application

import (
	"context"
	"sync"

	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/marketdata"
)

// --- Mocks ---

type mockRepository struct {
	mu          sync.Mutex
	instruments map[string]domain.Instrument
	order       []string
	findAllErr  error
	addErr      error
	updateErr   error
}

func newMockRepository(instruments ...domain.Instrument) *mockRepository {
	m := &mockRepository{instruments: make(map[string]domain.Instrument)}
	for _, inst := range instruments {
		m.instruments[inst.ID] = inst
		m.order = append(m.order, inst.ID)
	}
	return m
}

func (m *mockRepository) Add(_ context.Context, inst domain.Instrument) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return "", m.addErr
	}
	if !inst.IsStorable() {
		return "", domain.ErrInvalidInstrument
	}
	if _, exists := m.instruments[inst.ID]; exists || inst.ID == "" {
		inst.ID = domain.NewInstrument().ID
	}
	m.instruments[inst.ID] = inst
	m.order = append(m.order, inst.ID)
	return inst.ID, nil
}

func (m *mockRepository) Update(_ context.Context, inst domain.Instrument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.instruments[inst.ID]; !ok {
		return domain.ErrInstrumentNotFound
	}
	m.instruments[inst.ID] = inst
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.instruments[id]; !ok {
		return domain.ErrInstrumentNotFound
	}
	delete(m.instruments, id)
	return nil
}

func (m *mockRepository) FindByID(_ context.Context, id string) (*domain.Instrument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.instruments[id]
	if !ok {
		return nil, domain.ErrInstrumentNotFound
	}
	return &inst, nil
}

func (m *mockRepository) FindAll(_ context.Context) ([]domain.Instrument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findAllErr != nil {
		return nil, m.findAllErr
	}
	out := make([]domain.Instrument, 0, len(m.instruments))
	for _, id := range m.order {
		if inst, ok := m.instruments[id]; ok {
			out = append(out, inst)
		}
	}
	return out, nil
}

type mockQuoteProvider struct {
	mu           sync.Mutex
	getQuoteFunc func(ctx context.Context, symbol string) (*marketdata.Quote, error)
	calls        []string
}

func (m *mockQuoteProvider) GetQuote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	m.mu.Lock()
	m.calls = append(m.calls, symbol)
	m.mu.Unlock()
	return m.getQuoteFunc(ctx, symbol)
}

func (m *mockQuoteProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

type mockBatchProvider struct {
	mockQuoteProvider
	batchFunc  func(ctx context.Context, symbols []string) []marketdata.QuoteBatchResult
	batchCalls int
}

func (m *mockBatchProvider) GetQuoteBatch(ctx context.Context, symbols []string) []marketdata.QuoteBatchResult {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()
	return m.batchFunc(ctx, symbols)
}

type staticQuotes map[string]string

func (s staticQuotes) Quote(_ context.Context, symbol string) (*marketdata.Quote, error) {
	raw, ok := s[symbol]
	if !ok {
		return nil, domain.ErrInstrumentNotFound
	}
	price, err := domain.NewDecimalFromString(raw)
	if err != nil {
		return nil, err
	}
	return &marketdata.Quote{Symbol: symbol, Price: price}, nil
}

func quoteOf(symbol, price string) *marketdata.Quote {
	d, err := domain.NewDecimalFromString(price)
	if err != nil {
		panic(err)
	}
	return &marketdata.Quote{Symbol: symbol, Price: d}
}
