package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmanzanog/ko-wizard/internal/domain"
	"github.com/jmanzanog/ko-wizard/internal/importer"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/marketdata"
	"github.com/jmanzanog/ko-wizard/internal/infrastructure/metrics"
	"github.com/jmanzanog/ko-wizard/internal/listquery"
	"github.com/jmanzanog/ko-wizard/internal/pricing"
)

var (
	ErrInvalidCalculation = errors.New("exactly one of underlying or certificate is required")
	ErrQuotesUnavailable  = errors.New("no quote provider configured")
)

// QuoteSource returns the latest quote for a symbol.
type QuoteSource interface {
	Quote(ctx context.Context, symbol string) (*marketdata.Quote, error)
}

// InstrumentService is the entry point for the HTTP layer. It owns the
// instrument store and the open wizard sessions.
type InstrumentService struct {
	repo   domain.InstrumentRepository
	quotes QuoteSource
	now    func() time.Time

	mu     sync.Mutex
	drafts map[string]*draftEntry
}

// NewInstrumentService creates the service. quotes may be nil when no quote
// provider is configured.
func NewInstrumentService(repo domain.InstrumentRepository, quotes QuoteSource) *InstrumentService {
	return &InstrumentService{
		repo:   repo,
		quotes: quotes,
		now:    time.Now,
		drafts: make(map[string]*draftEntry),
	}
}

func (s *InstrumentService) ListInstruments(ctx context.Context, q listquery.Query) ([]domain.Instrument, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load instruments: %w", err)
	}
	return listquery.Apply(all, q), nil
}

func (s *InstrumentService) GroupInstruments(ctx context.Context, q listquery.Query) ([]listquery.AssetClassGroup, error) {
	list, err := s.ListInstruments(ctx, q)
	if err != nil {
		return nil, err
	}
	return listquery.Group(list), nil
}

// MostRecent returns the last modified instrument, or ErrInstrumentNotFound
// when the store is empty.
func (s *InstrumentService) MostRecent(ctx context.Context) (*domain.Instrument, error) {
	all, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load instruments: %w", err)
	}
	inst, ok := listquery.MostRecent(all)
	if !ok {
		return nil, domain.ErrInstrumentNotFound
	}
	return &inst, nil
}

func (s *InstrumentService) GetInstrument(ctx context.Context, id string) (*domain.Instrument, error) {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument: %w", err)
	}
	return inst, nil
}

func (s *InstrumentService) DeleteInstrument(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete instrument: %w", err)
	}
	slog.InfoContext(ctx, "Instrument deleted", "id", id)
	return nil
}

// SetFavorite updates the favorite flag and stamps the modification time.
func (s *InstrumentService) SetFavorite(ctx context.Context, id string, favorite bool) (*domain.Instrument, error) {
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument: %w", err)
	}
	inst.IsFavorite = favorite
	inst.Touch(s.now())
	if err := s.repo.Update(ctx, *inst); err != nil {
		return nil, fmt.Errorf("failed to update instrument: %w", err)
	}
	return inst, nil
}

// CalculateRequest holds exactly one raw input, as typed by the user.
type CalculateRequest struct {
	Underlying  *string `json:"underlying"`
	Certificate *string `json:"certificate"`
}

// Calculate runs the pricing engine for a stored instrument in the direction
// given by the request.
func (s *InstrumentService) Calculate(ctx context.Context, id string, req CalculateRequest) (pricing.Calculation, error) {
	if (req.Underlying == nil) == (req.Certificate == nil) {
		return pricing.Calculation{}, ErrInvalidCalculation
	}
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pricing.Calculation{}, fmt.Errorf("failed to get instrument: %w", err)
	}

	var (
		calc pricing.Calculation
		mode string
	)
	if req.Underlying != nil {
		mode = "fromUnderlying"
		calc = pricing.CalculateFromUnderlying(*req.Underlying, *inst)
	} else {
		mode = "fromCertificate"
		calc = pricing.CalculateFromCertificate(*req.Certificate, *inst)
	}

	result := "ok"
	if calc.Err != nil {
		result = "error"
		slog.DebugContext(ctx, "Calculation fell back to placeholder", "id", id, "mode", mode, "error", calc.Err)
	}
	metrics.CalculationsTotal.WithLabelValues(mode, result).Inc()
	return calc, nil
}

// LivePrice is the certificate value derived from the current underlying quote.
type LivePrice struct {
	InstrumentID      string   `json:"instrumentId"`
	Symbol            string   `json:"symbol"`
	Underlying        float64  `json:"underlying"`
	Certificate       *float64 `json:"certificate,omitempty"`
	KODistancePercent *float64 `json:"koDistancePercent,omitempty"`
	QuoteTime         string   `json:"quoteTime,omitempty"`
	Reason            string   `json:"reason,omitempty"`
}

func (s *InstrumentService) LivePrice(ctx context.Context, id string) (*LivePrice, error) {
	if s.quotes == nil {
		return nil, ErrQuotesUnavailable
	}
	inst, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get instrument: %w", err)
	}
	symbol, ok := marketdata.SymbolFor(*inst)
	if !ok {
		return nil, fmt.Errorf("%w: %s", marketdata.ErrNoSymbol, inst.SubgroupOrUnderlying())
	}
	quote, err := s.quotes.Quote(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	underlying, err := quote.Price.Float64()
	if err != nil {
		return nil, fmt.Errorf("failed to convert quote for %s: %w", symbol, err)
	}

	live := &LivePrice{
		InstrumentID: inst.ID,
		Symbol:       symbol,
		Underlying:   underlying,
		QuoteTime:    quote.Time,
	}
	if price, err := pricing.PriceFromUnderlying(*inst, underlying); err != nil {
		live.Reason = err.Error()
	} else {
		live.Certificate = &price
	}
	if d, ok := pricing.KODistancePercent(*inst, underlying); ok {
		live.KODistancePercent = &d
	}
	return live, nil
}

// ParseImport runs the import parser on text without touching any draft.
func (s *InstrumentService) ParseImport(ctx context.Context, text string) importer.Basics {
	b := importer.Parse(text)
	recordImport(ctx, b)
	return b
}

func recordImport(ctx context.Context, b importer.Basics) {
	fields := b.Fields()
	outcome := "matched"
	if len(fields) == 0 {
		outcome = "empty"
	}
	metrics.ImportsTotal.WithLabelValues(outcome).Inc()
	for _, f := range fields {
		metrics.ImportFieldsTotal.WithLabelValues(f).Inc()
	}
	slog.DebugContext(ctx, "Import parsed", "fields", fields)
}
