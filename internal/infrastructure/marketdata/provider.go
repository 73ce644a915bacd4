package marketdata

import (
	"context"
	"errors"

	"github.com/jmanzanog/ko-wizard/internal/domain"
)

var ErrNoSymbol = errors.New("no quote symbol for instrument")

// Quote is the last price of an underlying.
type Quote struct {
	Symbol   string
	Price    domain.Decimal
	Currency string
	Time     string
}

type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
}

// QuoteBatchResult is one entry of a batch quote request.
type QuoteBatchResult struct {
	Symbol string
	Quote  *Quote
	Error  error
}

// BatchQuoteProvider is implemented by providers that can fetch several
// quotes in one request.
type BatchQuoteProvider interface {
	QuoteProvider
	GetQuoteBatch(ctx context.Context, symbols []string) []QuoteBatchResult
}

var subgroupSymbols = map[domain.Subgroup]string{
	domain.SubgroupDAX:         "^GDAXI",
	domain.SubgroupDow:         "^DJI",
	domain.SubgroupSP500:       "^GSPC",
	domain.SubgroupNasdaq:      "^NDX",
	domain.SubgroupRussell2000: "^RUT",
	domain.SubgroupEURUSD:      "EURUSD=X",
	domain.SubgroupUSDJPY:      "USDJPY=X",
	domain.SubgroupGBPUSD:      "GBPUSD=X",
	domain.SubgroupOil:         "CL=F",
	domain.SubgroupGas:         "NG=F",
	domain.SubgroupGold:        "GC=F",
	domain.SubgroupBitcoinUSD:  "BTC-USD",
	domain.SubgroupEthereumUSD: "ETH-USD",
}

// SymbolFor returns the quote symbol of the instrument's underlying. Free-text
// underlyings have none.
func SymbolFor(inst domain.Instrument) (string, bool) {
	s, ok := subgroupSymbols[inst.Subgroup]
	return s, ok
}

// Symbols collects the distinct symbols of instruments, in first-seen order.
func Symbols(instruments []domain.Instrument) []string {
	seen := make(map[string]bool)
	var out []string
	for _, inst := range instruments {
		s, ok := SymbolFor(inst)
		if !ok || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
