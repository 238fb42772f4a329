package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fabworks-io/quotation-engine/pkg/repositories"
)

// QuoteNumberGenerator produces quote numbers like QUOTE-202608-0007: a
// configurable prefix, the current month, and a zero-padded per-month
// sequence. Generation is application-side; the unique index on
// quote_number catches concurrent duplicates.
type QuoteNumberGenerator struct {
	quotes repositories.CustomerQuoteRepository
	prefix string
	now    func() time.Time
}

// NewQuoteNumberGenerator creates a generator with the given prefix
// (e.g. "QUOTE").
func NewQuoteNumberGenerator(quotes repositories.CustomerQuoteRepository, prefix string) *QuoteNumberGenerator {
	return &QuoteNumberGenerator{
		quotes: quotes,
		prefix: prefix,
		now:    time.Now,
	}
}

// Next returns the next quote number for the current month. The sequence is
// derived from the greatest existing number with this month's prefix; an
// unparseable tail restarts the sequence at 1.
func (g *QuoteNumberGenerator) Next(ctx context.Context) (string, error) {
	monthPrefix := fmt.Sprintf("%s-%s-", g.prefix, g.now().UTC().Format("200601"))

	last, err := g.quotes.MaxQuoteNumber(ctx, monthPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to look up last quote number: %w", err)
	}

	n := 0
	if last != "" {
		parts := strings.Split(last, "-")
		if parsed, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			n = parsed
		}
	}

	return fmt.Sprintf("%s%04d", monthPrefix, n+1), nil
}
