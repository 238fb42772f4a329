// Package services contains the business logic of quotation-engine.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fabworks-io/quotation-engine/pkg/apperrors"
	"github.com/fabworks-io/quotation-engine/pkg/models"
	"github.com/fabworks-io/quotation-engine/pkg/repositories"
)

// one hundred, for percent math
var hundred = decimal.NewFromInt(100)

// QuotePreviewRequest is the payload for computing a customer price without
// persisting anything.
type QuotePreviewRequest struct {
	Category          string           `json:"category" validate:"required"`
	Qty               int              `json:"qty" validate:"required,gte=1"`
	BaseCost          decimal.Decimal  `json:"base_cost" validate:"required"`
	MarkupOverridePct *decimal.Decimal `json:"markup_override_pct"`
	Currency          string           `json:"currency"`
}

// QuotePreviewResponse echoes the inputs along with the resolved markup and
// computed total.
type QuotePreviewResponse struct {
	Category   string          `json:"category"`
	Qty        int             `json:"qty"`
	BaseCost   decimal.Decimal `json:"base_cost"`
	MarkupPct  decimal.Decimal `json:"markup_pct"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Currency   string          `json:"currency"`
}

// QuotingService resolves markup percentages and computes customer prices.
type QuotingService interface {
	// Preview computes the customer price for a base cost. Unknown
	// categories resolve to 0% markup rather than an error.
	Preview(ctx context.Context, req *QuotePreviewRequest) (*QuotePreviewResponse, error)

	// DetermineMarkupPct resolves the markup percentage for a category and
	// quantity from the active markup schema. Returns 0 when no schema is
	// active or no band matches.
	DetermineMarkupPct(ctx context.Context, category string, qty int) (decimal.Decimal, error)
}

type quotingService struct {
	schemas         repositories.MarkupSchemaRepository
	defaultCurrency string
	logger          *zap.Logger
}

// NewQuotingService creates a new quoting service.
func NewQuotingService(schemas repositories.MarkupSchemaRepository, defaultCurrency string, logger *zap.Logger) QuotingService {
	return &quotingService{
		schemas:         schemas,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

// Preview resolves the markup (override wins over band lookup) and computes
// the total price.
func (s *quotingService) Preview(ctx context.Context, req *QuotePreviewRequest) (*QuotePreviewResponse, error) {
	var markupPct decimal.Decimal
	if req.MarkupOverridePct != nil {
		markupPct = *req.MarkupOverridePct
	} else {
		pct, err := s.DetermineMarkupPct(ctx, req.Category, req.Qty)
		if err != nil {
			return nil, fmt.Errorf("failed to determine markup: %w", err)
		}
		markupPct = pct
	}

	currency := req.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	return &QuotePreviewResponse{
		Category:   req.Category,
		Qty:        req.Qty,
		BaseCost:   req.BaseCost,
		MarkupPct:  markupPct,
		TotalPrice: ComputeCustomerPrice(req.BaseCost, markupPct),
		Currency:   currency,
	}, nil
}

// DetermineMarkupPct fetches the active schema and looks up the band for the
// given category and quantity.
func (s *quotingService) DetermineMarkupPct(ctx context.Context, category string, qty int) (decimal.Decimal, error) {
	schema, err := s.schemas.GetActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Debug("No active markup schema; markup defaults to 0",
				zap.String("category", category))
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return FindMarkupPercent(schema.Rules, category, qty), nil
}

// FindMarkupPercent searches the schema rules for the band covering qty
// within the given category. A nil or zero MaxQty means the band is
// open-ended. Unknown category or no matching band yields 0.
func FindMarkupPercent(rules map[string]models.MarkupRules, category string, qty int) decimal.Decimal {
	service, ok := rules[category]
	if !ok {
		return decimal.Zero
	}

	for _, band := range service.Bands {
		if qty < band.MinQty {
			continue
		}
		if band.MaxQty == nil || *band.MaxQty == 0 || qty <= *band.MaxQty {
			return band.MarkupPercent
		}
	}

	return decimal.Zero
}

// ComputeCustomerPrice returns base_cost * (1 + markup_pct/100), rounded to cents.
func ComputeCustomerPrice(baseCost, markupPct decimal.Decimal) decimal.Decimal {
	total := baseCost.Mul(decimal.NewFromInt(1).Add(markupPct.Div(hundred)))
	return total.Round(2)
}

// Ensure quotingService implements QuotingService at compile time.
var _ QuotingService = (*quotingService)(nil)
