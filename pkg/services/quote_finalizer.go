package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fabworks-io/quotation-engine/pkg/apperrors"
	"github.com/fabworks-io/quotation-engine/pkg/models"
	"github.com/fabworks-io/quotation-engine/pkg/repositories"
)

// QuoteFinalizeRequest is the payload for finalizing a customer quote.
// Two input modes are supported: line-item mode (LineItems set) and simple
// mode (BaseCost and Qty set).
type QuoteFinalizeRequest struct {
	ProjectID               uuid.UUID         `json:"project_id" validate:"required"`
	SelectedSupplierQuoteID *uuid.UUID        `json:"selected_supplier_quote_id"`
	MarkupSchemaID          *uuid.UUID        `json:"markup_schema_id"`
	LineItems               []models.LineItem `json:"line_items" validate:"omitempty,dive"`
	BaseCost                *decimal.Decimal  `json:"base_cost"`
	Qty                     *int              `json:"qty" validate:"omitempty,gte=1"`
	Category                string            `json:"category"`
	MarkupOverridePct       *decimal.Decimal  `json:"markup_override_pct"`
	Fees                    *decimal.Decimal  `json:"fees"`
	Tax                     *decimal.Decimal  `json:"tax"`
	ValidUntil              *time.Time        `json:"valid_until"`
	Status                  string            `json:"status" validate:"omitempty,oneof=draft approved sent accepted lost"`
}

// QuoteFinalizer finalizes customer quotes: it resolves the markup schema,
// computes totals, assigns a quote number, and persists the quote with a
// full calculation snapshot.
type QuoteFinalizer interface {
	Finalize(ctx context.Context, req *QuoteFinalizeRequest) (*models.CustomerQuote, error)
}

type quoteFinalizer struct {
	quotes          repositories.CustomerQuoteRepository
	schemas         repositories.MarkupSchemaRepository
	quoting         QuotingService
	numbers         *QuoteNumberGenerator
	defaultCategory string
	logger          *zap.Logger
}

// NewQuoteFinalizer creates a new quote finalizer. defaultCategory is used
// for markup resolution when the request omits a category.
func NewQuoteFinalizer(
	quotes repositories.CustomerQuoteRepository,
	schemas repositories.MarkupSchemaRepository,
	quoting QuotingService,
	numbers *QuoteNumberGenerator,
	defaultCategory string,
	logger *zap.Logger,
) QuoteFinalizer {
	return &quoteFinalizer{
		quotes:          quotes,
		schemas:         schemas,
		quoting:         quoting,
		numbers:         numbers,
		defaultCategory: defaultCategory,
		logger:          logger,
	}
}

// Finalize computes and persists a customer quote.
func (s *quoteFinalizer) Finalize(ctx context.Context, req *QuoteFinalizeRequest) (*models.CustomerQuote, error) {
	schemaID, err := s.resolveSchemaID(ctx, req)
	if err != nil {
		return nil, err
	}

	subtotal, computedQty, lineItems, err := s.resolveSubtotal(req)
	if err != nil {
		return nil, err
	}

	markupPct, err := s.resolveMarkupPct(ctx, req, computedQty)
	if err != nil {
		return nil, err
	}
	beforeExtras := ComputeCustomerPrice(subtotal, markupPct)

	fees := decimal.Zero
	if req.Fees != nil {
		fees = req.Fees.Round(2)
	}
	tax := decimal.Zero
	if req.Tax != nil {
		tax = req.Tax.Round(2)
	}
	grandTotal := beforeExtras.Add(fees).Add(tax).Round(2)

	quoteNumber, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, err
	}

	snapshot, err := buildSnapshot(req, quoteNumber, computedQty, markupPct, subtotal, beforeExtras, fees, tax, grandTotal)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.QuoteStatusDraft
	}

	quote := &models.CustomerQuote{
		QuoteNumber:             quoteNumber,
		ProjectID:               req.ProjectID,
		SelectedSupplierQuoteID: req.SelectedSupplierQuoteID,
		MarkupSchemaID:          schemaID,
		LineItems:               lineItems,
		Subtotal:                subtotal,
		Fees:                    fees,
		Tax:                     tax,
		Total:                   grandTotal,
		ValidUntil:              req.ValidUntil,
		Status:                  status,
		Snapshot:                snapshot,
	}

	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, err
	}

	s.logger.Info("Finalized customer quote",
		zap.String("quote_number", quote.QuoteNumber),
		zap.String("project_id", quote.ProjectID.String()),
		zap.String("total", quote.Total.String()))

	return quote, nil
}

// resolveSchemaID prefers an explicit schema id over the active schema.
func (s *quoteFinalizer) resolveSchemaID(ctx context.Context, req *QuoteFinalizeRequest) (uuid.UUID, error) {
	if req.MarkupSchemaID != nil {
		return *req.MarkupSchemaID, nil
	}

	schema, err := s.schemas.GetActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return uuid.Nil, apperrors.ErrNoActiveMarkupSchema
		}
		return uuid.Nil, err
	}
	return schema.ID, nil
}

// resolveSubtotal computes the pre-markup subtotal and quantity from either
// input mode. Simple mode stores a synthetic single line so the persisted
// line_items document is never empty.
func (s *quoteFinalizer) resolveSubtotal(req *QuoteFinalizeRequest) (decimal.Decimal, int, models.LineItemsDoc, error) {
	if len(req.LineItems) > 0 {
		subtotal := decimal.Zero
		qty := 0
		for _, li := range req.LineItems {
			subtotal = subtotal.Add(li.UnitCost.Mul(decimal.NewFromInt(int64(li.Qty))))
			qty += li.Qty
		}
		doc := models.LineItemsDoc{Mode: models.LineItemModeItems, Items: req.LineItems}
		return subtotal.Round(2), qty, doc, nil
	}

	if req.BaseCost == nil || req.Qty == nil {
		return decimal.Zero, 0, models.LineItemsDoc{}, apperrors.ErrMissingCostInput
	}

	subtotal := req.BaseCost.Round(2)
	qty := *req.Qty

	category := req.Category
	if category == "" {
		category = "n/a"
	}
	perUnit := subtotal.Div(decimal.NewFromInt(int64(qty))).Round(2)
	doc := models.LineItemsDoc{
		Mode: models.LineItemModeSimple,
		Items: []models.LineItem{{
			Description: fmt.Sprintf("Base cost (%s)", category),
			Qty:         qty,
			UnitCost:    perUnit,
		}},
	}

	return subtotal, qty, doc, nil
}

// resolveMarkupPct applies the override when present, otherwise looks up the
// band for (category or default, computed qty or payload qty or 1).
func (s *quoteFinalizer) resolveMarkupPct(ctx context.Context, req *QuoteFinalizeRequest, computedQty int) (decimal.Decimal, error) {
	if req.MarkupOverridePct != nil {
		return *req.MarkupOverridePct, nil
	}

	category := req.Category
	if category == "" {
		category = s.defaultCategory
	}

	qty := computedQty
	if qty == 0 && req.Qty != nil {
		qty = *req.Qty
	}
	if qty == 0 {
		qty = 1
	}

	return s.quoting.DetermineMarkupPct(ctx, category, qty)
}

// buildSnapshot records the raw input and every computed value so a quote
// can be audited and reproduced later.
func buildSnapshot(
	req *QuoteFinalizeRequest,
	quoteNumber string,
	computedQty int,
	markupPct, subtotal, beforeExtras, fees, tax, total decimal.Decimal,
) (models.JSONBMap, error) {
	rawInput, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal finalize input: %w", err)
	}
	var input map[string]any
	if err := json.Unmarshal(rawInput, &input); err != nil {
		return nil, fmt.Errorf("failed to build snapshot input: %w", err)
	}

	return models.JSONBMap{
		"input": input,
		"calc": map[string]any{
			"computed_qty":  computedQty,
			"markup_pct":    markupPct.String(),
			"subtotal":      subtotal.String(),
			"before_extras": beforeExtras.String(),
			"fees":          fees.String(),
			"tax":           tax.String(),
			"total":         total.String(),
		},
		"quote_number": quoteNumber,
	}, nil
}

// Ensure quoteFinalizer implements QuoteFinalizer at compile time.
var _ QuoteFinalizer = (*quoteFinalizer)(nil)
