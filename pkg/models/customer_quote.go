package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer quote status values.
const (
	QuoteStatusDraft    = "draft"
	QuoteStatusApproved = "approved"
	QuoteStatusSent     = "sent"
	QuoteStatusAccepted = "accepted"
	QuoteStatusLost     = "lost"
)

// Line item modes recorded in the line_items document.
const (
	LineItemModeItems  = "items"  // caller supplied individual cost items
	LineItemModeSimple = "simple" // caller supplied a single base cost and qty
)

// LineItem is one cost row of a customer quote.
type LineItem struct {
	Description string          `json:"description"`
	Qty         int             `json:"qty" validate:"gte=1"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

// LineItemsDoc is the JSONB document stored on a customer quote. Simple-mode
// finalizes store a single synthetic line so the document is never empty.
type LineItemsDoc struct {
	Mode  string     `json:"mode"`
	Items []LineItem `json:"items"`
}

// CustomerQuote is a finalized (or draft) quote issued to a customer.
// Snapshot holds all inputs and computed values for auditability.
type CustomerQuote struct {
	ID                      uuid.UUID       `json:"id"`
	QuoteNumber             string          `json:"quote_number"`
	ProjectID               uuid.UUID       `json:"project_id"`
	SelectedSupplierQuoteID *uuid.UUID      `json:"selected_supplier_quote_id,omitempty"`
	MarkupSchemaID          uuid.UUID       `json:"markup_schema_id"`
	LineItems               LineItemsDoc    `json:"line_items"`
	Subtotal                decimal.Decimal `json:"subtotal"`
	Fees                    decimal.Decimal `json:"fees"`
	Tax                     decimal.Decimal `json:"tax"`
	Total                   decimal.Decimal `json:"total"`
	ValidUntil              *time.Time      `json:"valid_until,omitempty"`
	Status                  string          `json:"status"`
	Snapshot                JSONBMap        `json:"snapshot,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
}
