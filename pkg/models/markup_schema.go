package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarkupBand is a quantity range with the markup percentage applied to it.
// MaxQty nil means the band is open-ended.
type MarkupBand struct {
	MinQty        int             `json:"min_qty"`
	MaxQty        *int            `json:"max_qty,omitempty"`
	MarkupPercent decimal.Decimal `json:"markup_percent"`
}

// MarkupRules holds the quantity bands for one service type.
type MarkupRules struct {
	Bands []MarkupBand `json:"bands"`
}

// MarkupSchema is a named set of markup rules keyed by service type
// (design|pcba|im|prototyping). At most one schema should be active;
// preview and finalize use the oldest active one.
type MarkupSchema struct {
	ID        uuid.UUID              `json:"id"`
	Name      string                 `json:"name"`
	IsActive  bool                   `json:"is_active"`
	Rules     map[string]MarkupRules `json:"rules"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}
