package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fabworks-io/quotation-engine/pkg/apperrors"
	"github.com/fabworks-io/quotation-engine/pkg/models"
)

type finalizerFixture struct {
	quotes  *fakeCustomerQuoteRepo
	schemas *fakeMarkupSchemaRepo
	svc     QuoteFinalizer
}

func newFinalizerFixture(t *testing.T, schema *models.MarkupSchema) *finalizerFixture {
	t.Helper()

	quotes := &fakeCustomerQuoteRepo{}
	schemas := &fakeMarkupSchemaRepo{active: schema}
	quoting := NewQuotingService(schemas, "USD", zap.NewNop())
	numbers := NewQuoteNumberGenerator(quotes, "QUOTE")
	numbers.now = fixedClock(time.Date(2026, time.August, 15, 0, 0, 0, 0, time.UTC))

	return &finalizerFixture{
		quotes:  quotes,
		schemas: schemas,
		svc:     NewQuoteFinalizer(quotes, schemas, quoting, numbers, "im", zap.NewNop()),
	}
}

func activeSchema() *models.MarkupSchema {
	return &models.MarkupSchema{
		ID:       uuid.New(),
		Name:     "default",
		IsActive: true,
		Rules:    testRules(),
	}
}

func TestFinalize_SimpleMode(t *testing.T) {
	schema := activeSchema()
	f := newFinalizerFixture(t, schema)

	base := dec("1234.56")
	fees := dec("25.00")
	quote, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
		ProjectID: uuid.New(),
		BaseCost:  &base,
		Qty:       intPtr(250),
		Category:  "im",
		Fees:      &fees,
	})
	require.NoError(t, err)

	// 250 units of "im" lands in the 25% band.
	assert.Equal(t, "1234.56", quote.Subtotal.StringFixed(2))
	assert.Equal(t, "1568.20", quote.Total.StringFixed(2)) // 1543.20 + 25.00
	assert.Equal(t, schema.ID, quote.MarkupSchemaID)
	assert.Equal(t, "QUOTE-202608-0001", quote.QuoteNumber)
	assert.Equal(t, models.QuoteStatusDraft, quote.Status)

	// Simple mode stores a synthetic single line.
	require.Len(t, quote.LineItems.Items, 1)
	assert.Equal(t, models.LineItemModeSimple, quote.LineItems.Mode)
	assert.Equal(t, 250, quote.LineItems.Items[0].Qty)
	assert.Equal(t, "Base cost (im)", quote.LineItems.Items[0].Description)

	require.Len(t, f.quotes.created, 1)
}

func TestFinalize_StatusDefaultsToDraft(t *testing.T) {
	f := newFinalizerFixture(t, activeSchema())

	base := dec("100")
	quote, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
		ProjectID: uuid.New(),
		BaseCost:  &base,
		Qty:       intPtr(1),
	})
	require.NoError(t, err)

	// The service applies the default itself; the returned quote must be
	// draft before any repository-side defaulting.
	assert.Equal(t, models.QuoteStatusDraft, quote.Status)
	require.Len(t, f.quotes.created, 1)
	assert.Equal(t, models.QuoteStatusDraft, f.quotes.created[0].Status)
}

func TestFinalize_ExplicitStatusPreserved(t *testing.T) {
	f := newFinalizerFixture(t, activeSchema())

	base := dec("100")
	quote, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
		ProjectID: uuid.New(),
		BaseCost:  &base,
		Qty:       intPtr(1),
		Status:    models.QuoteStatusApproved,
	})
	require.NoError(t, err)

	assert.Equal(t, models.QuoteStatusApproved, quote.Status)
}

func TestFinalize_LineItemMode(t *testing.T) {
	f := newFinalizerFixture(t, activeSchema())

	quote, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
		ProjectID: uuid.New(),
		Category:  "im",
		LineItems: []models.LineItem{
			{Description: "Tooling", Qty: 1, UnitCost: dec("500.00")},
			{Description: "Units", Qty: 99, UnitCost: dec("10.00")},
		},
	})
	require.NoError(t, err)

	// subtotal 1490.00, computed qty 100 → 25% band → 1862.50
	assert.Equal(t, "1490.00", quote.Subtotal.StringFixed(2))
	assert.Equal(t, "1862.50", quote.Total.StringFixed(2))
	assert.Equal(t, models.LineItemModeItems, quote.LineItems.Mode)
	assert.Len(t, quote.LineItems.Items, 2)
}

func TestFinalize_MarkupOverrideWins(t *testing.T) {
	f := newFinalizerFixture(t, activeSchema())

	base := dec("100")
	override := dec("50")
	quote, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
		ProjectID:         uuid.New(),
		BaseCost:          &base,
		Qty:               intPtr(10),
		MarkupOverridePct: &override,
	})
	require.NoError(t, err)

	assert.Equal(t, "150.00", quote.Total.StringFixed(2))
}

func TestFinalize_ExplicitSchemaIDSkipsActiveLookup(t *testing.T) {
	f := newFinalizerFixture(t, nil) // no active schema

	schemaID := uuid.New()
	base := dec("100")
	override := dec("0")
	quote, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
		ProjectID:         uuid.New(),
		MarkupSchemaID:    &schemaID,
		BaseCost:          &base,
		Qty:               intPtr(1),
		MarkupOverridePct: &override,
	})
	require.NoError(t, err)

	assert.Equal(t, schemaID, quote.MarkupSchemaID)
}

func TestFinalize_NoActiveSchema(t *testing.T) {
	f := newFinalizerFixture(t, nil)

	base := dec("100")
	_, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
		ProjectID: uuid.New(),
		BaseCost:  &base,
		Qty:       intPtr(1),
	})
	assert.ErrorIs(t, err, apperrors.ErrNoActiveMarkupSchema)
}

func TestFinalize_MissingCostInput(t *testing.T) {
	f := newFinalizerFixture(t, activeSchema())

	_, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
		ProjectID: uuid.New(),
	})
	assert.ErrorIs(t, err, apperrors.ErrMissingCostInput)
}

func TestFinalize_SnapshotRecordsCalculation(t *testing.T) {
	f := newFinalizerFixture(t, activeSchema())

	base := dec("100")
	tax := dec("8.25")
	quote, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
		ProjectID: uuid.New(),
		BaseCost:  &base,
		Qty:       intPtr(10),
		Category:  "im",
		Tax:       &tax,
	})
	require.NoError(t, err)

	require.NotNil(t, quote.Snapshot)
	assert.Equal(t, quote.QuoteNumber, quote.Snapshot["quote_number"])

	calc, ok := quote.Snapshot["calc"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 10, calc["computed_qty"])
	assert.Equal(t, "35", calc["markup_pct"])
	assert.Equal(t, "8.25", calc["tax"])
	assert.Equal(t, "143.25", calc["total"]) // 135.00 + 8.25

	_, ok = quote.Snapshot["input"].(map[string]any)
	assert.True(t, ok)
}

func TestFinalize_SequentialQuoteNumbers(t *testing.T) {
	f := newFinalizerFixture(t, activeSchema())

	base := dec("100")
	for i, want := range []string{"QUOTE-202608-0001", "QUOTE-202608-0002", "QUOTE-202608-0003"} {
		quote, err := f.svc.Finalize(context.Background(), &QuoteFinalizeRequest{
			ProjectID: uuid.New(),
			BaseCost:  &base,
			Qty:       intPtr(1),
		})
		require.NoError(t, err, "finalize %d", i)
		assert.Equal(t, want, quote.QuoteNumber)
	}
}
