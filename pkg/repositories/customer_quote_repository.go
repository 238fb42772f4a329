package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fabworks-io/quotation-engine/pkg/apperrors"
	"github.com/fabworks-io/quotation-engine/pkg/database"
	"github.com/fabworks-io/quotation-engine/pkg/models"
)

// CustomerQuoteRepository defines the interface for customer quote data access.
type CustomerQuoteRepository interface {
	Create(ctx context.Context, quote *models.CustomerQuote) error
	Get(ctx context.Context, id uuid.UUID) (*models.CustomerQuote, error)
	// MaxQuoteNumber returns the lexicographically greatest quote number
	// starting with prefix, or "" when none exists. Quote numbers embed a
	// zero-padded sequence, so lexicographic max is the numeric max.
	MaxQuoteNumber(ctx context.Context, prefix string) (string, error)
}

// customerQuoteRepository implements CustomerQuoteRepository using PostgreSQL.
type customerQuoteRepository struct {
	db *database.DB
}

// NewCustomerQuoteRepository creates a new customer quote repository.
func NewCustomerQuoteRepository(db *database.DB) CustomerQuoteRepository {
	return &customerQuoteRepository{db: db}
}

// Create inserts a finalized customer quote. Quote numbers are generated
// application-side; the unique index on quote_number is the backstop against
// concurrent finalizes, surfaced as apperrors.ErrDuplicateQuoteNumber.
func (r *customerQuoteRepository) Create(ctx context.Context, quote *models.CustomerQuote) error {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}

	now := time.Now().UTC()
	quote.CreatedAt = now
	quote.UpdatedAt = now
	if quote.Status == "" {
		quote.Status = models.QuoteStatusDraft
	}

	lineItems, err := json.Marshal(quote.LineItems)
	if err != nil {
		return fmt.Errorf("failed to marshal line items: %w", err)
	}

	query := `
		INSERT INTO customer_quotes (
			id, quote_number, project_id, selected_supplier_quote_id, markup_schema_id,
			line_items, subtotal, fees, tax, total, valid_until, status, snapshot,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err = r.db.Exec(ctx, query,
		quote.ID,
		quote.QuoteNumber,
		quote.ProjectID,
		quote.SelectedSupplierQuoteID,
		quote.MarkupSchemaID,
		lineItems,
		quote.Subtotal,
		quote.Fees,
		quote.Tax,
		quote.Total,
		quote.ValidUntil,
		quote.Status,
		quote.Snapshot,
		quote.CreatedAt,
		quote.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		// 23505 = unique_violation
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicateQuoteNumber
		}
		return fmt.Errorf("failed to create customer quote: %w", err)
	}

	return nil
}

// Get retrieves a customer quote by ID.
func (r *customerQuoteRepository) Get(ctx context.Context, id uuid.UUID) (*models.CustomerQuote, error) {
	query := `
		SELECT id, quote_number, project_id, selected_supplier_quote_id, markup_schema_id,
		       line_items, subtotal, fees, tax, total, valid_until, status, snapshot,
		       created_at, updated_at
		FROM customer_quotes
		WHERE id = $1`

	var quote models.CustomerQuote
	var lineItems []byte

	err := r.db.QueryRow(ctx, query, id).Scan(
		&quote.ID,
		&quote.QuoteNumber,
		&quote.ProjectID,
		&quote.SelectedSupplierQuoteID,
		&quote.MarkupSchemaID,
		&lineItems,
		&quote.Subtotal,
		&quote.Fees,
		&quote.Tax,
		&quote.Total,
		&quote.ValidUntil,
		&quote.Status,
		&quote.Snapshot,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get customer quote: %w", err)
	}

	if err := json.Unmarshal(lineItems, &quote.LineItems); err != nil {
		return nil, fmt.Errorf("failed to unmarshal line items: %w", err)
	}

	return &quote, nil
}

// MaxQuoteNumber returns the greatest existing quote number with the given prefix.
func (r *customerQuoteRepository) MaxQuoteNumber(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT COALESCE(MAX(quote_number), '')
		FROM customer_quotes
		WHERE quote_number LIKE $1 || '%'`

	var max string
	if err := r.db.QueryRow(ctx, query, prefix).Scan(&max); err != nil {
		return "", fmt.Errorf("failed to query max quote number: %w", err)
	}
	return max, nil
}

// Ensure customerQuoteRepository implements CustomerQuoteRepository at compile time.
var _ CustomerQuoteRepository = (*customerQuoteRepository)(nil)
