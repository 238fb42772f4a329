package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fabworks-io/quotation-engine/pkg/apperrors"
	"github.com/fabworks-io/quotation-engine/pkg/database"
	"github.com/fabworks-io/quotation-engine/pkg/models"
)

// MarkupSchemaRepository defines the interface for markup schema data access.
type MarkupSchemaRepository interface {
	Create(ctx context.Context, schema *models.MarkupSchema) error
	Get(ctx context.Context, id uuid.UUID) (*models.MarkupSchema, error)
	// GetActive returns the oldest active markup schema, or
	// apperrors.ErrNotFound when no schema is active.
	GetActive(ctx context.Context) (*models.MarkupSchema, error)
}

// markupSchemaRepository implements MarkupSchemaRepository using PostgreSQL.
type markupSchemaRepository struct {
	db *database.DB
}

// NewMarkupSchemaRepository creates a new markup schema repository.
func NewMarkupSchemaRepository(db *database.DB) MarkupSchemaRepository {
	return &markupSchemaRepository{db: db}
}

// Create inserts a markup schema, or updates the rules and active flag if a
// schema with the same name exists (idempotent seeding).
func (r *markupSchemaRepository) Create(ctx context.Context, schema *models.MarkupSchema) error {
	if schema.ID == uuid.Nil {
		schema.ID = uuid.New()
	}

	now := time.Now().UTC()
	schema.CreatedAt = now
	schema.UpdatedAt = now

	rules, err := json.Marshal(schema.Rules)
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	// RETURNING reflects the surviving row on conflict, so callers see the
	// existing schema's id and original created_at after an upsert.
	query := `
		INSERT INTO markup_schemas (id, name, is_active, rules, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE
		SET is_active = EXCLUDED.is_active,
		    rules = EXCLUDED.rules,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`

	err = r.db.QueryRow(ctx, query,
		schema.ID,
		schema.Name,
		schema.IsActive,
		rules,
		schema.CreatedAt,
		schema.UpdatedAt,
	).Scan(&schema.ID, &schema.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create markup schema: %w", err)
	}

	return nil
}

// Get retrieves a markup schema by ID.
func (r *markupSchemaRepository) Get(ctx context.Context, id uuid.UUID) (*models.MarkupSchema, error) {
	query := `
		SELECT id, name, is_active, rules, created_at, updated_at
		FROM markup_schemas
		WHERE id = $1`

	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetActive returns the oldest active markup schema.
func (r *markupSchemaRepository) GetActive(ctx context.Context) (*models.MarkupSchema, error) {
	query := `
		SELECT id, name, is_active, rules, created_at, updated_at
		FROM markup_schemas
		WHERE is_active = TRUE
		ORDER BY created_at ASC
		LIMIT 1`

	return r.scanOne(r.db.QueryRow(ctx, query))
}

func (r *markupSchemaRepository) scanOne(row rowScanner) (*models.MarkupSchema, error) {
	var schema models.MarkupSchema
	var rules []byte

	err := row.Scan(
		&schema.ID,
		&schema.Name,
		&schema.IsActive,
		&rules,
		&schema.CreatedAt,
		&schema.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get markup schema: %w", err)
	}

	if err := json.Unmarshal(rules, &schema.Rules); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rules: %w", err)
	}

	return &schema, nil
}

// Ensure markupSchemaRepository implements MarkupSchemaRepository at compile time.
var _ MarkupSchemaRepository = (*markupSchemaRepository)(nil)
