package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/fabworks-io/quotation-engine/pkg/apperrors"
	"github.com/fabworks-io/quotation-engine/pkg/models"
	"github.com/fabworks-io/quotation-engine/pkg/repositories"
)

// fakeMarkupSchemaRepo serves a single in-memory schema.
type fakeMarkupSchemaRepo struct {
	active *models.MarkupSchema
	err    error
}

func (f *fakeMarkupSchemaRepo) Create(ctx context.Context, schema *models.MarkupSchema) error {
	f.active = schema
	return nil
}

func (f *fakeMarkupSchemaRepo) Get(ctx context.Context, id uuid.UUID) (*models.MarkupSchema, error) {
	if f.active != nil && f.active.ID == id {
		return f.active, nil
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeMarkupSchemaRepo) GetActive(ctx context.Context) (*models.MarkupSchema, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.active == nil {
		return nil, apperrors.ErrNotFound
	}
	return f.active, nil
}

// fakeCustomerQuoteRepo records created quotes and serves MaxQuoteNumber
// from the stored set.
type fakeCustomerQuoteRepo struct {
	created   []*models.CustomerQuote
	createErr error
}

func (f *fakeCustomerQuoteRepo) Create(ctx context.Context, quote *models.CustomerQuote) error {
	if f.createErr != nil {
		return f.createErr
	}
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	f.created = append(f.created, quote)
	return nil
}

func (f *fakeCustomerQuoteRepo) Get(ctx context.Context, id uuid.UUID) (*models.CustomerQuote, error) {
	for _, q := range f.created {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeCustomerQuoteRepo) MaxQuoteNumber(ctx context.Context, prefix string) (string, error) {
	max := ""
	for _, q := range f.created {
		if len(q.QuoteNumber) >= len(prefix) && q.QuoteNumber[:len(prefix)] == prefix && q.QuoteNumber > max {
			max = q.QuoteNumber
		}
	}
	return max, nil
}

// fakeProjectRepo stores projects in memory, newest first.
type fakeProjectRepo struct {
	projects  []*models.Project
	createErr error
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	if f.createErr != nil {
		return f.createErr
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.Status == "" {
		project.Status = models.ProjectStatusDraft
	}
	f.projects = append([]*models.Project{project}, f.projects...)
	return nil
}

func (f *fakeProjectRepo) Get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	for _, p := range f.projects {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	return f.projects, nil
}

var (
	_ repositories.MarkupSchemaRepository  = (*fakeMarkupSchemaRepo)(nil)
	_ repositories.CustomerQuoteRepository = (*fakeCustomerQuoteRepo)(nil)
	_ repositories.ProjectRepository       = (*fakeProjectRepo)(nil)
)
