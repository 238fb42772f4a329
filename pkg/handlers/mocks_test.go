package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fabworks-io/quotation-engine/pkg/models"
	"github.com/fabworks-io/quotation-engine/pkg/services"
	"github.com/fabworks-io/quotation-engine/pkg/validate"
)

// fakeProjectService validates like the real one but stores in memory.
type fakeProjectService struct {
	projects []*models.Project
	listErr  error
}

func (f *fakeProjectService) Create(ctx context.Context, in *models.ProjectCreate) (*models.Project, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	p := in.ToProject()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.projects = append([]*models.Project{p}, f.projects...)
	return p, nil
}

func (f *fakeProjectService) List(ctx context.Context) ([]*models.Project, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.projects, nil
}

// fakeQuotingService applies a fixed markup percentage.
type fakeQuotingService struct {
	pct decimal.Decimal
	err error
}

func (f *fakeQuotingService) Preview(ctx context.Context, req *services.QuotePreviewRequest) (*services.QuotePreviewResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	pct := f.pct
	if req.MarkupOverridePct != nil {
		pct = *req.MarkupOverridePct
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	return &services.QuotePreviewResponse{
		Category:   req.Category,
		Qty:        req.Qty,
		BaseCost:   req.BaseCost,
		MarkupPct:  pct,
		TotalPrice: services.ComputeCustomerPrice(req.BaseCost, pct),
		Currency:   currency,
	}, nil
}

func (f *fakeQuotingService) DetermineMarkupPct(ctx context.Context, category string, qty int) (decimal.Decimal, error) {
	return f.pct, f.err
}

// fakeQuoteFinalizer returns a canned quote or error.
type fakeQuoteFinalizer struct {
	quote *models.CustomerQuote
	err   error
}

func (f *fakeQuoteFinalizer) Finalize(ctx context.Context, req *services.QuoteFinalizeRequest) (*models.CustomerQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quote, nil
}

var (
	_ services.ProjectService = (*fakeProjectService)(nil)
	_ services.QuotingService = (*fakeQuotingService)(nil)
	_ services.QuoteFinalizer = (*fakeQuoteFinalizer)(nil)
)
