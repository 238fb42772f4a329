package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/fabworks-io/quotation-engine/pkg/models"
	"github.com/fabworks-io/quotation-engine/pkg/repositories"
	"github.com/fabworks-io/quotation-engine/pkg/validate"
)

// ProjectService defines the interface for project operations.
type ProjectService interface {
	// Create validates the untrusted payload, applies defaults (status
	// draft), and persists the project. Returns *validate.ValidationError
	// when any field does not conform.
	Create(ctx context.Context, in *models.ProjectCreate) (*models.Project, error)

	// List returns all projects, newest first.
	List(ctx context.Context) ([]*models.Project, error)
}

type projectService struct {
	projects repositories.ProjectRepository
	logger   *zap.Logger
}

// NewProjectService creates a new project service.
func NewProjectService(projects repositories.ProjectRepository, logger *zap.Logger) ProjectService {
	return &projectService{projects: projects, logger: logger}
}

// Create validates and persists a new project.
func (s *projectService) Create(ctx context.Context, in *models.ProjectCreate) (*models.Project, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	project := in.ToProject()
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("Created project",
		zap.String("project_id", project.ID.String()),
		zap.String("service_type", string(project.ServiceType)))

	return project, nil
}

// List returns all projects, newest first.
func (s *projectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.projects.List(ctx)
}

// Ensure projectService implements ProjectService at compile time.
var _ ProjectService = (*projectService)(nil)
