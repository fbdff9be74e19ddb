// api/service/project_service.go
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/fleet/api/dao"
	fleet_errors "github.com/dev-mohitbeniwal/fleet/api/errors"
	logger "github.com/dev-mohitbeniwal/fleet/api/logging"
	"github.com/dev-mohitbeniwal/fleet/api/model"
	"github.com/dev-mohitbeniwal/fleet/api/util"
)

// IProjectService defines the interface for project operations
type IProjectService interface {
	CreateProject(ctx context.Context, project model.Project) (*model.Project, error)
	GetProject(ctx context.Context, projectID int) (*model.Project, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
}

type ProjectLookup interface {
	ProjectExists(ctx context.Context, projectID int) (bool, error)
}

// ProjectService handles business logic for project operations
type ProjectService struct {
	projectDAO     *dao.ProjectDAO
	reader         *CacheAside[model.Project]
	users          UserLookup
	validationUtil *util.ValidationUtil
}

var (
	_ IProjectService = &ProjectService{}
	_ ProjectLookup   = &ProjectService{}
)

func NewProjectService(projectDAO *dao.ProjectDAO, reader *CacheAside[model.Project], users UserLookup, validationUtil *util.ValidationUtil) *ProjectService {
	return &ProjectService{
		projectDAO:     projectDAO,
		reader:         reader,
		users:          users,
		validationUtil: validationUtil,
	}
}

// CreateProject requires the owning user to exist. When the users service
// cannot be reached the error wraps ErrDependencyUnavailable or
// ErrCircuitOpen.
func (s *ProjectService) CreateProject(ctx context.Context, project model.Project) (*model.Project, error) {
	if err := s.validationUtil.ValidateStruct(project); err != nil {
		return nil, fmt.Errorf("%w: %v", fleet_errors.ErrInvalidProjectData, err)
	}

	exists, err := s.users.UserExists(ctx, project.UsuarioID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %w: usuario_id %d", fleet_errors.ErrInvalidProjectData, fleet_errors.ErrUserNotFound, project.UsuarioID)
	}

	project.ID = 0
	created, err := s.projectDAO.Create(ctx, project)
	if err != nil {
		logger.Error("Error creating project", zap.Error(err), zap.Int("usuarioID", project.UsuarioID))
		return nil, err
	}
	return created, nil
}

// GetProject reads through the cache.
func (s *ProjectService) GetProject(ctx context.Context, projectID int) (*model.Project, error) {
	return s.reader.Get(ctx, projectID)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projectDAO.List(ctx)
}

func (s *ProjectService) ProjectExists(ctx context.Context, projectID int) (bool, error) {
	_, err := s.reader.Get(ctx, projectID)
	if errors.Is(err, fleet_errors.ErrProjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
