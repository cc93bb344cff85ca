package department

import (
	"github.com/frahmantamala/iam-service/internal"
	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
)

type Service struct {
	repo RepositoryAPI
}

func NewService(repo RepositoryAPI) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]DepartmentResponse, error) {
	departments, err := s.repo.FindAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to list departments", err)
	}

	out := make([]DepartmentResponse, 0, len(departments))
	for i := range departments {
		out = append(out, ToDepartmentResponse(&departments[i]))
	}
	return out, nil
}

func (s *Service) Create(dto CreateDepartmentDTO) (DepartmentResponse, error) {
	if err := dto.Validate(); err != nil {
		return DepartmentResponse{}, err
	}

	exists, err := s.repo.ExistsByName(dto.Name)
	if err != nil {
		return DepartmentResponse{}, internal.NewInternalError("failed to check department name", err)
	}
	if exists {
		return DepartmentResponse{}, internal.NewConflictError("Department already exists", internal.ErrCodeDepartmentExists)
	}

	model := &iamDatamodel.Department{Name: dto.Name}
	if err := s.repo.Create(model); err != nil {
		return DepartmentResponse{}, err
	}

	return ToDepartmentResponse(model), nil
}
