package permission

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

func (s *Service) List() ([]PermissionResponse, error) {
	permissions, err := s.repo.FindAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to list permissions", err)
	}

	out := make([]PermissionResponse, 0, len(permissions))
	for i := range permissions {
		out = append(out, ToPermissionResponse(&permissions[i]))
	}
	return out, nil
}

func (s *Service) Create(dto CreatePermissionDTO) (PermissionResponse, error) {
	if err := dto.Validate(); err != nil {
		return PermissionResponse{}, err
	}

	exists, err := s.repo.ExistsByName(dto.Name)
	if err != nil {
		return PermissionResponse{}, internal.NewInternalError("failed to check permission name", err)
	}
	if exists {
		return PermissionResponse{}, internal.NewConflictError("Permission already exists", internal.ErrCodePermissionExists)
	}

	model := &iamDatamodel.Permission{
		Name:        dto.Name,
		Description: dto.Description,
	}
	if err := s.repo.Create(model); err != nil {
		return PermissionResponse{}, err
	}

	return ToPermissionResponse(model), nil
}
