package role

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

func (s *Service) List() ([]RoleResponse, error) {
	roles, err := s.repo.FindAll()
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}

	out := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		out = append(out, ToRoleResponse(&roles[i]))
	}
	return out, nil
}

// Create inserts a role with its permission set resolved by name. Every
// referenced permission must already exist. The permission set is fixed at
// creation.
func (s *Service) Create(dto CreateRoleDTO) (RoleResponse, error) {
	if err := dto.Validate(); err != nil {
		return RoleResponse{}, err
	}

	exists, err := s.repo.ExistsByName(dto.Name)
	if err != nil {
		return RoleResponse{}, internal.NewInternalError("failed to check role name", err)
	}
	if exists {
		return RoleResponse{}, internal.NewConflictError("Role already exists", internal.ErrCodeRoleExists)
	}

	model := &iamDatamodel.Role{
		Name:        dto.Name,
		Description: dto.Description,
	}

	if len(dto.Permissions) > 0 {
		permissions, err := s.repo.FindPermissionsByNames(dto.Permissions)
		if err != nil {
			return RoleResponse{}, internal.NewInternalError("failed to resolve permissions", err)
		}
		if len(permissions) != len(dedupe(dto.Permissions)) {
			return RoleResponse{}, internal.NewNotFoundError("Some permissions not found", internal.ErrCodePermissionNotFound)
		}
		model.Permissions = permissions
	}

	if err := s.repo.Create(model); err != nil {
		return RoleResponse{}, err
	}

	return ToRoleResponse(model), nil
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := names[:0:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
