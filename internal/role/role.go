package role

import (
	"sort"
	"strings"

	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
)

// RepositoryAPI is the store contract for role administration.
type RepositoryAPI interface {
	ExistsByName(name string) (bool, error)
	Create(role *iamDatamodel.Role) error
	FindAll() ([]iamDatamodel.Role, error)
	FindPermissionsByNames(names []string) ([]iamDatamodel.Permission, error)
}

type CreateRoleDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateRoleDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if len(d.Name) > 120 {
		return ValidationError{Msg: "name must be at most 120 characters"}
	}
	if len(d.Description) > 255 {
		return ValidationError{Msg: "description must be at most 255 characters"}
	}
	return nil
}

type RoleResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions"`
}

func ToRoleResponse(model *iamDatamodel.Role) RoleResponse {
	permissions := make([]string, 0, len(model.Permissions))
	for _, p := range model.Permissions {
		permissions = append(permissions, p.Name)
	}
	sort.Strings(permissions)

	return RoleResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Permissions: permissions,
	}
}
