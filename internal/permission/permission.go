package permission

import (
	"strings"

	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
)

type RepositoryAPI interface {
	ExistsByName(name string) (bool, error)
	Create(permission *iamDatamodel.Permission) error
	FindAll() ([]iamDatamodel.Permission, error)
}

type CreatePermissionDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreatePermissionDTO) Validate() error {
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

type PermissionResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func ToPermissionResponse(model *iamDatamodel.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
	}
}
