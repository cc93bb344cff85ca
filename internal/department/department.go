package department

import (
	"strings"

	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
)

type RepositoryAPI interface {
	ExistsByName(name string) (bool, error)
	Create(department *iamDatamodel.Department) error
	FindAll() ([]iamDatamodel.Department, error)
}

type CreateDepartmentDTO struct {
	Name string `json:"name"`
}

type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateDepartmentDTO) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ValidationError{Msg: "name is required"}
	}
	if len(d.Name) > 120 {
		return ValidationError{Msg: "name must be at most 120 characters"}
	}
	return nil
}

type DepartmentResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func ToDepartmentResponse(model *iamDatamodel.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:   model.ID,
		Name: model.Name,
	}
}
