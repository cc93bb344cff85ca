package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/iam-service/internal"
	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ExistsByName(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&iamDatamodel.Department{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count departments by name: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) Create(department *iamDatamodel.Department) error {
	if err := r.db.Create(department).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("Department already exists", internal.ErrCodeDepartmentExists)
		}
		return fmt.Errorf("create department: %w", err)
	}
	return nil
}

func (r *Repository) FindAll() ([]iamDatamodel.Department, error) {
	var departments []iamDatamodel.Department
	if err := r.db.Order("name").Find(&departments).Error; err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	return departments, nil
}
