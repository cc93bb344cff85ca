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
	if err := r.db.Model(&iamDatamodel.Permission{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count permissions by name: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) Create(permission *iamDatamodel.Permission) error {
	if err := r.db.Create(permission).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("Permission already exists", internal.ErrCodePermissionExists)
		}
		return fmt.Errorf("create permission: %w", err)
	}
	return nil
}

func (r *Repository) FindAll() ([]iamDatamodel.Permission, error) {
	var permissions []iamDatamodel.Permission
	if err := r.db.Order("name").Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	return permissions, nil
}
