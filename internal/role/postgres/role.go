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
	if err := r.db.Model(&iamDatamodel.Role{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count roles by name: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) Create(role *iamDatamodel.Role) error {
	// Omit("Permissions.*") links existing permission rows without
	// updating them.
	if err := r.db.Omit("Permissions.*").Create(role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.NewConflictError("Role already exists", internal.ErrCodeRoleExists)
		}
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

func (r *Repository) FindAll() ([]iamDatamodel.Role, error) {
	var roles []iamDatamodel.Role
	if err := r.db.Preload("Permissions").Order("name").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return roles, nil
}

func (r *Repository) FindPermissionsByNames(names []string) ([]iamDatamodel.Permission, error) {
	var permissions []iamDatamodel.Permission
	if err := r.db.Where("name IN ?", names).Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("find permissions by names: %w", err)
	}
	return permissions, nil
}
