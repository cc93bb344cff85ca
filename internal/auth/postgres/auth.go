package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/frahmantamala/iam-service/internal"
	"github.com/frahmantamala/iam-service/internal/auth"
	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
)

// Repository backs the authentication flow with gorm. The database's unique
// indexes are the final arbiter for email and token-id uniqueness;
// duplicate-key violations are translated to the Conflict taxonomy here.
// Requires gorm opened with TranslateError so drivers report
// gorm.ErrDuplicatedKey uniformly.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(fn func(auth.Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) UserExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&iamDatamodel.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users by email: %w", err)
	}
	return count > 0, nil
}

func (r *Repository) CreateUser(user *auth.User) error {
	model := toUserModel(user)

	// Omit("Roles.*") writes the join rows without touching the role rows
	// themselves; roles are shared entities.
	if err := r.db.Omit("Roles.*").Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return internal.ErrEmailAlreadyRegistered
		}
		return fmt.Errorf("create user: %w", err)
	}

	user.ID = model.ID
	return nil
}

func (r *Repository) GetUserByEmail(email string) (*auth.User, error) {
	var model iamDatamodel.User
	err := r.db.
		Preload("Roles.Permissions").
		Preload("Department").
		Where("email = ?", email).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return toDomainUser(&model), nil
}

func (r *Repository) GetUserByID(id string) (*auth.User, error) {
	var model iamDatamodel.User
	err := r.db.
		Preload("Roles.Permissions").
		Preload("Department").
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return toDomainUser(&model), nil
}

func (r *Repository) GetRoleByName(name string) (*auth.Role, error) {
	var model iamDatamodel.Role
	err := r.db.
		Preload("Permissions").
		Where("name = ?", name).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.NewNotFoundError(fmt.Sprintf("Role %s not found", name), internal.ErrCodeRoleNotFound)
		}
		return nil, fmt.Errorf("get role by name: %w", err)
	}
	return toDomainRole(&model), nil
}

func (r *Repository) CreateRefreshToken(record *iamDatamodel.RefreshToken) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("create refresh token record: %w", err)
	}
	return nil
}

func toUserModel(user *auth.User) *iamDatamodel.User {
	model := &iamDatamodel.User{
		ID:           user.ID,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		FullName:     user.FullName,
		CustomClaims: user.CustomClaims,
	}
	if user.Department != nil {
		model.DepartmentID = &user.Department.ID
	}
	for _, role := range user.Roles {
		model.Roles = append(model.Roles, iamDatamodel.Role{ID: role.ID})
	}
	return model
}

func toDomainUser(model *iamDatamodel.User) *auth.User {
	user := &auth.User{
		ID:           model.ID,
		Email:        model.Email,
		FullName:     model.FullName,
		PasswordHash: model.PasswordHash,
		CustomClaims: model.CustomClaims,
	}
	if model.Department != nil {
		user.Department = &auth.Department{
			ID:   model.Department.ID,
			Name: model.Department.Name,
		}
	}
	for i := range model.Roles {
		user.Roles = append(user.Roles, *toDomainRole(&model.Roles[i]))
	}
	return user
}

func toDomainRole(model *iamDatamodel.Role) *auth.Role {
	role := &auth.Role{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
	}
	for _, p := range model.Permissions {
		role.Permissions = append(role.Permissions, auth.Permission{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
		})
	}
	return role
}
