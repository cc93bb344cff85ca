package iam

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	Email        string          `gorm:"column:email;uniqueIndex;not null;size:190"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	FullName     string          `gorm:"column:full_name;size:190"`
	DepartmentID *string         `gorm:"column:department_id;type:uuid"`
	Department   *Department     `gorm:"foreignKey:DepartmentID"`
	CustomClaims json.RawMessage `gorm:"column:custom_claims;type:jsonb"`
	Roles        []Role          `gorm:"many2many:user_roles"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

type Role struct {
	ID          string       `gorm:"type:uuid;primaryKey"`
	Name        string       `gorm:"column:name;uniqueIndex;not null;size:120"`
	Description string       `gorm:"column:description;size:255"`
	Permissions []Permission `gorm:"many2many:role_permissions"`
	CreatedAt   time.Time    `gorm:"column:created_at"`
	UpdatedAt   time.Time    `gorm:"column:updated_at"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

type Permission struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null;size:120"`
	Description string    `gorm:"column:description;size:255"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Department struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null;size:120"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (d *Department) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// RefreshToken is the ledger row for an issued refresh token. Only the
// sha-256 digest of the serialized token is stored, never the token itself.
type RefreshToken struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index"`
	TokenID   string    `gorm:"column:token_id;uniqueIndex;not null;size:64"`
	TokenHash string    `gorm:"column:token_hash;not null;size:64"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (t *RefreshToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
