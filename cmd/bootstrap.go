package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/iam-service/internal"
	"github.com/frahmantamala/iam-service/internal/auth"
	iamDatamodel "github.com/frahmantamala/iam-service/internal/core/datamodel/iam"
)

// bootstrapCmd provisions the data the authentication flow depends on: the
// well-known USER and ADMIN roles, and optionally an initial administrator
// account from config. Registration refuses to work until this has run.
var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Provision seed roles and the optional bootstrap admin",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if err := provisionSeedData(gdb, cfg); err != nil {
			log.Fatalf("bootstrap failed: %v", err)
		}

		fmt.Println("Bootstrap complete")
	},
}

func provisionSeedData(gdb *gorm.DB, cfg *internal.Config) error {
	seedRoles := []iamDatamodel.Role{
		{Name: auth.DefaultRoleName, Description: "Default user role"},
		{Name: auth.AdminRoleName, Description: "Administrator role"},
	}

	for i := range seedRoles {
		if err := ensureRole(gdb, &seedRoles[i]); err != nil {
			return err
		}
		fmt.Println("Seed role present:", seedRoles[i].Name)
	}

	if !cfg.Bootstrap.IsConfigured() {
		return nil
	}

	return ensureBootstrapAdmin(gdb, cfg, &seedRoles[1])
}

func ensureRole(gdb *gorm.DB, role *iamDatamodel.Role) error {
	var existing iamDatamodel.Role
	err := gdb.Where("name = ?", role.Name).First(&existing).Error
	if err == nil {
		*role = existing
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("look up role %s: %w", role.Name, err)
	}

	if err := gdb.Create(role).Error; err != nil {
		// A concurrent bootstrap may have won the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return gdb.Where("name = ?", role.Name).First(role).Error
		}
		return fmt.Errorf("create role %s: %w", role.Name, err)
	}
	return nil
}

func ensureBootstrapAdmin(gdb *gorm.DB, cfg *internal.Config, adminRole *iamDatamodel.Role) error {
	email := auth.NormalizeEmail(cfg.Bootstrap.AdminEmail)

	var admin iamDatamodel.User
	err := gdb.Where("email = ?", email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		hasher := auth.NewBcryptHasher(cfg.JWT.BCryptCost)
		hash, herr := hasher.Hash(cfg.Bootstrap.AdminPassword)
		if herr != nil {
			return fmt.Errorf("hash bootstrap admin password: %w", herr)
		}

		admin = iamDatamodel.User{
			Email:        email,
			PasswordHash: hash,
			FullName:     cfg.Bootstrap.AdminFullName,
		}
		if cerr := gdb.Create(&admin).Error; cerr != nil {
			return fmt.Errorf("create bootstrap admin: %w", cerr)
		}
		fmt.Println("Seeded bootstrap admin:", email)
	} else if err != nil {
		return fmt.Errorf("look up bootstrap admin: %w", err)
	}

	// Idempotent: appending an association that already exists is a no-op.
	if err := gdb.Model(&admin).Omit("Roles.*").Association("Roles").Append(adminRole); err != nil {
		return fmt.Errorf("grant ADMIN role to bootstrap admin: %w", err)
	}
	fmt.Println("Bootstrap admin holds ADMIN role:", email)
	return nil
}
