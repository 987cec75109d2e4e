package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/merrylab/timeline/internal/config"
	"github.com/merrylab/timeline/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var defaultDepartments = []string{"Management", "Marketing", "Sales", "Development", "HR", "Finance"}

// Seed creates the initial admin account and the default departments on
// first boot. Subsequent boots are no-ops.
func Seed(cfg *config.Config) error {
	var admin models.User
	err := DB.Where("email = ?", cfg.AdminEmail).First(&admin).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check admin user: %w", err)
	}

	// Default password, should be changed after first login.
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	return DB.Transaction(func(tx *gorm.DB) error {
		admin = models.User{
			Username:     "admin",
			Email:        cfg.AdminEmail,
			PasswordHash: string(hash),
			FullName:     "Admin User",
			Department:   "Management",
			Position:     "System Administrator",
			IsAdmin:      true,
			IsActive:     true,
			ProfileImage: "default_admin.png",
		}
		if err := tx.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		for _, name := range defaultDepartments {
			if err := tx.Create(&models.Department{Name: name}).Error; err != nil {
				return fmt.Errorf("failed to create department %s: %w", name, err)
			}
		}

		log.Println("Seeded admin user and default departments")
		return nil
	})
}
