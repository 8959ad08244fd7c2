package cmd

import (
	"fmt"
	"log"

	catalogDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/catalog"
	userDatamodel "github.com/skillz-hq/skillz/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"audit_logs", "user_skills", "skills", "categories", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedUser(db, "admin@admin.it", "Admin", "Admin", "admin", "admin")
		seedUser(db, "mario@mail.com", "Mario", "Rossi", "password", "user")

		backend := seedCategory(db, "Backend", nil)
		languages := seedCategory(db, "Languages", &backend)
		databases := seedCategory(db, "Databases", &backend)

		seedSkill(db, "Go", languages)
		seedSkill(db, "Python", languages)
		seedSkill(db, "PostgreSQL", databases)

		fmt.Println("Seeding complete")
	},
}

func seedUser(db *gorm.DB, email, name, surname, password, role string) {
	var count int64
	db.Model(&userDatamodel.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		fmt.Println("user already exists:", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// Sample accounts come pre-consented so they can log straight in.
	u := &userDatamodel.User{
		Email:           email,
		Name:            name,
		Surname:         surname,
		PasswordHash:    string(hash),
		Role:            role,
		AcceptedPrivacy: true,
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
}

func seedCategory(db *gorm.DB, name string, parentID *int64) int64 {
	var existing catalogDatamodel.Category
	if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
		return existing.ID
	}

	c := &catalogDatamodel.Category{Name: name, ParentID: parentID}
	if err := db.Create(c).Error; err != nil {
		log.Fatalf("failed to seed category %s: %v", name, err)
	}
	fmt.Println("Seeded category:", name)
	return c.ID
}

func seedSkill(db *gorm.DB, name string, categoryID int64) {
	var count int64
	db.Model(&catalogDatamodel.Skill{}).Where("name = ?", name).Count(&count)
	if count > 0 {
		return
	}

	s := &catalogDatamodel.Skill{Name: name, CategoryID: categoryID}
	if err := db.Create(s).Error; err != nil {
		log.Fatalf("failed to seed skill %s: %v", name, err)
	}
	fmt.Println("Seeded skill:", name)
}
