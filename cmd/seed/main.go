package main

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram-v2/backend/config"
	"github.com/pageza/foodgram-v2/backend/internal/database"
	"github.com/pageza/foodgram-v2/backend/internal/models"
)

var seedTags = []models.Tag{
	{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
	{Name: "Dinner", Color: "#8775D2", Slug: "dinner"},
	{Name: "Dessert", Color: "#F9A62B", Slug: "dessert"},
}

var seedUsers = []struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	IsAdmin   bool
}{
	{"admin@foodgram.local", "admin", "Site", "Admin", "admin-password", true},
	{"alice@foodgram.local", "alice", "Alice", "Baker", "test-password", false},
	{"bob@foodgram.local", "bob", "Bob", "Cook", "test-password", false},
}

// Seeds the tag catalogue and a few demo accounts for local
// development. Safe to run repeatedly.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	for _, tag := range seedTags {
		var count int64
		if err := db.Model(&models.Tag{}).Where("slug = ?", tag.Slug).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check tag %s: %v", tag.Slug, err)
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&tag).Error; err != nil {
			log.Fatalf("Failed to create tag %s: %v", tag.Slug, err)
		}
		fmt.Printf("Created tag: %s\n", tag.Slug)
	}

	for _, seed := range seedUsers {
		var count int64
		if err := db.Model(&models.User{}).Where("email = ?", seed.Email).Count(&count).Error; err != nil {
			log.Fatalf("Failed to check user %s: %v", seed.Email, err)
		}
		if count > 0 {
			continue
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		user := models.User{
			Email:        seed.Email,
			Username:     seed.Username,
			FirstName:    seed.FirstName,
			LastName:     seed.LastName,
			PasswordHash: string(hashed),
			IsAdmin:      seed.IsAdmin,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Failed to create user %s: %v", seed.Email, err)
		}
		fmt.Printf("Created user: %s\n", seed.Username)
	}

	fmt.Println("Seed data loaded.")
}
