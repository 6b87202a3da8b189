package main

import (
	"context"
	"log"
	"os"

	"coursa/internal/config"
	"coursa/internal/models"
	"coursa/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminName := config.GetEnv("ADMIN_NAME", "Administrator")

	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Printf("Failed to close PostgreSQL connection: %v", err)
				}
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	var existingAdmin models.User
	result := repositories.DB.Where("email = ?", adminEmail).First(&existingAdmin)
	if result.Error == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	adminUser := models.User{
		Email:        adminEmail,
		Password:     string(hashedPassword),
		Name:         adminName,
		Role:         models.RoleAdmin,
		TokenVersion: 1,
	}

	if err := repositories.DB.Create(&adminUser).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	if repositories.CacheService != nil {
		if err := repositories.CacheService.InvalidateUser(context.Background(), &adminUser); err != nil {
			log.Printf("Failed to invalidate admin cache entries: %v", err)
		}
	}

	log.Println("Admin account created successfully")
}
