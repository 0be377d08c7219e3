package main

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/nahcon/mealtrack/internal/config"
	"github.com/nahcon/mealtrack/internal/database"
	"github.com/nahcon/mealtrack/internal/models"
)

// Seeds the canonical roles, demo users, accommodations and sample meal
// requests so a fresh install is usable immediately. All demo users share
// the password "password123".
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.AuditEntry{},
		&models.MealRequest{},
		&models.MealAssessment{},
		&models.AssessmentReview{},
		&models.Accommodation{},
		&models.Setting{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	seedRoles(db)
	seedUsers(db)
	seedAccommodations(db)
	seedMealRequests(db)

	fmt.Println("✓ Seed data applied")
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{
			Name:        models.RoleAdministrator,
			Description: "Full system access and management capabilities",
			Privileges: models.Privileges{
				"Full system access",
				"User management",
				"Settings management",
				"View reports",
				"Add meal assessments",
				"Review meal assessments",
				"Manage meal assessments",
			},
		},
		{
			Name:        models.RoleNAHCONStaff,
			Description: "Staff members with assessment capabilities",
			Privileges: models.Privileges{
				"Add meal assessments",
				"View own submissions",
				"View reports",
				"Review own assessments",
			},
		},
		{
			Name:        models.RoleStateRep,
			Description: "State representatives for meal assessment",
			Privileges: models.Privileges{
				"View state reports",
				"Review meal assessments",
				"View own submissions",
			},
		},
		{
			Name:        models.RoleKitchenRep,
			Description: "Kitchen representatives for meal assessment",
			Privileges: models.Privileges{
				"View kitchen reports",
				"Review meal assessments",
				"View own submissions",
			},
		},
	}

	for i := range roles {
		if err := db.Where(models.Role{Name: roles[i].Name}).FirstOrCreate(&roles[i]).Error; err != nil {
			log.Fatal("Failed to seed role:", err)
		}
	}
}

func seedUsers(db *gorm.DB) {
	users := []models.User{
		{Name: "System Administrator", Email: "admin@nahcon.gov.ng", Role: models.RoleAdministrator, State: "All", Kitchen: "All"},
		{Name: "NAHCON Staff", Email: "staff@nahcon.gov.ng", Role: models.RoleNAHCONStaff, State: "All", Kitchen: "All"},
		{Name: "FCT Representative", Email: "fct@nahcon.gov.ng", Role: models.RoleStateRep, State: "FCT", Kitchen: "All"},
		{Name: "Ava Kitchen Rep", Email: "ava@kitchen.com", Role: models.RoleKitchenRep, State: "All", Kitchen: "Ava Kitchen"},
	}

	for i := range users {
		users[i].Status = models.StatusActive
		if err := users[i].SetPassword("password123"); err != nil {
			log.Fatal("Failed to hash password:", err)
		}
		if err := db.Where(models.User{Email: users[i].Email}).FirstOrCreate(&users[i]).Error; err != nil {
			log.Fatal("Failed to seed user:", err)
		}
	}
}

func seedAccommodations(db *gorm.DB) {
	accommodations := []models.Accommodation{
		{Name: "Ibn Umar", City: "Makkah", State: "FCT", Capacity: 500},
		{Name: "Al Safwah Royale Orchid", City: "Makkah", State: "Lagos", Capacity: 750},
		{Name: "Anjum Hotel", City: "Makkah", State: "Kano", Capacity: 600},
		{Name: "Le Meridien", City: "Madinah", State: "FCT", Capacity: 450},
		{Name: "Mina Al Waha", City: "Mina", State: "Kaduna", Capacity: 800},
	}

	for i := range accommodations {
		accommodations[i].Status = models.StatusActive
		if err := db.Where(models.Accommodation{Name: accommodations[i].Name}).
			FirstOrCreate(&accommodations[i]).Error; err != nil {
			log.Fatal("Failed to seed accommodation:", err)
		}
	}
}

func seedMealRequests(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.MealRequest{}).Count(&count).Error; err != nil {
		log.Fatal("Failed to count meal requests:", err)
	}
	if count > 0 {
		return
	}

	delivery := time.Now().Add(48 * time.Hour)
	requests := []models.MealRequest{
		{
			State: "FCT", Kitchen: "Ava Kitchen", MealType: models.MealBreakfast,
			Menu: "Bread, eggs, beans, tea, fruits", DeliveryAt: delivery,
			TotalPilgrims: 150, SpecialDietCount: 5,
			SpecialDietDetails: "Diabetic meals required",
			AdditionalNotes:    "Please ensure hot tea is served",
			Status:             models.RequestPending,
		},
		{
			State: "FCT", Kitchen: "Ava Kitchen", MealType: models.MealLunch,
			Menu: "Rice, chicken, vegetables, fruit juice", DeliveryAt: delivery,
			TotalPilgrims: 150, SpecialDietCount: 3,
			SpecialDietDetails: "Vegetarian meals needed",
			AdditionalNotes:    "Extra water bottles required",
			Status:             models.RequestApproved,
		},
		{
			State: "FCT", Kitchen: "Ava Kitchen", MealType: models.MealDinner,
			Menu: "Jollof rice, fish, salad, dessert", DeliveryAt: delivery,
			TotalPilgrims: 145, SpecialDietCount: 4,
			SpecialDietDetails: "Gluten-free meals required",
			AdditionalNotes:    "Please provide disposable cutlery",
			Status:             models.RequestDelivered,
		},
	}

	for i := range requests {
		if err := db.Create(&requests[i]).Error; err != nil {
			log.Fatal("Failed to seed meal request:", err)
		}
	}
}
