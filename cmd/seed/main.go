package main

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/officemeals/snack-provider-api/internal/config"
	dbpkg "github.com/officemeals/snack-provider-api/internal/db"
	"github.com/officemeals/snack-provider-api/internal/models"
)

func main() {
	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	if err := seed(db); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Println("database seeded successfully")
}

func seed(db *gorm.DB) error {
	if err := seedUser(db, "Admin", "admin@example.com", "admin123", models.RoleAdmin); err != nil {
		return err
	}
	if err := seedUser(db, "User", "user@example.com", "user123", models.RoleUser); err != nil {
		return err
	}
	if err := seedUser(db, "John Doe", "john@example.com", "user123", models.RoleUser); err != nil {
		return err
	}

	providers := []struct {
		provider models.Provider
		foods    []models.Food
	}{
		{
			provider: models.Provider{
				Name:           "Warung Makan Sederhana",
				CanGiveReceipt: true,
				HasStamp:       true,
				CanCredit:      true,
				Description:    ptr("Home-style meals with a full menu and friendly service"),
				Address:        ptr("Jl. Sudirman No. 123"),
				Phone:          ptr("081234567890"),
			},
			foods: []models.Food{
				{Name: "Nasi Gudeg", Description: ptr("Yogyakarta-style gudeg rice with full sides"), Price: ptr(25000.0), Category: "Main Course"},
				{Name: "Ayam Bakar", Description: ptr("Grilled chicken in sweet soy marinade"), Price: ptr(30000.0), Category: "Main Course"},
				{Name: "Es Teh Manis", Description: ptr("Fresh sweet iced tea"), Price: ptr(5000.0), Category: "Drinks"},
			},
		},
		{
			provider: models.Provider{
				Name:           "Snack Corner",
				CanGiveReceipt: true,
				Description:    ptr("Snack shop with a wide range of light bites"),
				Address:        ptr("Jl. Thamrin No. 456"),
				Phone:          ptr("081234567891"),
			},
			foods: []models.Food{
				{Name: "Keripik Singkong", Description: ptr("Crispy original cassava chips"), Price: ptr(15000.0), Category: "Snack"},
				{Name: "Biskuit Coklat", Description: ptr("Premium chocolate biscuits"), Price: ptr(12000.0), Category: "Snack"},
				{Name: "Kopi Sachet", Description: ptr("Assorted instant coffee sachets"), Price: ptr(3000.0), Category: "Drinks"},
			},
		},
		{
			provider: models.Provider{
				Name:        "Catering Bu Sari",
				CanCredit:   true,
				Description: ptr("Catering for office and private events"),
				Address:     ptr("Jl. Gatot Subroto No. 789"),
				Phone:       ptr("081234567892"),
			},
			foods: []models.Food{
				{Name: "Paket Nasi Box A", Description: ptr("Rice, fried chicken, vegetables, crackers, fruit"), Price: ptr(35000.0), Category: "Box Set"},
				{Name: "Paket Nasi Box B", Description: ptr("Rice, fried fish, tofu and tempeh, vegetables"), Price: ptr(28000.0), Category: "Box Set"},
			},
		},
	}

	for _, p := range providers {
		var count int64
		db.Model(&models.Provider{}).Where("name = ?", p.provider.Name).Count(&count)
		if count > 0 {
			continue
		}

		if err := db.Create(&p.provider).Error; err != nil {
			return err
		}
		for i := range p.foods {
			p.foods[i].ProviderID = p.provider.ID
			if err := db.Create(&p.foods[i]).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func seedUser(db *gorm.DB, name, email, password, role string) error {
	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}).Error
}

func ptr[T any](v T) *T {
	return &v
}
