package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/aliautos/backend/database"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/utils"
)

// SeedAdmin creates the single admin account on first run. An existing users
// document, whatever it holds, is left alone.
func (s *Store) SeedAdmin(ctx context.Context) error {
	if _, ok, err := s.db.Get(ctx, database.KeyUsers); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	} else if ok {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(utils.EnvDefault("ADMIN_EMAIL", "admin@ali-autos.com")))
	pass := utils.EnvDefault("ADMIN_PASSWORD", "admin123")

	hash, err := utils.HashPassword(pass)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = s.CreateUser(ctx, models.User{
		ID:           "admin-1",
		Email:        email,
		PasswordHash: hash,
		DisplayName:  "Admin",
		Role:         models.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Println("Admin user seeded:", email)
	return nil
}

// SeedSampleCars populates the showroom with the starter inventory when no
// cars document exists yet.
func (s *Store) SeedSampleCars(ctx context.Context) error {
	if _, ok, err := s.db.Get(ctx, database.KeyCars); err != nil {
		return fmt.Errorf("seed cars: %w", err)
	} else if ok {
		return nil
	}

	samples := []models.Car{
		{
			ID:               "camry-2021",
			Make:             "Toyota",
			Model:            "Camry",
			Year:             2021,
			Price:            10500000,
			Body:             "Sedan",
			Mileage:          "34,000 km",
			Location:         "Lagos Mainland Branch",
			ShortDescription: "Smooth drive, low mileage.",
			Description: []string{
				"Smooth drive, low mileage.",
				"Single owner.",
				"Passed full Ali Autos inspection.",
				"No accident history.",
			},
			ImageURL: "/images/cars/benz1.jpg",
		},
		{
			ID:               "accord-2019",
			Make:             "Honda",
			Model:            "Accord",
			Year:             2019,
			Price:            9000000,
			Body:             "Sedan",
			Mileage:          "47,000 km",
			Location:         "Ikeja Showroom",
			ShortDescription: "Reliable and efficient.",
			Description: []string{
				"Responsive engine and good fuel economy.",
				"Comfortable interior with modern infotainment.",
			},
			ImageURL: "/images/benz1.jpg",
		},
		{
			ID:               "bmw-5-2018",
			Make:             "BMW",
			Model:            "5 Series",
			Year:             2018,
			Price:            26800000,
			Body:             "Sedan",
			Mileage:          "61,000 km",
			Location:         "Lekki Branch",
			ShortDescription: "Excellent condition.",
			Description: []string{
				"Luxury interior and high performance.",
				"Well maintained and fully serviced.",
			},
			ImageURL: "/images/benz1.jpg",
		},
	}

	for _, car := range samples {
		if _, err := s.CreateCar(ctx, car); err != nil {
			return fmt.Errorf("seed cars: %w", err)
		}
	}
	return nil
}
