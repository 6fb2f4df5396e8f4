package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aliautos/backend/database"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/notify"
	"github.com/aliautos/backend/utils"
)

// ErrCarStorageFull is what the admin sees when the cars document no longer
// fits the storage budget. It wraps database.ErrQuotaExceeded.
var ErrCarStorageFull = fmt.Errorf(
	"%w: delete some cars or use smaller images", database.ErrQuotaExceeded)

func (s *Store) AllCars(ctx context.Context) []models.Car {
	return readAll[models.Car](ctx, s.db, database.KeyCars)
}

func (s *Store) CarByID(ctx context.Context, id string) *models.Car {
	for _, c := range s.AllCars(ctx) {
		if c.ID == id {
			return &c
		}
	}
	return nil
}

// CreateCar appends the car, deriving the id from make, model and year when
// the caller supplied none.
func (s *Store) CreateCar(ctx context.Context, car models.Car) (models.Car, error) {
	lock := s.keyLock(database.KeyCars)
	lock.Lock()
	defer lock.Unlock()

	if car.ID == "" {
		car.ID = utils.CarID(car.Make, car.Model, car.Year)
	}

	all := s.AllCars(ctx)
	for _, existing := range all {
		if existing.ID == car.ID {
			return models.Car{}, fmt.Errorf("car id %q already exists", car.ID)
		}
	}

	all = append(all, car)
	if err := writeAll(ctx, s.db, database.KeyCars, all); err != nil {
		if errors.Is(err, database.ErrQuotaExceeded) {
			return models.Car{}, ErrCarStorageFull
		}
		return models.Car{}, err
	}
	s.publish(database.KeyCars, notify.OpCreate)
	return car, nil
}

type CarUpdate struct {
	Make             *string
	Model            *string
	Year             *int
	Price            *int64
	Body             *string
	Mileage          *string
	Location         *string
	ShortDescription *string
	Description      *[]string
	ImageURL         *string
}

// UpdateCar edits the record in place, keeping its id. A missing id is a
// silent no-op returning nil.
func (s *Store) UpdateCar(ctx context.Context, id string, upd CarUpdate) (*models.Car, error) {
	lock := s.keyLock(database.KeyCars)
	lock.Lock()
	defer lock.Unlock()

	all := s.AllCars(ctx)
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if upd.Make != nil {
			all[i].Make = *upd.Make
		}
		if upd.Model != nil {
			all[i].Model = *upd.Model
		}
		if upd.Year != nil {
			all[i].Year = *upd.Year
		}
		if upd.Price != nil {
			all[i].Price = *upd.Price
		}
		if upd.Body != nil {
			all[i].Body = *upd.Body
		}
		if upd.Mileage != nil {
			all[i].Mileage = *upd.Mileage
		}
		if upd.Location != nil {
			all[i].Location = *upd.Location
		}
		if upd.ShortDescription != nil {
			all[i].ShortDescription = *upd.ShortDescription
		}
		if upd.Description != nil {
			all[i].Description = *upd.Description
		}
		if upd.ImageURL != nil {
			all[i].ImageURL = *upd.ImageURL
		}
		if err := writeAll(ctx, s.db, database.KeyCars, all); err != nil {
			if errors.Is(err, database.ErrQuotaExceeded) {
				return nil, ErrCarStorageFull
			}
			return nil, err
		}
		s.publish(database.KeyCars, notify.OpUpdate)
		updated := all[i]
		return &updated, nil
	}
	return nil, nil
}

func (s *Store) DeleteCar(ctx context.Context, id string) error {
	lock := s.keyLock(database.KeyCars)
	lock.Lock()
	defer lock.Unlock()

	all := s.AllCars(ctx)
	kept := all[:0]
	for _, c := range all {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	if err := writeAll(ctx, s.db, database.KeyCars, kept); err != nil {
		return err
	}
	s.publish(database.KeyCars, notify.OpDelete)
	return nil
}
