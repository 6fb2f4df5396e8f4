package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aliautos/backend/database"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/notify"
)

// ErrEmailExists is returned by CreateUser when another account already holds
// the address (case-insensitively).
var ErrEmailExists = errors.New("email already exists")

func (s *Store) AllUsers(ctx context.Context) []models.User {
	return readAll[models.User](ctx, s.db, database.KeyUsers)
}

func (s *Store) UserByID(ctx context.Context, id string) *models.User {
	for _, u := range s.AllUsers(ctx) {
		if u.ID == id {
			return &u
		}
	}
	return nil
}

// UserByEmail matches case-insensitively.
func (s *Store) UserByEmail(ctx context.Context, email string) *models.User {
	for _, u := range s.AllUsers(ctx) {
		if strings.EqualFold(u.Email, email) {
			return &u
		}
	}
	return nil
}

// CreateUser appends the user, generating an id and created_at when unset.
// The email-uniqueness check runs under the users key lock, so concurrent
// creates for the same address cannot both slip past it.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	lock := s.keyLock(database.KeyUsers)
	lock.Lock()
	defer lock.Unlock()

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	all := s.AllUsers(ctx)
	for _, u := range all {
		if strings.EqualFold(u.Email, user.Email) {
			return models.User{}, ErrEmailExists
		}
	}
	all = append(all, user)
	if err := writeAll(ctx, s.db, database.KeyUsers, all); err != nil {
		return models.User{}, err
	}
	s.publish(database.KeyUsers, notify.OpCreate)
	return user, nil
}

// UserUpdate carries the fields of a partial update; nil fields are left
// untouched.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
	DisplayName  *string
	Role         *models.Role
	Phone        *string
	Address      *string
}

// UpdateUser merges the partial into the matching record and rewrites the
// document. A missing id is a silent no-op returning nil.
func (s *Store) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	lock := s.keyLock(database.KeyUsers)
	lock.Lock()
	defer lock.Unlock()

	all := s.AllUsers(ctx)
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if upd.Email != nil {
			all[i].Email = strings.ToLower(strings.TrimSpace(*upd.Email))
		}
		if upd.PasswordHash != nil {
			all[i].PasswordHash = *upd.PasswordHash
		}
		if upd.DisplayName != nil {
			all[i].DisplayName = *upd.DisplayName
		}
		if upd.Role != nil {
			all[i].Role = *upd.Role
		}
		if upd.Phone != nil {
			all[i].Phone = *upd.Phone
		}
		if upd.Address != nil {
			all[i].Address = *upd.Address
		}
		if err := writeAll(ctx, s.db, database.KeyUsers, all); err != nil {
			return nil, err
		}
		s.publish(database.KeyUsers, notify.OpUpdate)
		updated := all[i]
		return &updated, nil
	}
	return nil, nil
}

// DeleteUser filters the id out; deleting an unknown id changes nothing.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	lock := s.keyLock(database.KeyUsers)
	lock.Lock()
	defer lock.Unlock()

	all := s.AllUsers(ctx)
	kept := all[:0]
	for _, u := range all {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	if err := writeAll(ctx, s.db, database.KeyUsers, kept); err != nil {
		return err
	}
	s.publish(database.KeyUsers, notify.OpDelete)
	return nil
}
