package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aliautos/backend/database"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/notify"
)

func (s *Store) AllContactMessages(ctx context.Context) []models.ContactMessage {
	return readAll[models.ContactMessage](ctx, s.db, database.KeyContactMessages)
}

func (s *Store) ContactMessageByID(ctx context.Context, id string) *models.ContactMessage {
	for _, m := range s.AllContactMessages(ctx) {
		if m.ID == id {
			return &m
		}
	}
	return nil
}

// CreateContactMessage appends the message unread with a generated id and
// creation timestamp. No authentication is involved; any visitor may write.
func (s *Store) CreateContactMessage(ctx context.Context, msg models.ContactMessage) (models.ContactMessage, error) {
	lock := s.keyLock(database.KeyContactMessages)
	lock.Lock()
	defer lock.Unlock()

	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	msg.Read = false

	all := s.AllContactMessages(ctx)
	all = append(all, msg)
	if err := writeAll(ctx, s.db, database.KeyContactMessages, all); err != nil {
		return models.ContactMessage{}, err
	}
	s.publish(database.KeyContactMessages, notify.OpCreate)
	return msg, nil
}

// MarkContactMessageRead flips read false→true. Re-reading an already-read
// message rewrites nothing; an unknown id is a silent no-op returning nil.
func (s *Store) MarkContactMessageRead(ctx context.Context, id string) (*models.ContactMessage, error) {
	lock := s.keyLock(database.KeyContactMessages)
	lock.Lock()
	defer lock.Unlock()

	all := s.AllContactMessages(ctx)
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if all[i].Read {
			found := all[i]
			return &found, nil
		}
		all[i].Read = true
		if err := writeAll(ctx, s.db, database.KeyContactMessages, all); err != nil {
			return nil, err
		}
		s.publish(database.KeyContactMessages, notify.OpUpdate)
		updated := all[i]
		return &updated, nil
	}
	return nil, nil
}

func (s *Store) DeleteContactMessage(ctx context.Context, id string) error {
	lock := s.keyLock(database.KeyContactMessages)
	lock.Lock()
	defer lock.Unlock()

	all := s.AllContactMessages(ctx)
	kept := all[:0]
	for _, m := range all {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	if err := writeAll(ctx, s.db, database.KeyContactMessages, kept); err != nil {
		return err
	}
	s.publish(database.KeyContactMessages, notify.OpDelete)
	return nil
}
