package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aliautos/backend/database"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/notify"
)

func (s *Store) AllVisits(ctx context.Context) []models.Visit {
	return readAll[models.Visit](ctx, s.db, database.KeyVisits)
}

func (s *Store) VisitByID(ctx context.Context, id string) *models.Visit {
	for _, v := range s.AllVisits(ctx) {
		if v.ID == id {
			return &v
		}
	}
	return nil
}

// CreateVisit appends the visit with a generated id, creation timestamp and
// scheduled status.
func (s *Store) CreateVisit(ctx context.Context, visit models.Visit) (models.Visit, error) {
	lock := s.keyLock(database.KeyVisits)
	lock.Lock()
	defer lock.Unlock()

	if visit.ID == "" {
		visit.ID = uuid.NewString()
	}
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now().UTC()
	}
	if visit.Status == "" {
		visit.Status = models.VisitScheduled
	}
	// The date/time fields travel in pairs; backfill whichever side the
	// caller left empty.
	if visit.VisitDate == "" {
		visit.VisitDate = visit.Date
	}
	if visit.Date == "" {
		visit.Date = visit.VisitDate
	}
	if visit.VisitTime == "" {
		visit.VisitTime = visit.Time
	}
	if visit.Time == "" {
		visit.Time = visit.VisitTime
	}

	all := s.AllVisits(ctx)
	all = append(all, visit)
	if err := writeAll(ctx, s.db, database.KeyVisits, all); err != nil {
		return models.Visit{}, err
	}
	s.publish(database.KeyVisits, notify.OpCreate)
	return visit, nil
}

// SetVisitStatus moves a visit out of scheduled. Completed and cancelled are
// terminal; any transition away from them is rejected. A missing id is a
// silent no-op returning nil.
func (s *Store) SetVisitStatus(ctx context.Context, id string, status models.VisitStatus) (*models.Visit, error) {
	if status != models.VisitCompleted && status != models.VisitCancelled {
		return nil, fmt.Errorf("invalid target status %q", status)
	}

	lock := s.keyLock(database.KeyVisits)
	lock.Lock()
	defer lock.Unlock()

	all := s.AllVisits(ctx)
	for i := range all {
		if all[i].ID != id {
			continue
		}
		if all[i].Status.Terminal() {
			return nil, fmt.Errorf("visit is already %s", all[i].Status)
		}
		all[i].Status = status
		if err := writeAll(ctx, s.db, database.KeyVisits, all); err != nil {
			return nil, err
		}
		s.publish(database.KeyVisits, notify.OpUpdate)
		updated := all[i]
		return &updated, nil
	}
	return nil, nil
}

func (s *Store) DeleteVisit(ctx context.Context, id string) error {
	lock := s.keyLock(database.KeyVisits)
	lock.Lock()
	defer lock.Unlock()

	all := s.AllVisits(ctx)
	kept := all[:0]
	for _, v := range all {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(all) {
		return nil
	}
	if err := writeAll(ctx, s.db, database.KeyVisits, kept); err != nil {
		return err
	}
	s.publish(database.KeyVisits, notify.OpDelete)
	return nil
}

// VisibleVisits narrows the full collection to what the session may see:
// staff roles see everything, customers see their own visits, no session sees
// none. A visit counts as the customer's when either its userEmail matches
// the session email (case-insensitively) or its userId matches the session
// id; either identifier alone is sufficient.
func VisibleVisits(session *models.UserView, all []models.Visit) []models.Visit {
	if session == nil {
		return []models.Visit{}
	}
	if session.Role.IsStaff() {
		return all
	}
	visible := make([]models.Visit, 0)
	for _, v := range all {
		if strings.EqualFold(v.UserEmail, session.Email) || v.UserID == session.ID {
			visible = append(visible, v)
		}
	}
	return visible
}
