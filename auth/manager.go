// Package auth implements login, registration and token verification over
// the users collection, plus the persisted session cache (token and
// current-user snapshot) the storefront keeps between page loads.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"github.com/aliautos/backend/database"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/notify"
	"github.com/aliautos/backend/store"
	"github.com/aliautos/backend/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmailExists is the store's sentinel; CreateUser raises it under the
	// users key lock, which is what makes the uniqueness check race-free.
	ErrEmailExists = store.ErrEmailExists
)

// Session is what a successful login or registration hands back.
type Session struct {
	Token string          `json:"token"`
	User  models.UserView `json:"user"`
}

type Manager struct {
	store  *store.Store
	bus    *notify.Bus
	secret []byte
}

func NewManager(st *store.Store, bus *notify.Bus, secret []byte) *Manager {
	return &Manager{store: st, bus: bus, secret: secret}
}

// Login verifies the credentials against the stored bcrypt hash, issues a
// signed token and caches the session. Unknown email and wrong password are
// indistinguishable to the caller.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	user := m.store.UserByEmail(ctx, email)
	if user == nil {
		return Session{}, ErrInvalidCredentials
	}
	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.Email, string(user.Role), m.secret)
	if err != nil {
		return Session{}, err
	}

	view := user.View()
	m.cacheSession(ctx, token, view)
	m.publishSession()
	return Session{Token: token, User: view}, nil
}

// Register creates a customer account and signs it in. The role is always
// user; staff accounts only come from the admin back-office.
func (m *Manager) Register(ctx context.Context, email, password, displayName string) (Session, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return Session{}, err
	}

	_, err = m.store.CreateUser(ctx, models.User{
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		DisplayName:  displayName,
		Role:         models.RoleUser,
	})
	if err != nil {
		return Session{}, err
	}

	return m.Login(ctx, email, password)
}

// Logout drops the cached token and snapshot.
func (m *Manager) Logout(ctx context.Context) error {
	db := m.store.DB()
	if err := db.Remove(ctx, database.KeyAuthToken); err != nil {
		return err
	}
	if err := db.Remove(ctx, database.KeyCurrentUser); err != nil {
		return err
	}
	m.publishSession()
	return nil
}

// Verify decodes the token and re-reads the live user record, so role or
// display-name changes made since issuance take effect without re-login.
// Any failure — bad signature, deleted user — yields nil, never an error.
func (m *Manager) Verify(ctx context.Context, token string) *models.UserView {
	claims, err := utils.ValidateToken(token, m.secret)
	if err != nil {
		return nil
	}
	user := m.store.UserByID(ctx, claims.UserID)
	if user == nil {
		return nil
	}
	view := user.View()
	return &view
}

// VerifyStored runs Verify over the persisted auth token.
func (m *Manager) VerifyStored(ctx context.Context) *models.UserView {
	token, ok, err := m.store.DB().Get(ctx, database.KeyAuthToken)
	if err != nil || !ok {
		return nil
	}
	return m.Verify(ctx, token)
}

// CurrentUser returns the cached snapshot without revalidating it. It is the
// fast fallback and may be staler than Verify.
func (m *Manager) CurrentUser(ctx context.Context) *models.UserView {
	raw, ok, err := m.store.DB().Get(ctx, database.KeyCurrentUser)
	if err != nil || !ok {
		return nil
	}
	var view models.UserView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		return nil
	}
	return &view
}

func (m *Manager) cacheSession(ctx context.Context, token string, view models.UserView) {
	db := m.store.DB()
	if err := db.Set(ctx, database.KeyAuthToken, token); err != nil {
		log.Println("Failed to save token:", err)
	}
	raw, err := json.Marshal(view)
	if err == nil {
		if err := db.Set(ctx, database.KeyCurrentUser, string(raw)); err != nil {
			log.Println("Failed to save user:", err)
		}
	}
}

func (m *Manager) publishSession() {
	if m.bus != nil {
		m.bus.Publish(notify.Event{Key: database.KeyAuthToken, Op: notify.OpSession})
	}
}
