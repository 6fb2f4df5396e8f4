package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/aliautos/backend/database"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/notify"
	"github.com/aliautos/backend/store"
	"github.com/aliautos/backend/utils"
)

func newTestManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	st := store.New(database.NewMemory(0), notify.NewBus())
	return NewManager(st, notify.NewBus(), []byte("test-secret")), st
}

func TestRegisterThenLogin(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	reg, err := m.Register(ctx, "jane@example.com", "secret123", "Jane")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.User.Role != models.RoleUser {
		t.Errorf("registered role: expected user, got %q", reg.User.Role)
	}
	if reg.Token == "" {
		t.Error("registration must auto-login and return a token")
	}

	session, err := m.Login(ctx, "jane@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login after Register failed: %v", err)
	}
	if session.User.ID != reg.User.ID {
		t.Errorf("login returned a different user: %+v vs %+v", session.User, reg.User)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Register(ctx, "jane@example.com", "secret123", "Jane"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Same address with different casing is still a duplicate.
	_, err := m.Register(ctx, "JANE@EXAMPLE.COM", "other456", "Jane 2")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if n := len(st.AllUsers(ctx)); n != 1 {
		t.Errorf("failed registration mutated users: %d records", n)
	}
}

func TestLoginFailures(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	if _, err := m.Register(ctx, "jane@example.com", "secret123", "Jane"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if _, err := m.Login(ctx, "jane@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := m.Login(ctx, "nobody@example.com", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	session, err := m.Register(ctx, "jane@example.com", "secret123", "Jane")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	view := m.Verify(ctx, session.Token)
	if view == nil {
		t.Fatal("Verify rejected a freshly issued token")
	}
	if view.ID != session.User.ID || view.Email != session.User.Email || view.Role != session.User.Role {
		t.Errorf("verify view %+v does not match login %+v", view, session.User)
	}
}

func TestVerifyReflectsLiveUserChanges(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	session, err := m.Register(ctx, "jane@example.com", "secret123", "Jane")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// An admin promotes the account after the token was issued.
	role := models.RoleFrontDesk
	if _, err := st.UpdateUser(ctx, session.User.ID, store.UserUpdate{Role: &role}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	view := m.Verify(ctx, session.Token)
	if view == nil {
		t.Fatal("Verify failed after role change")
	}
	if view.Role != models.RoleFrontDesk {
		t.Errorf("verify returned stale role %q", view.Role)
	}
}

func TestVerifySoftFails(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	if view := m.Verify(ctx, "not-a-token"); view != nil {
		t.Errorf("garbage token verified: %+v", view)
	}

	// Forged token signed with another key.
	forged, err := utils.GenerateToken("admin-1", "admin@ali-autos.com", "admin", []byte("attacker-key"))
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if view := m.Verify(ctx, forged); view != nil {
		t.Errorf("forged token verified: %+v", view)
	}

	// Valid token whose user has since been deleted.
	session, err := m.Register(ctx, "jane@example.com", "secret123", "Jane")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := st.DeleteUser(ctx, session.User.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if view := m.Verify(ctx, session.Token); view != nil {
		t.Errorf("token for deleted user verified: %+v", view)
	}
}

func TestSeededAdminLogin(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	if err := st.SeedAdmin(ctx); err != nil {
		t.Fatalf("SeedAdmin failed: %v", err)
	}

	session, err := m.Login(ctx, "admin@ali-autos.com", "admin123")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if session.User.Role != models.RoleAdmin {
		t.Errorf("expected admin role, got %q", session.User.Role)
	}
	if session.User.ID != "admin-1" {
		t.Errorf("expected seeded id admin-1, got %q", session.User.ID)
	}

	if _, err := m.Login(ctx, "admin@ali-autos.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong admin password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSessionCacheAndLogout(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	session, err := m.Register(ctx, "jane@example.com", "secret123", "Jane")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if view := m.VerifyStored(ctx); view == nil || view.ID != session.User.ID {
		t.Errorf("VerifyStored after login: %+v", view)
	}
	if cached := m.CurrentUser(ctx); cached == nil || cached.Email != "jane@example.com" {
		t.Errorf("CurrentUser snapshot: %+v", cached)
	}

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if view := m.VerifyStored(ctx); view != nil {
		t.Errorf("VerifyStored after logout: %+v", view)
	}
	if cached := m.CurrentUser(ctx); cached != nil {
		t.Errorf("CurrentUser after logout: %+v", cached)
	}
}

func TestCurrentUserIsStalerThanVerify(t *testing.T) {
	m, st := newTestManager(t)
	ctx := context.Background()

	session, err := m.Register(ctx, "jane@example.com", "secret123", "Jane")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	name := "Jane Doe"
	if _, err := st.UpdateUser(ctx, session.User.ID, store.UserUpdate{DisplayName: &name}); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	// The cached snapshot is not revalidated.
	if cached := m.CurrentUser(ctx); cached == nil || cached.DisplayName != "Jane" {
		t.Errorf("cached snapshot changed unexpectedly: %+v", cached)
	}
	// A fresh verify sees the new name.
	if view := m.Verify(ctx, session.Token); view == nil || view.DisplayName != "Jane Doe" {
		t.Errorf("verify missed the update: %+v", view)
	}
}
