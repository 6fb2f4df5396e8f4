package models

import "time"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleFrontDesk Role = "front_desk"
	RoleUser      Role = "user"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	// PasswordHash is part of the persisted document; handlers must respond
	// with UserView or StaffView, never with User itself.
	PasswordHash string    `json:"password_hash"`
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserView is the denormalized snapshot handed to clients and cached by the
// session manager. It carries no credentials.
type UserView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}

func (u User) View() UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}

// StaffView is the admin dashboard's listing shape for staff and customer
// accounts.
type StaffView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        Role      `json:"role"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (u User) StaffView() StaffView {
	return StaffView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		Phone:       u.Phone,
		Address:     u.Address,
		CreatedAt:   u.CreatedAt,
	}
}

// IsStaff reports whether the role gets the back-office views.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleFrontDesk
}
