package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aliautos/backend/dto"
	"github.com/aliautos/backend/middleware"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/provision"
	"github.com/aliautos/backend/store"
	"github.com/aliautos/backend/utils"
)

// GetStaff lists front-desk and admin accounts for the admin dashboard.
func GetStaff(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		staff := make([]models.StaffView, 0)
		for _, u := range st.AllUsers(c.Request.Context()) {
			if u.Role == models.RoleFrontDesk || u.Role == models.RoleAdmin {
				staff = append(staff, u.StaffView())
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": staff})
	}
}

// GetUsers lists customer accounts.
func GetUsers(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		users := make([]models.StaffView, 0)
		for _, u := range st.AllUsers(c.Request.Context()) {
			if u.Role == models.RoleUser {
				users = append(users, u.StaffView())
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": users})
	}
}

// CreateStaff opens a front-desk account: the record lands in the local users
// collection, and when a provisioning endpoint is configured the same account
// is pushed to the external identity directory best-effort.
func CreateStaff(st *store.Store, provisioner *provision.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateStaffDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		email := strings.ToLower(strings.TrimSpace(body.Email))

		hash, err := utils.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		staff, err := st.CreateUser(c.Request.Context(), models.User{
			Email:        email,
			PasswordHash: hash,
			DisplayName:  body.DisplayName,
			Role:         models.RoleFrontDesk,
			Phone:        body.Phone,
			Address:      body.Address,
		})
		if err != nil {
			if errors.Is(err, store.ErrEmailExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		if provisioner != nil {
			bearer := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
				defer cancel()
				_, err := provisioner.CreateStaff(ctx, bearer, provision.CreateStaffRequest{
					Email:       email,
					Password:    body.Password,
					DisplayName: body.DisplayName,
				})
				if err != nil {
					log.Println("staff provisioning failed:", err)
				}
			}()
		}

		c.JSON(http.StatusCreated, staff.StaffView())
	}
}

// UpdateStaff edits a front-desk account; the password only changes when a
// new one is supplied.
func UpdateStaff(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		target := st.UserByID(c.Request.Context(), id)
		if target == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "staff member not found"})
			return
		}
		if target.Role != models.RoleFrontDesk {
			c.JSON(http.StatusForbidden, gin.H{"error": "can only edit front desk staff"})
			return
		}

		var body dto.UpdateStaffDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		upd := store.UserUpdate{
			Email:       body.Email,
			DisplayName: body.DisplayName,
			Phone:       body.Phone,
			Address:     body.Address,
		}
		if body.Password != nil {
			hash, err := utils.HashPassword(*body.Password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
				return
			}
			upd.PasswordHash = &hash
		}

		updated, err := st.UpdateUser(c.Request.Context(), id, upd)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if updated == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "staff member not found"})
			return
		}

		c.JSON(http.StatusOK, updated.StaffView())
	}
}

// DeleteStaff removes a front-desk account. Admin accounts are never
// deletable through this path.
func DeleteStaff(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		target := st.UserByID(c.Request.Context(), id)
		if target == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "staff member not found"})
			return
		}
		if target.Role != models.RoleFrontDesk {
			c.JSON(http.StatusForbidden, gin.H{"error": "can only delete front desk staff"})
			return
		}

		if err := st.DeleteUser(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// ChangeMyPassword lets the signed-in account rotate its own password after
// proving the current one.
func ChangeMyPassword(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.ChangeMyPasswordDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session := middleware.SessionUser(c)
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		user := st.UserByID(c.Request.Context(), session.ID)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}
		if err := utils.CheckPassword(user.PasswordHash, body.CurrentPassword); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "current password is incorrect"})
			return
		}

		hash, err := utils.HashPassword(body.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}
		if _, err := st.UpdateUser(c.Request.Context(), user.ID, store.UserUpdate{PasswordHash: &hash}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
