package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliautos/backend/auth"
	"github.com/aliautos/backend/dto"
	"github.com/aliautos/backend/middleware"
)

func Login(sessions *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, err := sessions.Login(c.Request.Context(), body.Email, body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": session.Token, "user": session.User})
	}
}

func Register(sessions *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		session, err := sessions.Register(c.Request.Context(), body.Email, body.Password, body.DisplayName)
		if err != nil {
			if errors.Is(err, auth.ErrEmailExists) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": session.Token, "user": session.User})
	}
}

func Logout(sessions *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := sessions.Logout(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// Me returns the freshly verified session user loaded by the auth middleware.
func Me() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.SessionUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}
