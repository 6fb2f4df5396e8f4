package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aliautos/backend/dto"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/store"
)

// CreateContactMessage is the public contact form; no session required.
func CreateContactMessage(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateContactMessageDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		msg, err := st.CreateContactMessage(c.Request.Context(), models.ContactMessage{
			Name:    body.Name,
			Email:   body.Email,
			Phone:   body.Phone,
			Message: body.Message,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, msg)
	}
}

// GetContactMessages is the staff inbox, with the unread count the front-desk
// badge shows.
func GetContactMessages(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		messages := st.AllContactMessages(c.Request.Context())
		unread := 0
		for _, m := range messages {
			if !m.Read {
				unread++
			}
		}
		c.JSON(http.StatusOK, gin.H{"items": messages, "unread": unread})
	}
}

// MarkContactMessageRead flips a message to read when staff open it.
func MarkContactMessageRead(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		msg, err := st.MarkContactMessageRead(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if msg == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		c.JSON(http.StatusOK, msg)
	}
}
