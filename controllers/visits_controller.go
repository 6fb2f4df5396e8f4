package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aliautos/backend/dto"
	"github.com/aliautos/backend/middleware"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/store"
)

// GetVisits lists what the session is allowed to see: staff get every visit,
// customers only their own.
func GetVisits(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionUser(c)
		visible := store.VisibleVisits(session, st.AllVisits(c.Request.Context()))
		c.JSON(http.StatusOK, gin.H{"items": visible, "total": len(visible)})
	}
}

// CreateVisit schedules an inspection visit for the signed-in customer. The
// visit is stamped with the session's id and email, never the form's.
func CreateVisit(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionUser(c)
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "must be logged in to schedule a visit"})
			return
		}

		var body dto.CreateVisitDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		carName := strings.TrimSpace(body.CarName)
		if body.CarID != "" {
			car := st.CarByID(c.Request.Context(), body.CarID)
			if car == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
				return
			}
			carName = fmt.Sprintf("%s %s %d", car.Make, car.Model, car.Year)
		}
		if carName == "" {
			carName = "General Visit"
		}

		visit, err := st.CreateVisit(c.Request.Context(), models.Visit{
			CarID:     body.CarID,
			CarName:   carName,
			Name:      body.Name,
			Email:     session.Email,
			Phone:     body.Phone,
			Date:      firstNonEmpty(body.VisitDate, body.Date),
			Time:      firstNonEmpty(body.VisitTime, body.Time),
			VisitDate: firstNonEmpty(body.VisitDate, body.Date),
			VisitTime: firstNonEmpty(body.VisitTime, body.Time),
			Message:   body.Message,
			UserID:    session.ID,
			UserEmail: session.Email,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, visit)
	}
}

// CancelVisit moves a scheduled visit to cancelled. The owning customer may
// cancel their own visit; staff may cancel any.
func CancelVisit(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := middleware.SessionUser(c)
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			return
		}

		id := c.Param("id")
		visit := st.VisitByID(c.Request.Context(), id)
		if visit == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "visit not found"})
			return
		}
		if !session.Role.IsStaff() &&
			visit.UserID != session.ID && !strings.EqualFold(visit.UserEmail, session.Email) {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}

		setVisitStatus(c, st, id, models.VisitCancelled)
	}
}

// CompleteVisit is the front-desk action after the customer showed up.
func CompleteVisit(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		setVisitStatus(c, st, c.Param("id"), models.VisitCompleted)
	}
}

func setVisitStatus(c *gin.Context, st *store.Store, id string, status models.VisitStatus) {
	updated, err := st.SetVisitStatus(c.Request.Context(), id, status)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if updated == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "visit not found"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
