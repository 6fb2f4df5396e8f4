package models

import "time"

type VisitStatus string

const (
	VisitScheduled VisitStatus = "scheduled"
	VisitCompleted VisitStatus = "completed"
	VisitCancelled VisitStatus = "cancelled"
)

type Visit struct {
	ID      string `json:"id"`
	CarID   string `json:"carId,omitempty"`
	CarName string `json:"carName"`

	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone"`

	// Date/Time and VisitDate/VisitTime are kept in sync; older records may
	// carry only one pair.
	Date      string `json:"date"`
	Time      string `json:"time"`
	VisitDate string `json:"visitDate"`
	VisitTime string `json:"visitTime"`

	Message string      `json:"message,omitempty"`
	Status  VisitStatus `json:"status"`

	UserID    string    `json:"userId"`
	UserEmail string    `json:"userEmail"`
	CreatedAt time.Time `json:"createdAt"`
}

// Terminal reports whether the status permits no further transition.
func (s VisitStatus) Terminal() bool {
	return s == VisitCompleted || s == VisitCancelled
}
