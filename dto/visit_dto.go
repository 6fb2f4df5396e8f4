package dto

type CreateVisitDTO struct {
	CarID   string `json:"carId"`
	CarName string `json:"carName"`

	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`

	// The scheduling form sends visitDate/visitTime; older clients send
	// date/time. One pair must be present.
	VisitDate string `json:"visitDate" binding:"required_without=Date"`
	VisitTime string `json:"visitTime" binding:"required_without=Time"`
	Date      string `json:"date" binding:"required_without=VisitDate"`
	Time      string `json:"time" binding:"required_without=VisitTime"`

	Message string `json:"message"`
}
