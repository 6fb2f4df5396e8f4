package dto

type CreateCarDTO struct {
	ID               string   `json:"id"`
	Make             string   `json:"make" binding:"required"`
	Model            string   `json:"model" binding:"required"`
	Year             int      `json:"year" binding:"required,gte=1950"`
	Price            int64    `json:"price" binding:"required,gt=0"`
	Body             string   `json:"body"`
	Mileage          string   `json:"mileage"`
	Location         string   `json:"location"`
	ShortDescription string   `json:"shortDescription"`
	Description      []string `json:"description"`
	ImageURL         string   `json:"imageUrl"`
}

type UpdateCarDTO struct {
	Make             *string   `json:"make,omitempty"`
	Model            *string   `json:"model,omitempty"`
	Year             *int      `json:"year,omitempty"`
	Price            *int64    `json:"price,omitempty"`
	Body             *string   `json:"body,omitempty"`
	Mileage          *string   `json:"mileage,omitempty"`
	Location         *string   `json:"location,omitempty"`
	ShortDescription *string   `json:"shortDescription,omitempty"`
	Description      *[]string `json:"description,omitempty"`
	ImageURL         *string   `json:"imageUrl,omitempty"`
}
