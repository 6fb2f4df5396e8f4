package models

type Car struct {
	ID    string `json:"id"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	Price int64  `json:"price"`
	Body  string `json:"body"`
	// Mileage and Location are display strings ("34,000 km", "Ikeja Showroom").
	Mileage          string   `json:"mileage"`
	Location         string   `json:"location,omitempty"`
	ShortDescription string   `json:"shortDescription"`
	Description      []string `json:"description"`
	ImageURL         string   `json:"imageUrl"`
}
