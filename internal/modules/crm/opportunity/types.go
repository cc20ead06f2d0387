package opportunity

import "time"

type CreateOpportunityDTO struct {
	Title             string     `json:"title"    binding:"required"`
	Customer          string     `json:"customer" binding:"required"`
	Value             float64    `json:"value"`
	Stage             string     `json:"stage"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
	Notes             string     `json:"notes"`
}

type UpdateOpportunityDTO struct {
	Title             *string    `json:"title"`
	Customer          *string    `json:"customer"`
	Value             *float64   `json:"value"`
	Stage             *string    `json:"stage"`
	ExpectedCloseDate *time.Time `json:"expectedCloseDate"`
	Notes             *string    `json:"notes"`
}
