package lead

type CreateLeadDTO struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
	Source string `json:"source"`
	Notes  string `json:"notes"`
}

type UpdateLeadDTO struct {
	Name   *string `json:"name"`
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Status *string `json:"status"`
	Source *string `json:"source"`
	Notes  *string `json:"notes"`
}
