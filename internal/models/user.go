package models

// UserModel is a CRM tenant account. Every primary entity row carries the id
// of the user who owns it; there is no cross-tenant sharing.
type UserModel struct {
	Base
	Name     string `json:"name"  gorm:"not null"`
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-"     gorm:"not null"`
}

func (UserModel) TableName() string { return "users" }
