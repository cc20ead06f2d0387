package models

// CustomerModel is an established customer record. The owner column is
// user_id; note that LeadModel uses owner_id instead, an asymmetry inherited
// from the legacy schema and encapsulated by crm/registry.
type CustomerModel struct {
	Base
	UserID  string `json:"user"    gorm:"column:user_id;type:varchar(64);not null;index"`
	Name    string `json:"name"    gorm:"not null"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Company string `json:"company"`
}

func (CustomerModel) TableName() string { return "customers" }
