package models

// LeadStatus is the qualification state of a lead.
type LeadStatus string

const (
	LeadNew         LeadStatus = "New"
	LeadContacted   LeadStatus = "Contacted"
	LeadQualified   LeadStatus = "Qualified"
	LeadUnqualified LeadStatus = "Unqualified"
	LeadConverted   LeadStatus = "Converted"
)

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadQualified, LeadUnqualified, LeadConverted:
		return true
	}
	return false
}

// LeadModel is an unconverted prospect. Owner column is owner_id, not
// user_id — see CustomerModel.
type LeadModel struct {
	Base
	OwnerID string     `json:"owner"  gorm:"column:owner_id;type:varchar(64);not null;index"`
	Name    string     `json:"name"   gorm:"not null"`
	Email   string     `json:"email"`
	Phone   string     `json:"phone"`
	Status  LeadStatus `json:"status" gorm:"type:varchar(16);default:'New'"`
	Source  string     `json:"source"`
	Notes   string     `json:"notes"  gorm:"type:text"`
}

func (LeadModel) TableName() string { return "leads" }
