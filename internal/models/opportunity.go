package models

import "time"

// OpportunityStage is a step of the sales pipeline.
type OpportunityStage string

const (
	StageQualification OpportunityStage = "Qualification"
	StageNeedsAnalysis OpportunityStage = "Needs Analysis"
	StageProposal      OpportunityStage = "Proposal"
	StageNegotiation   OpportunityStage = "Negotiation"
	StageClosedWon     OpportunityStage = "Closed Won"
	StageClosedLost    OpportunityStage = "Closed Lost"
)

func (s OpportunityStage) Valid() bool {
	switch s {
	case StageQualification, StageNeedsAnalysis, StageProposal,
		StageNegotiation, StageClosedWon, StageClosedLost:
		return true
	}
	return false
}

// OpportunityModel is a potential deal tied to a customer.
type OpportunityModel struct {
	Base
	UserID            string           `json:"user"                       gorm:"column:user_id;type:varchar(64);not null;index"`
	CustomerID        string           `json:"-"                          gorm:"column:customer_id;type:varchar(64);not null;index"`
	Customer          *CustomerModel   `json:"customer,omitempty"         gorm:"foreignKey:CustomerID;references:ID"`
	Title             string           `json:"title"                      gorm:"not null"`
	Value             float64          `json:"value"                      gorm:"not null"`
	Stage             OpportunityStage `json:"stage"                      gorm:"type:varchar(32);default:'Qualification'"`
	ExpectedCloseDate *time.Time       `json:"expectedCloseDate,omitempty"`
	Notes             string           `json:"notes"                      gorm:"type:text"`
}

func (OpportunityModel) TableName() string { return "opportunities" }
