package models

// ActivityKind classifies an audit trail entry.
type ActivityKind string

const (
	ActivityCreate       ActivityKind = "CREATE"
	ActivityUpdate       ActivityKind = "UPDATE"
	ActivityDelete       ActivityKind = "DELETE"
	ActivityNote         ActivityKind = "NOTE"
	ActivityFileUpload   ActivityKind = "FILE_UPLOAD"
	ActivityStatusChange ActivityKind = "STATUS_CHANGE"
)

func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityCreate, ActivityUpdate, ActivityDelete,
		ActivityNote, ActivityFileUpload, ActivityStatusChange:
		return true
	}
	return false
}

// ActivityModel is one append-only audit trail entry. Rows are never updated
// or deleted by normal flows, even after the subject itself is gone.
type ActivityModel struct {
	Base
	Actor      string       `json:"user"        gorm:"column:actor;type:varchar(64);not null;index"`
	Kind       ActivityKind `json:"type"        gorm:"type:varchar(16);not null"`
	Summary    string       `json:"description" gorm:"type:text;not null"`
	SubjectRef `gorm:"embedded"`
}

func (ActivityModel) TableName() string { return "activities" }
