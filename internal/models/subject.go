package models

import (
	"errors"
	"fmt"
)

// SubjectKind is the discriminant of a polymorphic reference to a primary
// CRM entity. The set is closed; new kinds are added here and in the
// crm/registry lookup table, nowhere else.
type SubjectKind string

const (
	KindCustomer    SubjectKind = "Customer"
	KindLead        SubjectKind = "Lead"
	KindOpportunity SubjectKind = "Opportunity"
)

var (
	ErrUnknownSubjectKind = errors.New("unknown subject kind")
	ErrInvalidSubjectID   = errors.New("invalid subject id")
)

// AllSubjectKinds returns the closed set of valid kinds.
func AllSubjectKinds() []SubjectKind {
	return []SubjectKind{KindCustomer, KindLead, KindOpportunity}
}

func (k SubjectKind) Valid() bool {
	switch k {
	case KindCustomer, KindLead, KindOpportunity:
		return true
	}
	return false
}

// ParseSubjectKind converts a raw request value into a SubjectKind.
// It is case-sensitive on purpose: the wire format matches the legacy
// Mongoose model names exactly.
func ParseSubjectKind(raw string) (SubjectKind, error) {
	k := SubjectKind(raw)
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSubjectKind, raw)
	}
	return k, nil
}

// SubjectRef is a tagged polymorphic reference: the kind and the id travel
// together so a bare id can never be interpreted against the wrong table.
// It is embedded in every record that points at a primary entity.
type SubjectRef struct {
	SubjectKind SubjectKind `json:"relatedModel" gorm:"column:subject_kind;type:varchar(16);not null;index:,composite:subject,priority:1"`
	SubjectID   string      `json:"relatedTo"    gorm:"column:subject_id;type:varchar(64);not null;index:,composite:subject,priority:2"`
}

// Subject builds a SubjectRef without validating it.
func Subject(kind SubjectKind, id string) SubjectRef {
	return SubjectRef{SubjectKind: kind, SubjectID: id}
}

// Validate checks the discriminant against the closed set and the id for
// syntactic sanity. It does not check that the subject exists.
func (r SubjectRef) Validate() error {
	if !r.SubjectKind.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownSubjectKind, string(r.SubjectKind))
	}
	if r.SubjectID == "" || len(r.SubjectID) > 64 || !isSafeID(r.SubjectID) {
		return fmt.Errorf("%w: %q", ErrInvalidSubjectID, r.SubjectID)
	}
	return nil
}

// isSafeID accepts UUIDs and ObjectID hex strings, nothing fancier.
func isSafeID(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' {
			continue
		}
		return false
	}
	return true
}
