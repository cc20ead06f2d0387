// Package registry is the single authority on primary entity kinds. Every
// polymorphic consumer (attachments, audit trail) resolves existence and
// ownership through it instead of touching the entity tables directly.
package registry

import (
	"github.com/pulsecrm/core/internal/models"
	"gorm.io/gorm"
)

// kindBinding maps a subject kind onto its table and owner column. The
// legacy schema named the owner column differently per entity; this table is
// the only place that asymmetry is visible.
type kindBinding struct {
	model       interface{}
	ownerColumn string
}

var bindings = map[models.SubjectKind]kindBinding{
	models.KindCustomer:    {model: &models.CustomerModel{}, ownerColumn: "user_id"},
	models.KindLead:        {model: &models.LeadModel{}, ownerColumn: "owner_id"},
	models.KindOpportunity: {model: &models.OpportunityModel{}, ownerColumn: "user_id"},
}

type Registry struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Registry { return &Registry{db: db} }

// Exists reports whether an entity of the given kind exists with the given
// id and is owned by ownerUserID. Unknown kinds and absent or foreign rows
// yield false, not an error; callers decide whether that is a client error.
func (r *Registry) Exists(kind models.SubjectKind, id, ownerUserID string) (bool, error) {
	binding, ok := bindings[kind]
	if !ok {
		return false, nil
	}
	if id == "" || ownerUserID == "" {
		return false, nil
	}

	var count int64
	err := r.db.Model(binding.model).
		Where("id = ? AND "+binding.ownerColumn+" = ?", id, ownerUserID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// OwnerColumn exposes the per-kind owner column name for modules that build
// their own queries (analytics).
func OwnerColumn(kind models.SubjectKind) string {
	if b, ok := bindings[kind]; ok {
		return b.ownerColumn
	}
	return ""
}
