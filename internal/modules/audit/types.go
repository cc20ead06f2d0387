package audit

import (
	"time"

	"github.com/pulsecrm/core/internal/models"
)

// ActorView is the resolved display identity of the user who performed an
// action.
type ActorView struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ActivityView is one feed entry with the actor join applied.
type ActivityView struct {
	ID                string              `json:"_id"`
	Kind              models.ActivityKind `json:"type"`
	Summary           string              `json:"description"`
	Actor             ActorView           `json:"user"`
	models.SubjectRef                     // relatedModel / relatedTo
	Created           time.Time           `json:"createdAt"`
}
