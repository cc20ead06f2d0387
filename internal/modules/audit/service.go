// Package audit persists the append-only activity trail. Writes are
// best-effort by design: a lost audit entry must never fail the mutation it
// describes, so Record swallows every error into the diagnostic log.
package audit

import (
	"fmt"

	"github.com/pulsecrm/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const unknownActorName = "Unknown user"

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

// Record appends one activity entry, fire-and-forget. Validation and
// persistence failures are logged and otherwise invisible to the caller.
func (s *Service) Record(actor string, kind models.ActivityKind, summary string, subject models.SubjectRef) {
	if err := s.record(actor, kind, summary, subject); err != nil {
		s.log.Warn("activity entry dropped",
			zap.String("actor", actor),
			zap.String("kind", string(kind)),
			zap.String("subject_kind", string(subject.SubjectKind)),
			zap.String("subject_id", subject.SubjectID),
			zap.Error(err),
		)
	}
}

func (s *Service) record(actor string, kind models.ActivityKind, summary string, subject models.SubjectRef) error {
	if !kind.Valid() {
		return fmt.Errorf("invalid activity kind %q", string(kind))
	}
	if err := subject.Validate(); err != nil {
		return err
	}
	if actor == "" {
		return fmt.Errorf("actor is required")
	}
	// The subject is deliberately not checked for existence: entries may
	// describe entities that are deleted moments later, and the trail for a
	// deleted subject stays orphaned rather than being rewritten.
	entry := models.ActivityModel{
		Actor:      actor,
		Kind:       kind,
		Summary:    summary,
		SubjectRef: subject,
	}
	return s.db.Create(&entry).Error
}

// ListFor returns the activity feed of one subject, newest first, with each
// actor resolved to a display name. Unknown actors get a placeholder rather
// than an error so the feed survives user deletion.
func (s *Service) ListFor(subject models.SubjectRef) ([]ActivityView, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}

	var rows []models.ActivityModel
	if err := s.db.
		Where("subject_kind = ? AND subject_id = ?", subject.SubjectKind, subject.SubjectID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	names, err := s.actorNames(rows)
	if err != nil {
		return nil, err
	}

	views := make([]ActivityView, 0, len(rows))
	for _, row := range rows {
		name, ok := names[row.Actor]
		if !ok {
			name = unknownActorName
		}
		views = append(views, ActivityView{
			ID:         row.Base.ID,
			Kind:       row.Kind,
			Summary:    row.Summary,
			Actor:      ActorView{ID: row.Actor, Name: name},
			SubjectRef: row.SubjectRef,
			Created:    row.CreatedAt,
		})
	}
	return views, nil
}

func (s *Service) actorNames(rows []models.ActivityModel) (map[string]string, error) {
	ids := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.Actor]; ok {
			continue
		}
		seen[row.Actor] = struct{}{}
		ids = append(ids, row.Actor)
	}
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	var users []models.UserModel
	if err := s.db.Select("id, name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}
