// Package attachment persists file metadata polymorphically keyed to a
// primary entity, and stores the raw bytes through a pluggable BlobStore.
package attachment

import (
	"errors"

	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/modules/crm/registry"
	"gorm.io/gorm"
)

// ErrSubjectNotFound means the referenced entity does not exist or is not
// owned by the uploader. Attachments are strict about this where the audit
// trail is not: orphaned files waste storage, orphaned log lines do not.
var ErrSubjectNotFound = errors.New("subject not found")

// FileMeta describes stored bytes as reported by the blob store.
type FileMeta struct {
	StoredName   string
	OriginalName string
	StoragePath  string
	ContentType  string
	SizeBytes    int64
}

type Service struct {
	db  *gorm.DB
	reg *registry.Registry
}

func NewService(db *gorm.DB, reg *registry.Registry) *Service {
	return &Service{db: db, reg: reg}
}

// CheckSubject verifies the subject reference is well formed, exists, and
// is owned by userID, without writing anything. Upload handlers call it
// before spending blob storage on a doomed request.
func (s *Service) CheckSubject(userID string, subject models.SubjectRef) error {
	if err := subject.Validate(); err != nil {
		return err
	}
	ok, err := s.reg.Exists(subject.SubjectKind, subject.SubjectID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSubjectNotFound
	}
	return nil
}

// Save records one immutable attachment. The subject reference is validated
// syntactically and checked for existence under the uploader's ownership.
func (s *Service) Save(uploadedBy string, subject models.SubjectRef, meta FileMeta) (*models.AttachmentModel, error) {
	if err := s.CheckSubject(uploadedBy, subject); err != nil {
		return nil, err
	}
	if meta.StoredName == "" || meta.OriginalName == "" || meta.StoragePath == "" ||
		meta.ContentType == "" || meta.SizeBytes < 0 {
		return nil, errors.New("incomplete file metadata")
	}

	rec := models.AttachmentModel{
		StoredName:   meta.StoredName,
		OriginalName: meta.OriginalName,
		StoragePath:  meta.StoragePath,
		ContentType:  meta.ContentType,
		SizeBytes:    meta.SizeBytes,
		UploadedBy:   uploadedBy,
		SubjectRef:   subject,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListFor returns all attachments of one subject, newest first. No ownership
// filter is applied here; callers authorize access to the subject first.
func (s *Service) ListFor(subject models.SubjectRef) ([]models.AttachmentModel, error) {
	if err := subject.Validate(); err != nil {
		return nil, err
	}
	rows := make([]models.AttachmentModel, 0)
	err := s.db.
		Where("subject_kind = ? AND subject_id = ?", subject.SubjectKind, subject.SubjectID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
