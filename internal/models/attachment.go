package models

// AttachmentModel is file metadata tied to exactly one primary entity through
// the embedded SubjectRef. Rows are immutable after creation; deleting the
// subject does not cascade here (legacy behavior).
type AttachmentModel struct {
	Base
	StoredName   string `json:"filename"     gorm:"not null"`
	OriginalName string `json:"originalname" gorm:"not null"`
	StoragePath  string `json:"path"         gorm:"not null"`
	ContentType  string `json:"mimetype"     gorm:"not null"`
	SizeBytes    int64  `json:"size"         gorm:"not null"`
	UploadedBy   string `json:"user"         gorm:"column:uploaded_by;type:varchar(64);not null;index"`
	SubjectRef   `gorm:"embedded"`
}

func (AttachmentModel) TableName() string { return "attachments" }
