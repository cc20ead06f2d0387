// Package legacyimport loads a mongodump of the previous Node-based CRM
// into the relational schema. It reads the raw .bson collection files
// produced by mongodump, so no running MongoDB instance is needed.
package legacyimport

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pulsecrm/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxDocSize = 16 << 20 // BSON spec limit

type Importer struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewImporter(db *gorm.DB, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{db: db, log: log}
}

// Run imports every recognized collection dump found under dir. Documents
// that fail to decode are skipped with a warning rather than aborting the
// whole run; already-imported rows are left untouched.
func (im *Importer) Run(dir string) error {
	steps := []struct {
		file    string
		convert func(bson.Raw) (interface{}, error)
	}{
		{"users.bson", im.convertUser},
		{"customers.bson", im.convertCustomer},
		{"leads.bson", im.convertLead},
		{"opportunities.bson", im.convertOpportunity},
		{"files.bson", im.convertFile},
		{"activities.bson", im.convertActivity},
	}

	for _, step := range steps {
		path := filepath.Join(dir, step.file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			im.log.Info("collection dump not present, skipping", zap.String("file", step.file))
			continue
		}
		if err := im.importCollection(path, step.convert); err != nil {
			return fmt.Errorf("import %s: %w", step.file, err)
		}
	}
	return nil
}

func (im *Importer) importCollection(path string, convert func(bson.Raw) (interface{}, error)) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var imported, skipped int
	for {
		raw, err := readDocument(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		row, err := convert(raw)
		if err != nil {
			im.log.Warn("skipping malformed document",
				zap.String("file", filepath.Base(path)), zap.Error(err))
			skipped++
			continue
		}
		if err := im.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return err
		}
		imported++
	}

	im.log.Info("collection imported",
		zap.String("file", filepath.Base(path)),
		zap.Int("imported", imported),
		zap.Int("skipped", skipped))
	return nil
}

// readDocument reads one length-prefixed BSON document from the stream.
func readDocument(r io.Reader) (bson.Raw, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, io.EOF
		}
		return nil, err
	}
	size := int(binary.LittleEndian.Uint32(header[:]))
	if size < 5 || size > maxDocSize {
		return nil, fmt.Errorf("invalid document size %d", size)
	}

	doc := make([]byte, size)
	copy(doc, header[:])
	if _, err := io.ReadFull(r, doc[4:]); err != nil {
		return nil, err
	}
	return bson.Raw(doc), nil
}

type LegacyTimestamps struct {
	CreatedAt primitive.DateTime `bson:"createdAt"`
	UpdatedAt primitive.DateTime `bson:"updatedAt"`
}

func (t LegacyTimestamps) base(id primitive.ObjectID) models.Base {
	created := t.CreatedAt.Time().UTC()
	if t.CreatedAt == 0 {
		created = id.Timestamp().UTC()
	}
	updated := t.UpdatedAt.Time().UTC()
	if t.UpdatedAt == 0 {
		updated = created
	}
	return models.Base{ID: id.Hex(), CreatedAt: created, UpdatedAt: updated}
}

func (im *Importer) convertUser(raw bson.Raw) (interface{}, error) {
	var doc struct {
		ID               primitive.ObjectID `bson:"_id"`
		Name             string             `bson:"name"`
		Email            string             `bson:"email"`
		Password         string             `bson:"password"`
		LegacyTimestamps `bson:",inline"`
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &models.UserModel{
		Base:     doc.base(doc.ID),
		Name:     doc.Name,
		Email:    doc.Email,
		Password: doc.Password,
	}, nil
}

func (im *Importer) convertCustomer(raw bson.Raw) (interface{}, error) {
	var doc struct {
		ID               primitive.ObjectID `bson:"_id"`
		User             primitive.ObjectID `bson:"user"`
		Name             string             `bson:"name"`
		Email            string             `bson:"email"`
		Phone            string             `bson:"phone"`
		Address          string             `bson:"address"`
		Company          string             `bson:"company"`
		LegacyTimestamps `bson:",inline"`
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &models.CustomerModel{
		Base:    doc.base(doc.ID),
		UserID:  doc.User.Hex(),
		Name:    doc.Name,
		Email:   doc.Email,
		Phone:   doc.Phone,
		Address: doc.Address,
		Company: doc.Company,
	}, nil
}

func (im *Importer) convertLead(raw bson.Raw) (interface{}, error) {
	var doc struct {
		ID               primitive.ObjectID `bson:"_id"`
		Owner            primitive.ObjectID `bson:"owner"`
		Name             string             `bson:"name"`
		Email            string             `bson:"email"`
		Phone            string             `bson:"phone"`
		Status           string             `bson:"status"`
		Source           string             `bson:"source"`
		Notes            string             `bson:"notes"`
		LegacyTimestamps `bson:",inline"`
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	status := models.LeadStatus(doc.Status)
	if doc.Status == "" {
		status = models.LeadNew
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown lead status %q", doc.Status)
	}
	return &models.LeadModel{
		Base:    doc.base(doc.ID),
		OwnerID: doc.Owner.Hex(),
		Name:    doc.Name,
		Email:   doc.Email,
		Phone:   doc.Phone,
		Status:  status,
		Source:  doc.Source,
		Notes:   doc.Notes,
	}, nil
}

func (im *Importer) convertOpportunity(raw bson.Raw) (interface{}, error) {
	var doc struct {
		ID                primitive.ObjectID  `bson:"_id"`
		User              primitive.ObjectID  `bson:"user"`
		Customer          primitive.ObjectID  `bson:"customer"`
		Title             string              `bson:"title"`
		Value             float64             `bson:"value"`
		Stage             string              `bson:"stage"`
		ExpectedCloseDate *primitive.DateTime `bson:"expectedCloseDate"`
		Notes             string              `bson:"notes"`
		LegacyTimestamps  `bson:",inline"`
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	stage := models.OpportunityStage(doc.Stage)
	if doc.Stage == "" {
		stage = models.StageQualification
	}
	if !stage.Valid() {
		return nil, fmt.Errorf("unknown opportunity stage %q", doc.Stage)
	}

	var closeDate *time.Time
	if doc.ExpectedCloseDate != nil {
		t := doc.ExpectedCloseDate.Time().UTC()
		closeDate = &t
	}
	return &models.OpportunityModel{
		Base:              doc.base(doc.ID),
		UserID:            doc.User.Hex(),
		CustomerID:        doc.Customer.Hex(),
		Title:             doc.Title,
		Value:             doc.Value,
		Stage:             stage,
		ExpectedCloseDate: closeDate,
		Notes:             doc.Notes,
	}, nil
}

func (im *Importer) convertFile(raw bson.Raw) (interface{}, error) {
	var doc struct {
		ID               primitive.ObjectID `bson:"_id"`
		User             primitive.ObjectID `bson:"user"`
		Filename         string             `bson:"filename"`
		OriginalName     string             `bson:"originalname"`
		Path             string             `bson:"path"`
		Mimetype         string             `bson:"mimetype"`
		Size             int64              `bson:"size"`
		RelatedTo        primitive.ObjectID `bson:"relatedTo"`
		RelatedModel     string             `bson:"relatedModel"`
		LegacyTimestamps `bson:",inline"`
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	kind, err := models.ParseSubjectKind(doc.RelatedModel)
	if err != nil {
		return nil, err
	}
	return &models.AttachmentModel{
		Base:         doc.base(doc.ID),
		StoredName:   doc.Filename,
		OriginalName: doc.OriginalName,
		StoragePath:  doc.Path,
		ContentType:  doc.Mimetype,
		SizeBytes:    doc.Size,
		UploadedBy:   doc.User.Hex(),
		SubjectRef:   models.Subject(kind, doc.RelatedTo.Hex()),
	}, nil
}

func (im *Importer) convertActivity(raw bson.Raw) (interface{}, error) {
	var doc struct {
		ID               primitive.ObjectID `bson:"_id"`
		User             primitive.ObjectID `bson:"user"`
		Type             string             `bson:"type"`
		Description      string             `bson:"description"`
		RelatedTo        primitive.ObjectID `bson:"relatedTo"`
		RelatedModel     string             `bson:"relatedModel"`
		LegacyTimestamps `bson:",inline"`
	}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	kind := models.ActivityKind(doc.Type)
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown activity type %q", doc.Type)
	}
	subjectKind, err := models.ParseSubjectKind(doc.RelatedModel)
	if err != nil {
		return nil, err
	}
	return &models.ActivityModel{
		Base:       doc.base(doc.ID),
		Actor:      doc.User.Hex(),
		Kind:       kind,
		Summary:    doc.Description,
		SubjectRef: models.Subject(subjectKind, doc.RelatedTo.Hex()),
	}, nil
}
