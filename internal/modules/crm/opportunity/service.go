package opportunity

import (
	"errors"
	"fmt"

	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/modules/audit"
	"github.com/pulsecrm/core/internal/pkg/pagination"
	"github.com/pulsecrm/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	errNotFound         = errors.New("opportunity not found")
	errNotOwner         = errors.New("opportunity belongs to another user")
	errCustomerNotFound = errors.New("customer not found or does not belong to you")
	errInvalidStage     = errors.New("invalid opportunity stage")
)

type Service struct {
	db    *gorm.DB
	audit *audit.Service
}

func NewService(db *gorm.DB, auditSvc *audit.Service) *Service {
	return &Service{db: db, audit: auditSvc}
}

// List returns the user's opportunities, newest first, with the customer
// reference populated for display.
func (s *Service) List(userID, search string, q pagination.Query) ([]models.OpportunityModel, response.Pagination, error) {
	tx := s.db.Model(&models.OpportunityModel{}).Where("user_id = ?", userID)
	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("title LIKE ? OR stage LIKE ?", like, like)
	}
	tx = tx.Preload("Customer").Order("created_at DESC")

	var rows []models.OpportunityModel
	pag, err := pagination.Paginate(tx, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, pag, nil
}

// Create stores a new opportunity after verifying the target customer exists
// and belongs to the caller, then reports a CREATE activity.
func (s *Service) Create(userID string, dto *CreateOpportunityDTO) (*models.OpportunityModel, error) {
	var customerCount int64
	if err := s.db.Model(&models.CustomerModel{}).
		Where("id = ? AND user_id = ?", dto.Customer, userID).
		Count(&customerCount).Error; err != nil {
		return nil, err
	}
	if customerCount == 0 {
		return nil, errCustomerNotFound
	}

	stage := models.OpportunityStage(dto.Stage)
	if dto.Stage == "" {
		stage = models.StageQualification
	}
	if !stage.Valid() {
		return nil, errInvalidStage
	}

	rec := models.OpportunityModel{
		UserID:            userID,
		CustomerID:        dto.Customer,
		Title:             dto.Title,
		Value:             dto.Value,
		Stage:             stage,
		ExpectedCloseDate: dto.ExpectedCloseDate,
		Notes:             dto.Notes,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}

	s.audit.Record(userID, models.ActivityCreate,
		fmt.Sprintf("created a new opportunity: %q", rec.Title),
		models.Subject(models.KindOpportunity, rec.ID))

	return &rec, nil
}

// Update applies a partial mutation. A stage transition is reported as
// STATUS_CHANGE with both stages embedded in the summary; any other change
// is a generic UPDATE.
func (s *Service) Update(userID, id string, dto *UpdateOpportunityDTO) (*models.OpportunityModel, error) {
	rec, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	oldStage := rec.Stage
	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Customer != nil {
		var customerCount int64
		if err := s.db.Model(&models.CustomerModel{}).
			Where("id = ? AND user_id = ?", *dto.Customer, userID).
			Count(&customerCount).Error; err != nil {
			return nil, err
		}
		if customerCount == 0 {
			return nil, errCustomerNotFound
		}
		updates["customer_id"] = *dto.Customer
	}
	if dto.Value != nil {
		updates["value"] = *dto.Value
	}
	if dto.Stage != nil {
		stage := models.OpportunityStage(*dto.Stage)
		if !stage.Valid() {
			return nil, errInvalidStage
		}
		updates["stage"] = stage
	}
	if dto.ExpectedCloseDate != nil {
		updates["expected_close_date"] = *dto.ExpectedCloseDate
	}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
	}

	if dto.Stage != nil && models.OpportunityStage(*dto.Stage) != oldStage {
		s.audit.Record(userID, models.ActivityStatusChange,
			fmt.Sprintf("changed stage from %q to %q for opportunity: %q", oldStage, *dto.Stage, rec.Title),
			models.Subject(models.KindOpportunity, rec.ID))
	} else {
		s.audit.Record(userID, models.ActivityUpdate,
			fmt.Sprintf("updated details for opportunity: %q", rec.Title),
			models.Subject(models.KindOpportunity, rec.ID))
	}

	if len(updates) > 0 {
		if err := s.db.Model(rec).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	// Re-read with the customer populated for the response.
	var out models.OpportunityModel
	if err := s.db.Preload("Customer").First(&out, "id = ?", rec.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes the opportunity and reports a DELETE activity. The activity
// feed keyed to the deleted id remains in place, permanently orphaned.
func (s *Service) Delete(userID, id string) error {
	rec, err := s.getOwned(userID, id)
	if err != nil {
		return err
	}
	if err := s.db.Delete(rec).Error; err != nil {
		return err
	}

	s.audit.Record(userID, models.ActivityDelete,
		fmt.Sprintf("deleted opportunity: %q", rec.Title),
		models.Subject(models.KindOpportunity, id))
	return nil
}

func (s *Service) getOwned(userID, id string) (*models.OpportunityModel, error) {
	var rec models.OpportunityModel
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, err
	}
	if rec.UserID != userID {
		return nil, errNotOwner
	}
	return &rec, nil
}
