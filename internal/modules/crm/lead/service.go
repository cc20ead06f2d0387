package lead

import (
	"errors"

	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/pkg/pagination"
	"github.com/pulsecrm/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	errNotFound      = errors.New("lead not found")
	errNotOwner      = errors.New("lead belongs to another user")
	errInvalidStatus = errors.New("invalid lead status")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns the user's leads, newest first. Leads are owned through
// owner_id, not user_id.
func (s *Service) List(userID, search string, q pagination.Query) ([]models.LeadModel, response.Pagination, error) {
	tx := s.db.Model(&models.LeadModel{}).Where("owner_id = ?", userID)
	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("name LIKE ? OR email LIKE ? OR status LIKE ?", like, like, like)
	}
	tx = tx.Order("created_at DESC")

	var rows []models.LeadModel
	pag, err := pagination.Paginate(tx, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, pag, nil
}

func (s *Service) Create(userID string, dto *CreateLeadDTO) (*models.LeadModel, error) {
	status := models.LeadStatus(dto.Status)
	if dto.Status == "" {
		status = models.LeadNew
	}
	if !status.Valid() {
		return nil, errInvalidStatus
	}

	rec := models.LeadModel{
		OwnerID: userID,
		Name:    dto.Name,
		Email:   dto.Email,
		Phone:   dto.Phone,
		Status:  status,
		Source:  dto.Source,
		Notes:   dto.Notes,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Service) Update(userID, id string, dto *UpdateLeadDTO) (*models.LeadModel, error) {
	rec, err := s.getOwned(userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	if dto.Phone != nil {
		updates["phone"] = *dto.Phone
	}
	if dto.Status != nil {
		status := models.LeadStatus(*dto.Status)
		if !status.Valid() {
			return nil, errInvalidStatus
		}
		updates["status"] = status
	}
	if dto.Source != nil {
		updates["source"] = *dto.Source
	}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
	}
	if len(updates) > 0 {
		if err := s.db.Model(rec).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return rec, nil
}

func (s *Service) Delete(userID, id string) error {
	rec, err := s.getOwned(userID, id)
	if err != nil {
		return err
	}
	return s.db.Delete(rec).Error
}

func (s *Service) getOwned(userID, id string) (*models.LeadModel, error) {
	var rec models.LeadModel
	if err := s.db.First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound
		}
		return nil, err
	}
	if rec.OwnerID != userID {
		return nil, errNotOwner
	}
	return &rec, nil
}
