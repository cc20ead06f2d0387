package customer

import (
	"errors"

	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/pkg/pagination"
	"github.com/pulsecrm/core/internal/pkg/response"
	"gorm.io/gorm"
)

var (
	errNotFound = errors.New("customer not found")
	errNotOwner = errors.New("customer belongs to another user")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns the user's customers, newest first, optionally filtered by a
// case-insensitive search over name, email, and company.
func (s *Service) List(userID, search string, q pagination.Query) ([]models.CustomerModel, response.Pagination, error) {
	tx := s.db.Model(&models.CustomerModel{}).Where("user_id = ?", userID)
	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("name LIKE ? OR email LIKE ? OR company LIKE ?", like, like, like)
	}
	tx = tx.Order("created_at DESC")

	var rows []models.CustomerModel
	pag, err := pagination.Paginate(tx, q, &rows)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return rows, pag, nil
}

func (s *Service) Create(userID string, dto *CreateCustomerDTO) (*models.CustomerModel, error) {
	rec := models.CustomerModel{
		UserID:  userID,
		Name:    dto.Name,
		Email:   dto.Email,
		Phone:   dto.Phone,
		Address: dto.Address,
		Company: dto.Company,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Service) Update(userID, id string, dto *UpdateCustomerDTO) (*models.CustomerModel, error) {
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
	if dto.Address != nil {
		updates["address"] = *dto.Address
	}
	if dto.Company != nil {
		updates["company"] = *dto.Company
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
	// No cascade: attachments and activity entries for this customer stay
	// behind, matching the legacy behavior.
	return s.db.Delete(rec).Error
}

func (s *Service) getOwned(userID, id string) (*models.CustomerModel, error) {
	var rec models.CustomerModel
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
