package user

import (
	"errors"
	"time"

	"github.com/pulsecrm/core/internal/models"
	"github.com/pulsecrm/core/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

var (
	errEmailTaken         = errors.New("user already exists")
	errInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Register creates an account and returns a signed token for it.
func (s *Service) Register(dto *RegisterDTO) (string, *models.UserModel, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).Where("email = ?", dto.Email).Count(&count).Error; err != nil {
		return "", nil, err
	}
	if count > 0 {
		return "", nil, errEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}
	u := models.UserModel{Name: dto.Name, Email: dto.Email, Password: string(hash)}
	if err := s.db.Create(&u).Error; err != nil {
		return "", nil, err
	}

	token, err := jwt.Sign(u.ID, tokenTTL)
	return token, &u, err
}

// Login verifies credentials and returns a signed token.
func (s *Service) Login(email, password string) (string, *models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	token, err := jwt.Sign(u.ID, tokenTTL)
	return token, &u, err
}
