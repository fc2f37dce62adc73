package services

import (
	"errors"
	"strings"

	"github.com/franciscosanchezn/gin-oauth-bridge/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Signup/login failure taxonomy surfaced to the controllers. Authenticate
// deliberately reports the same error for unknown emails and wrong passwords.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type UserService interface {
	CreateUser(email, password string) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

type userService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) UserService {
	return &userService{db: db}
}

// CreateUser registers a new account. Emails are stored lowercased so login
// is case-insensitive. Uniqueness is enforced by the index alone: the insert
// is the check, so two concurrent signups for the same email cannot both
// slip past a pre-read — the loser gets the duplicate-key error back as
// ErrEmailTaken.
func (s *userService) CreateUser(email, password string) (*models.User, error) {
	user := &models.User{
		ID:    uuid.New().String(),
		Email: strings.ToLower(email),
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// Authenticate looks the user up by email and verifies the password.
func (s *userService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
