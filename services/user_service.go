package services

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yoshifumik/snapdetect/models"
)

// UserService handles signup and credential checks.
type UserService struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewUserService(db *gorm.DB, log *logrus.Logger) *UserService {
	return &UserService{db: db, log: log}
}

// Signup validates the registration form and creates the user with a
// bcrypt-hashed password. Any rule violation returns a ValidationError and
// creates no row.
func (s *UserService) Signup(username, password, confirm string) (*models.User, error) {
	username = strings.TrimSpace(username)

	if username == "" || password == "" {
		return nil, &ValidationError{Message: "Username and password are required."}
	}
	if len(username) < 3 {
		return nil, &ValidationError{Message: "Username must be at least 3 characters."}
	}
	if len(password) < 4 {
		return nil, &ValidationError{Message: "Password must be at least 4 characters."}
	}
	if password != confirm {
		return nil, &ValidationError{Message: "Passwords do not match."}
	}

	var existing models.User
	err := s.db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil, &ValidationError{Message: "Username already exists. Please choose another."}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{Username: username, PasswordHash: string(hash)}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	s.log.WithField("username", username).Info("user created")
	return &user, nil
}

// Authenticate looks the user up by username and verifies the password
// against the stored hash.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	user, err := s.getByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ValidateCredentials adapts Authenticate to the auth provider's
// credential-checker shape.
func (s *UserService) ValidateCredentials(username, password string) (bool, error) {
	_, err := s.Authenticate(username, password)
	if errors.Is(err, ErrInvalidCredentials) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetByID fetches a user by primary key.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *UserService) getByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
