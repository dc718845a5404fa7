package auth

import (
	"errors"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/pkowalczyk/booktracker/internal/config"
	"github.com/pkowalczyk/booktracker/internal/entities"
)

// Validation patterns
var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("user already exists")
	ErrUsernameRequired = errors.New("username is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUsernameInvalid  = errors.New("username must be 3-64 characters, alphanumeric and underscore/hyphen only")
	ErrEmailInvalid     = errors.New("invalid email format")
)

// UserStore defines the user persistence operations the service needs.
// Implemented by database/users.Repository.
type UserStore interface {
	Create(user *entities.User) error
	GetByID(id uint) (*entities.User, error)
	GetByUsername(username string) (*entities.User, error)
	UpdatePassword(id uint, passwordHash string) error
	Delete(id uint) error
}

// Service handles registration, authentication and account management.
type Service struct {
	store  UserStore
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(store UserStore, cfg config.Auth) *Service {
	return &Service{
		store:  store,
		config: cfg,
	}
}

// Register creates a new user account. The caller is logged in right
// after, so the new user lands in the catalog authenticated.
func (s *Service) Register(username, email, password string) (*entities.User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if !usernamePattern.MatchString(username) {
		return nil, ErrUsernameInvalid
	}
	// Email is optional; validate only when provided (RFC 5321 limit is 254)
	if email != "" && (len(email) > 254 || !emailPattern.MatchString(email)) {
		return nil, ErrEmailInvalid
	}

	_, err := s.store.GetByUsername(username)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	if err := s.store.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials and returns the user.
func (s *Service) Authenticate(username, password string) (*entities.User, error) {
	user, err := s.store.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	user, err := s.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword updates a user's password after verifying the old one.
func (s *Service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := CheckPassword(oldPassword, user.PasswordHash); err != nil {
		return err
	}

	newHash, err := HashPassword(newPassword, s.config.BcryptCost)
	if err != nil {
		return err
	}

	return s.store.UpdatePassword(userID, newHash)
}

// DeleteAccount removes the user. Their books stay in the catalog with
// the owner reference cleared; their favorites go away with them.
func (s *Service) DeleteAccount(userID uint) error {
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}
	return s.store.Delete(userID)
}
