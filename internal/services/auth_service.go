package services

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/mtakagi/task-tracker-api/internal/constants"
	"github.com/mtakagi/task-tracker-api/internal/models"
	"github.com/mtakagi/task-tracker-api/internal/repository"
	"github.com/mtakagi/task-tracker-api/internal/validation"
)

var (
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
)

// AuthService handles registration and authentication business logic.
type AuthService struct {
	userRepo       repository.UserRepository
	passwordPolicy PasswordPolicy
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, passwordPolicy PasswordPolicy) *AuthService {
	return &AuthService{
		userRepo:       userRepo,
		passwordPolicy: passwordPolicy,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	Password2 string
	FirstName string
	LastName  string
}

// Register validates the input as a whole, accumulating every field error
// before touching storage, then persists the user with a hashed credential.
// Registered users are never staff; the flag is granted out of band.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	fieldErrs := validation.FieldErrors{}

	username := strings.TrimSpace(input.Username)
	switch {
	case username == "":
		fieldErrs.Add("username", "This field is required.")
	case len(username) < constants.MinUsernameLength || len(username) > constants.MaxUsernameLength:
		fieldErrs.Add("username", fmt.Sprintf("Username must be between %d and %d characters.", constants.MinUsernameLength, constants.MaxUsernameLength))
	default:
		taken, err := s.userRepo.UsernameExists(username)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			fieldErrs.Add("username", "A user with that username already exists.")
		}
	}

	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		fieldErrs.Add("email", "This field is required.")
	case !validation.IsEmail(email):
		fieldErrs.Add("email", "Enter a valid email address.")
	default:
		taken, err := s.userRepo.EmailExists(email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			fieldErrs.Add("email", "A user with that email already exists.")
		}
	}

	if input.Password == "" {
		fieldErrs.Add("password", "This field is required.")
	} else {
		for _, msg := range s.passwordPolicy.Validate(input.Password) {
			fieldErrs.Add("password", msg)
		}
	}
	if input.Password != input.Password2 {
		fieldErrs.Add("password", "Password fields didn't match.")
	}

	if fieldErrs.HasErrors() {
		return nil, fieldErrs
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials and returns the authenticated user.
func (s *AuthService) Login(input LoginInput) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}
