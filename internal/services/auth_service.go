package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yukikurage/task-api/internal/constants"
	"github.com/yukikurage/task-api/internal/models"
	"github.com/yukikurage/task-api/internal/repository"
	"github.com/yukikurage/task-api/internal/token"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials   = errors.New("incorrect email or password")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToIssueToken   = errors.New("failed to issue token")
	ErrStoreFailure         = errors.New("unexpected store failure")
)

// ValidationError reports a field-specific input rejection.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError reports a unique-key collision in a client-safe form.
type ConflictError struct {
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("The %s %s already exists.", e.Field, e.Value)
}

// AuthService handles authentication and account business logic.
type AuthService struct {
	userRepo repository.UserRepository
	codec    *token.Codec
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, codec *token.Codec) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		codec:    codec,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Image    *string
}

func (in RegisterInput) validate() error {
	if len(in.Name) < constants.MinNameLength {
		return &ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("The name must contain at least %d characters.", constants.MinNameLength),
		}
	}
	if len(in.Email) < constants.MinEmailLength {
		return &ValidationError{
			Field:   "email",
			Message: fmt.Sprintf("The email must contain at least %d characters.", constants.MinEmailLength),
		}
	}
	if len(in.Password) < constants.MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("The password must contain at least %d characters.", constants.MinPasswordLength),
		}
	}
	return nil
}

// Register validates the input, hashes the password and creates the user.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashedPassword),
		Image:    input.Image,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, s.translateStoreError(err, input.Email)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a bearer token for the user. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	tokenString, err := s.codec.Issue(user.ID)
	if err != nil {
		return nil, "", ErrFailedToIssueToken
	}

	return user, tokenString, nil
}

// UpdateUserInput represents a full profile replacement for a user.
type UpdateUserInput struct {
	UserID   uuid.UUID
	Name     string
	Email    string
	Password string
	Image    *string
}

// UpdateUser replaces the user's profile fields, re-hashing the password.
func (s *AuthService) UpdateUser(input UpdateUserInput) (*models.User, error) {
	if err := (RegisterInput{Name: input.Name, Email: input.Email, Password: input.Password}).validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user.Name = input.Name
	user.Email = input.Email
	user.Password = string(hashedPassword)
	user.Image = input.Image

	if err := s.userRepo.Update(user); err != nil {
		return nil, s.translateStoreError(err, input.Email)
	}

	return user, nil
}

// DeleteUser removes the account and all owned tasks, returning the deleted
// user.
func (s *AuthService) DeleteUser(id uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.Delete(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreFailure, err)
	}
	return user, nil
}

// translateStoreError turns a unique violation into a ConflictError; every
// other store error stays opaque to the client.
func (s *AuthService) translateStoreError(err error, submittedEmail string) error {
	if violation, ok := repository.AsConstraintViolation(err); ok {
		conflict := &ConflictError{Field: violation.Field, Value: violation.Value}
		if conflict.Field == "" {
			conflict.Field = "email"
		}
		if conflict.Value == "" && conflict.Field == "email" {
			conflict.Value = submittedEmail
		}
		return conflict
	}
	return fmt.Errorf("%w: %v", ErrStoreFailure, err)
}
