package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type userGateway interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// SaveUserRequest holds payload for creating or updating an account.
// Password is optional on update; when present it is stored as a bcrypt
// hash.
type SaveUserRequest struct {
	Username string      `json:"username" validate:"required"`
	Password string      `json:"password"`
	FullName string      `json:"fullName" validate:"required"`
	Role     models.Role `json:"role" validate:"required"`
}

// UserService handles account management.
type UserService struct {
	gateway   userGateway
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs the user service.
func NewUserService(gateway userGateway, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{gateway: gateway, validator: validate, logger: logger}
}

// List returns all accounts without their stored credentials.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	sanitized := make([]models.User, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitized())
	}
	return sanitized, nil
}

// Save validates and persists an account. New accounts require a password;
// updates without one keep the stored credential.
func (s *UserService) Save(ctx context.Context, id string, req SaveUserRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid user payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}
	if id == "" && req.Password == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "password is required for a new account")
	}

	password := ""
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
		}
		password = string(hash)
	} else {
		stored, err := s.findStored(ctx, id)
		if err != nil {
			return nil, err
		}
		password = stored
	}

	saved, err := s.gateway.SaveUser(ctx, models.User{
		ID:       id,
		Username: req.Username,
		Password: password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save user")
	}
	sanitized := saved.Sanitized()
	return &sanitized, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.gateway.DeleteUser(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete user")
	}
	return nil
}

func (s *UserService) findStored(ctx context.Context, id string) (string, error) {
	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	for _, user := range users {
		if user.ID == id {
			return user.Password, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrNotFound, "user not found")
}
