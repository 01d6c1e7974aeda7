package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/inselpa/incident-api/internal/models"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
)

type authUserGateway interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

// AuthConfig defines configuration for the login flow.
type AuthConfig struct {
	// Master credentials always authenticate, even with the store down.
	MasterUsername string
	MasterPassword string
	MasterFullName string

	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// SessionClaims are the JWT claims attached to an authenticated session.
type SessionClaims struct {
	UserID   string      `json:"uid"`
	Username string      `json:"username"`
	FullName string      `json:"fullName"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the signed-in account.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresIn int64       `json:"expiresIn"`
	User      models.User `json:"user"`
}

// AuthService validates credentials and issues session tokens.
type AuthService struct {
	gateway   authUserGateway
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(gateway authUserGateway, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{gateway: gateway, validator: validate, logger: logger, config: config}
}

// Authenticate checks the credential pair. The master pair short-circuits
// before any store access so an operator can always get in, and it is
// honored again if the user lookup itself fails.
func (s *AuthService) Authenticate(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if s.isMasterPair(req.Username, req.Password) {
		return s.issue(s.masterUser())
	}

	users, err := s.gateway.ListUsers(ctx)
	if err != nil {
		s.logger.Warn("user lookup failed during login", zap.Error(err))
		if s.isMasterPair(req.Username, req.Password) {
			return s.issue(s.masterUser())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "could not verify credentials")
	}

	for _, user := range users {
		if user.Username == req.Username && passwordMatches(user.Password, req.Password) {
			return s.issue(user)
		}
	}

	return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
}

// ValidateToken parses and validates a session token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) isMasterPair(username, password string) bool {
	return s.config.MasterUsername != "" &&
		username == s.config.MasterUsername &&
		password == s.config.MasterPassword
}

func (s *AuthService) masterUser() models.User {
	return models.User{
		ID:       "admin-001",
		Username: s.config.MasterUsername,
		FullName: s.config.MasterFullName,
		Role:     models.RoleAdmin,
	}
}

func (s *AuthService) issue(user models.User) (*LoginResponse, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &SessionClaims{
		UserID:   user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session token")
	}

	return &LoginResponse{
		Token:     signed,
		ExpiresIn: int64(s.config.TokenExpiry.Seconds()),
		User:      user.Sanitized(),
	}, nil
}

// passwordMatches compares a stored credential against the submitted one.
// Accounts saved through this service store bcrypt hashes; legacy records
// hold the raw value and are compared directly.
func passwordMatches(stored, submitted string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil
	}
	return stored != "" && stored == submitted
}
