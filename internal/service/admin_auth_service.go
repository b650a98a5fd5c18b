package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/volley-vote-api/internal/dto"
	"github.com/noah-isme/volley-vote-api/internal/models"
	appErrors "github.com/noah-isme/volley-vote-api/pkg/errors"
	"github.com/noah-isme/volley-vote-api/pkg/validation"
)

const (
	adminSubject = "admin"
	adminIssuer  = "volley-vote-api"
)

// AdminAuthConfig defines the shared secret and token settings.
type AdminAuthConfig struct {
	Password    string
	TokenSecret string
	TokenTTL    time.Duration
}

// AdminAuthService guards the administrative surface with one shared secret.
type AdminAuthService struct {
	hash      []byte
	secret    []byte
	ttl       time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAdminAuthService hashes the configured password once at startup.
func NewAdminAuthService(cfg AdminAuthConfig, validate *validator.Validate, logger *zap.Logger) (*AdminAuthService, error) {
	if cfg.Password == "" {
		return nil, fmt.Errorf("admin password must not be empty")
	}
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TokenSecret == "" {
		cfg.TokenSecret = cfg.Password
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 12 * time.Hour
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &AdminAuthService{
		hash:      hash,
		secret:    []byte(cfg.TokenSecret),
		ttl:       cfg.TokenTTL,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// CheckPassword reports whether the given secret matches.
func (s *AdminAuthService) CheckPassword(password string) bool {
	if password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.hash, []byte(password)) == nil
}

// Login exchanges the shared secret for a signed session token.
func (s *AdminAuthService) Login(ctx context.Context, req dto.AdminLoginRequest) (*models.AdminToken, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Invalid(err, "password is required", validation.Fields(err))
	}
	if !s.CheckPassword(req.Password) {
		s.logger.Warn("admin login rejected")
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid admin password")
	}

	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    adminIssuer,
		Subject:   adminSubject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		NotBefore: jwt.NewNumericDate(issuedAt),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign admin token")
	}
	return &models.AdminToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken verifies a session token issued by Login.
func (s *AdminAuthService) ValidateToken(tokenString string) error {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(adminIssuer), jwt.WithSubject(adminSubject), jwt.WithTimeFunc(s.now))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	if !token.Valid {
		return appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return nil
}
