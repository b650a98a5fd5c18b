package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/volley-vote-api/internal/dto"
	appErrors "github.com/noah-isme/volley-vote-api/pkg/errors"
)

func TestAdminLoginAndValidate(t *testing.T) {
	svc, err := NewAdminAuthService(AdminAuthConfig{Password: "s3cret", TokenTTL: time.Hour}, nil, nil)
	require.NoError(t, err)

	assert.True(t, svc.CheckPassword("s3cret"))
	assert.False(t, svc.CheckPassword("nope"))
	assert.False(t, svc.CheckPassword(""))

	token, err := svc.Login(context.Background(), dto.AdminLoginRequest{Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.Token)
	assert.NoError(t, svc.ValidateToken(token.Token))

	assert.ErrorIs(t, svc.ValidateToken(token.Token+"x"), appErrors.ErrUnauthorized)
}

func TestAdminLoginRejectsWrongPassword(t *testing.T) {
	svc, err := NewAdminAuthService(AdminAuthConfig{Password: "s3cret"}, nil, nil)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.AdminLoginRequest{Password: "guess"})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	_, err = svc.Login(context.Background(), dto.AdminLoginRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestAdminTokenExpires(t *testing.T) {
	svc, err := NewAdminAuthService(AdminAuthConfig{Password: "s3cret", TokenTTL: time.Minute}, nil, nil)
	require.NoError(t, err)

	issued := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, err := svc.Login(context.Background(), dto.AdminLoginRequest{Password: "s3cret"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	assert.ErrorIs(t, svc.ValidateToken(token.Token), appErrors.ErrUnauthorized)
}

func TestAdminTokenFromOtherSecretRejected(t *testing.T) {
	a, err := NewAdminAuthService(AdminAuthConfig{Password: "one"}, nil, nil)
	require.NoError(t, err)
	b, err := NewAdminAuthService(AdminAuthConfig{Password: "two"}, nil, nil)
	require.NoError(t, err)

	token, err := a.Login(context.Background(), dto.AdminLoginRequest{Password: "one"})
	require.NoError(t, err)
	assert.Error(t, b.ValidateToken(token.Token))
}

func TestAdminRequiresPassword(t *testing.T) {
	_, err := NewAdminAuthService(AdminAuthConfig{}, nil, nil)
	assert.Error(t, err)
}
