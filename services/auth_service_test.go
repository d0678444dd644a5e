package services

import (
	"testing"
	"time"

	"cart-shop/models"
	"cart-shop/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	tokens := utils.NewTokenManager("secret", time.Hour)
	auth := NewAuthService(f.store, tokens, f.logger)

	sex := "M"
	resp, err := auth.Register(f.ctx, models.RegisterRequest{Username: "ana", Email: " Ana@Example.com ", Password: "password123", Sex: &sex})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	require.NotNil(t, resp.User.Profile)

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, models.RoleCustomer, claims.Role)

	_, err = auth.Register(f.ctx, models.RegisterRequest{Username: "ana2", Email: "ana@example.com", Password: "password123"})
	assert.ErrorIs(t, err, models.ErrConflict)

	login, err := auth.Login(f.ctx, models.LoginRequest{Email: "ANA@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = auth.Login(f.ctx, models.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)
	_, err = auth.Login(f.ctx, models.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	me, err := auth.Me(f.ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", me.Username)
}
