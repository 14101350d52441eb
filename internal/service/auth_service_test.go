package service_test

import (
	"context"
	"testing"

	"github.com/sebassmtz/backend-stockpro/internal/dto"
	"github.com/sebassmtz/backend-stockpro/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, fixtureOpts{})

	resp, err := f.auth.Login(context.Background(), dto.LoginRequest{Email: adminEmail, Password: adminPassword})
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, f.user.ID.String(), resp.User.ID)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, f.user.ID.String(), claims["user_id"])
	assert.Equal(t, "admin", claims["username"])
}

func TestLogin_EmailIsCaseInsensitive(t *testing.T) {
	f := newFixture(t, fixtureOpts{})

	_, err := f.auth.Login(context.Background(), dto.LoginRequest{Email: "Admin@StockPro.local", Password: adminPassword})
	assert.NoError(t, err)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t, fixtureOpts{})

	for _, req := range []dto.LoginRequest{
		{Email: adminEmail, Password: "wrong-password"},
		{Email: "ghost@stockpro.local", Password: adminPassword},
	} {
		_, err := f.auth.Login(context.Background(), req)
		assert.ErrorIs(t, err, service.ErrInvalidCredentials, req.Email)
	}
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	f.s.users[f.user.ID].IsActive = false

	_, err := f.auth.Login(context.Background(), dto.LoginRequest{Email: adminEmail, Password: adminPassword})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestVerifyCredentials_DistinguishesFailures(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	ctx := context.Background()

	u, err := f.auth.VerifyCredentials(ctx, adminEmail, adminPassword)
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, u.ID)

	_, err = f.auth.VerifyCredentials(ctx, "ghost@stockpro.local", adminPassword)
	assert.ErrorIs(t, err, service.ErrEmailNotFound)

	_, err = f.auth.VerifyCredentials(ctx, adminEmail, "nope")
	assert.ErrorIs(t, err, service.ErrInvalidPassword)
}
