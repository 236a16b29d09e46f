package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/wcewong/paygen/internal/auth"
	autherrors "github.com/wcewong/paygen/internal/auth/errors"
	"github.com/wcewong/paygen/internal/rbac"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("0123456789abcdef")

func testCredentials(t *testing.T) auth.Credentials {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	assert.NoError(t, err)
	return auth.Credentials{Username: "ops", PasswordHash: string(hash)}
}

func TestAuthService_IssueToken(t *testing.T) {
	svc := auth.NewService(testCredentials(t), testSecret, 10*time.Minute, zap.NewNop())

	t.Run("success", func(t *testing.T) {
		resp, err := svc.IssueToken(context.Background(), "ops", "s3cret-pass")

		assert.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Equal(t, int64(600), resp.ExpiresIn)
		assert.Equal(t, rbac.RoleAdmin, resp.Role)

		token, err := jwt.Parse(resp.AccessToken, func(*jwt.Token) (any, error) { return testSecret, nil })
		assert.NoError(t, err)
		assert.True(t, token.Valid)

		claims := token.Claims.(jwt.MapClaims)
		sub, _ := claims.GetSubject()
		assert.Equal(t, "ops", sub)
		assert.Equal(t, rbac.RoleAdmin, claims["role"])

		exp, err := claims.GetExpirationTime()
		assert.NoError(t, err)
		assert.WithinDuration(t, time.Now().Add(10*time.Minute), exp.Time, 5*time.Second)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.IssueToken(context.Background(), "ops", "guess")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := svc.IssueToken(context.Background(), "root", "s3cret-pass")
		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_DefaultTTL(t *testing.T) {
	svc := auth.NewService(testCredentials(t), testSecret, 0, zap.NewNop())

	resp, err := svc.IssueToken(context.Background(), "ops", "s3cret-pass")
	assert.NoError(t, err)
	assert.Equal(t, int64(auth.DefaultTokenTTL/time.Second), resp.ExpiresIn)
}
