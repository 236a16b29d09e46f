package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wcewong/paygen/internal/auth"
	autherrors "github.com/wcewong/paygen/internal/auth/errors"
	authMock "github.com/wcewong/paygen/internal/auth/mock"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func setupAuthRouter(svc auth.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth.RegisterRoutes(r.Group("/api/v1"), auth.NewHandler(svc))
	return r
}

func postToken(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_IssueToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockService := authMock.NewMockService(ctrl)
	router := setupAuthRouter(mockService)

	t.Run("success", func(t *testing.T) {
		mockService.EXPECT().
			IssueToken(gomock.Any(), "ops", "s3cret-pass").
			Return(auth.TokenResponse{AccessToken: "tok", TokenType: "Bearer", ExpiresIn: 900, Role: "admin"}, nil)

		w := postToken(router, `{"username":"ops","password":"s3cret-pass"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var res struct {
			Ok   bool               `json:"ok"`
			Data auth.TokenResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.True(t, res.Ok)
		assert.Equal(t, "tok", res.Data.AccessToken)
	})

	t.Run("invalid credentials", func(t *testing.T) {
		mockService.EXPECT().
			IssueToken(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(auth.TokenResponse{}, autherrors.ErrInvalidCredentials)

		w := postToken(router, `{"username":"ops","password":"nope"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":"UNAUTHORIZED"`)
	})

	t.Run("missing password", func(t *testing.T) {
		w := postToken(router, `{"username":"ops"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}
