package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/wcewong/paygen/internal/shared/apperror"
	"github.com/wcewong/paygen/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextSubject = "subject"
	ContextRole    = "role"
)

// AuthMiddleware accepts an HS256 bearer token carrying "sub" and "role" claims.
func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found || tokenString == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "Token not found")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token expired"
			}
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", msg)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims")
			return
		}

		subject, _ := claims.GetSubject()
		role, _ := claims["role"].(string)
		if subject == "" || role == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token is missing sub or role")
			return
		}

		c.Set(ContextSubject, subject)
		c.Set(ContextRole, role)
		c.Next()
	}
}
