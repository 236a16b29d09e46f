package middleware

import (
	"net/http"

	"github.com/wcewong/paygen/internal/shared/apperror"
	"github.com/wcewong/paygen/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Enforcer is satisfied by *casbin.Enforcer.
type Enforcer interface {
	Enforce(rvals ...any) (bool, error)
}

// RBACAuthorize checks the role set by AuthMiddleware against resource/action.
func RBACAuthorize(enforcer Enforcer, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" {
			response.Abort(c, http.StatusUnauthorized, apperror.CodeUnauthorized, "missing auth context")
			return
		}

		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			zap.L().Error("rbac enforce failed", zap.String("role", role), zap.Error(err))
			response.Abort(c, http.StatusInternalServerError, apperror.CodeInternalError, "An unexpected error occurred")
			return
		}
		if !allowed {
			response.Abort(c, http.StatusForbidden, apperror.CodeForbidden, "You do not have permission to "+action+" "+resource)
			return
		}

		c.Next()
	}
}
