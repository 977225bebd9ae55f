package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/samvyt/rifa/internal/infrastructure/auth"
	"github.com/samvyt/rifa/internal/shared/constants"
	"github.com/samvyt/rifa/internal/shared/logger"
	"github.com/samvyt/rifa/internal/shared/utils"
)

type AdminAuthMiddleware struct {
	jwtService *auth.JWTService
	logger     logger.Interface
}

func NewAdminAuthMiddleware(jwtService *auth.JWTService, logger logger.Interface) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{
		jwtService: jwtService,
		logger:     logger,
	}
}

// RequireAdmin accepts only a Bearer token issued by the admin token command.
// Without a configured secret every admin route is closed.
func (m *AdminAuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil || m.jwtService == nil {
			utils.ErrorResponse(c, http.StatusForbidden, "admin api is disabled")
			c.Abort()
			return
		}

		header := c.GetHeader(constants.HeaderAuthorization)
		if header == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := m.jwtService.Verify(token)
		if err != nil {
			m.logger.Warnw("rejected admin token", "error", err, "client_ip", c.ClientIP())
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyAdmin, claims.Subject)
		c.Next()
	}
}
