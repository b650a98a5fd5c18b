package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/volley-vote-api/pkg/errors"
	"github.com/noah-isme/volley-vote-api/pkg/response"
)

// AdminPasswordHeader carries the shared admin secret on each request.
const AdminPasswordHeader = "X-Admin-Password"

// ContextAdminKey is set to true on requests that passed the admin guard.
const ContextAdminKey = "isAdmin"

// AdminAuthenticator checks the shared secret or a session token.
type AdminAuthenticator interface {
	CheckPassword(password string) bool
	ValidateToken(token string) error
}

// Admin protects routes with either the X-Admin-Password header or a bearer
// token issued by the admin login endpoint.
func Admin(auth AdminAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if password := c.GetHeader(AdminPasswordHeader); password != "" {
			if !auth.CheckPassword(password) {
				response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid admin password"))
				c.Abort()
				return
			}
			c.Set(ContextAdminKey, true)
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		if err := auth.ValidateToken(strings.TrimSpace(parts[1])); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAdminKey, true)
		c.Next()
	}
}
