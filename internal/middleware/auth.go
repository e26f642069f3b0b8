package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/officemeals/snack-provider-api/internal/auth"
)

const ContextIdentity = "identity"

// ExtractToken pulls the credential from the request: the "token" cookie
// (the web UI sets it there), the "token" header, or a Bearer header.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}

	if header := c.GetHeader("token"); header != "" {
		return header
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}

	return ""
}

// Authenticate gates the request on the guard with the given capability and
// stores the verified identity in the gin context.
func Authenticate(guard *auth.Guard, cap auth.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, denial := guard.Authorize(ExtractToken(c), cap)
		if denial != nil {
			c.AbortWithStatusJSON(denialStatus(denial), gin.H{"error": string(denial.Reason)})
			return
		}

		c.Set(ContextIdentity, identity)
		c.Next()
	}
}

// OptionalIdentity stores the caller's identity when a valid credential is
// presented but never rejects the request. Used by public listings that
// enrich the response for logged-in users.
func OptionalIdentity(guard *auth.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, denial := guard.Authorize(ExtractToken(c), auth.CapabilityAuthenticated); denial == nil {
			c.Set(ContextIdentity, identity)
		}
		c.Next()
	}
}

// IdentityFrom returns the verified identity placed by Authenticate.
func IdentityFrom(c *gin.Context) (*auth.Identity, bool) {
	val, exists := c.Get(ContextIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := val.(*auth.Identity)
	return identity, ok
}

func denialStatus(d *auth.Denial) int {
	switch d.Reason {
	case auth.DeniedInsufficientRole:
		return http.StatusForbidden
	case auth.DeniedSelfDeletionForbidden:
		return http.StatusBadRequest
	default:
		return http.StatusUnauthorized
	}
}
