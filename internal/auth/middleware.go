package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authenticate resolves the bearer token through the identity service and
// attaches the principal to the request context.
func Authenticate(adapter *IdentityAdapter) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access token required"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		principal, code, err := adapter.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if principal == nil {
			c.AbortWithStatusJSON(code, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireVerified rejects principals without a verified email.
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil || !principal.EmailVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "email verification required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects non-admin principals.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil || !principal.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the principal attached by Authenticate, or nil.
func GetPrincipal(c *gin.Context) *Principal {
	value, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, ok := value.(*Principal)
	if !ok {
		return nil
	}
	return principal
}
