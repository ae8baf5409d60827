package token

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"findmyplugin_backend/internal/api"
)

// contextClaims is the gin.Context key under which AuthRequired stores
// the verified claims.
const contextClaims = "authClaims"

// AuthRequired returns a Gin middleware that requires a valid session cookie.
// On success the decoded claims are attached to the context for downstream
// handlers and gates.
func AuthRequired(codec *Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		credential, err := c.Cookie(CookieName)
		if err != nil || credential == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error("Not authenticated"))
			return
		}

		claims, err := codec.Verify(credential)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.Error("Invalid token"))
			return
		}

		c.Set(contextClaims, claims)
		c.Next()
	}
}

// RequireAdmin returns a Gin middleware that rejects non-admin identities.
// It must be composed after AuthRequired; a request without attached claims
// is treated as forbidden.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok || claims.Role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, api.Error("Admins only"))
			return
		}
		c.Next()
	}
}

// ClaimsFrom extracts the claims attached by AuthRequired.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(contextClaims)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}
