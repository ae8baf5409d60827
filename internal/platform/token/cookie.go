package token

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CookieName is the name of the session cookie.
const CookieName = "token"

// SetSessionCookie delivers a credential as an HTTP-only cookie.
// In production the cookie is Secure with SameSite=None so the hosted
// frontend on another origin can send it; in development it is Lax.
func SetSessionCookie(c *gin.Context, credential string, production bool) {
	if production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(CookieName, credential, int(TokenTTL.Seconds()), "/", "", production, true)
}

// ClearSessionCookie expires the session cookie immediately.
func ClearSessionCookie(c *gin.Context, production bool) {
	if production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(CookieName, "", -1, "/", "", production, true)
}
