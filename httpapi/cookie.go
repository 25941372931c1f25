package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// sessionCookieName is the carrier for the session token.
const sessionCookieName = "jwt"

func setSessionCookie(c *gin.Context, token string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c *gin.Context) {
	setSessionCookie(c, "", -1)
}

// sessionToken reads the carried credential; an absent cookie yields an
// empty string, which the engine maps to a missing-token failure.
func sessionToken(c *gin.Context) string {
	cookie, err := c.Request.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
