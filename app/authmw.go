package app

import (
	"github.com/gin-gonic/gin"

	"equipmaster/identity"
	"equipmaster/session"
)

const AppSessionCookie = "app_session"

const ctxUsername = "username"

// CurrentUser resolves the acting username for the request: the session
// cookie when one exists, otherwise the OS account the service runs as.
// It never rejects; the audit trail always has an identity to record.
func CurrentUser(appSess *session.AppSessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := ""
		if ck, err := c.Request.Cookie(AppSessionCookie); err == nil && ck.Value != "" {
			if as, err := appSess.Get(c.Request.Context(), ck.Value); err == nil {
				supplied = as.Username
			}
		}
		c.Set(ctxUsername, identity.Resolve(supplied))
		c.Next()
	}
}

// Username reads the identity set by CurrentUser.
func Username(c *gin.Context) string {
	v, _ := c.Get(ctxUsername)
	s, _ := v.(string)
	if s == "" {
		return identity.Fallback()
	}
	return s
}
