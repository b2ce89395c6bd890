package controllers

import (
	"net/http"

	"equipmaster/app"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Login starts an operator session. There is no credential check: the
// desktop original trusts the workstation account, this service trusts the
// supplied operator name and only keeps it in Redis so every request can be
// attributed in the audit trail.
func (s *Srv) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	id := uuid.NewString()
	if err := s.AppSess.Create(c.Request.Context(), id, in.Username); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	s.setAppCookie(c, id, s.SessionTTL)
	c.JSON(http.StatusOK, app.H{"ok": true, "username": in.Username})
}

func (s *Srv) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = s.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.JSON(http.StatusOK, app.H{"ok": true})
}

func (s *Srv) Whoami(c *gin.Context) {
	c.JSON(http.StatusOK, app.H{"username": app.Username(c)})
}
