package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"equipmaster/app"
	"equipmaster/db"
	"equipmaster/lifecycle"
	"equipmaster/session"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type Srv struct {
	Repo       *db.Repo
	AppSess    *session.AppSessionStore
	WebOrigin  string
	SessionTTL time.Duration
	Validate   *validator.Validate
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:       db.NewRepo(a.DB),
		AppSess:    a.AppSessions(),
		WebOrigin:  a.Config.WebOrigin,
		SessionTTL: a.Config.SessionTTL,
		Validate:   validator.New(),
	}
}

func (s *Srv) setAppCookie(c *app.Ctx, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// fail maps domain errors to status codes; anything unrecognized is a
// persistence failure surfaced with its detail.
func fail(c *app.Ctx, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
	case errors.Is(err, lifecycle.ErrFutureDate),
		errors.Is(err, db.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrBlockedUser):
		c.JSON(http.StatusUnprocessableEntity, app.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrDecommissioned),
		errors.Is(err, db.ErrAlreadyAssigned),
		errors.Is(err, db.ErrAlreadyReturned),
		errors.Is(err, db.ErrTypeInUse),
		errors.Is(err, db.ErrHasAssignments):
		c.JSON(http.StatusConflict, app.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
	}
}
