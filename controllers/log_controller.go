package controllers

import (
	"net/http"
	"strconv"
	"time"

	"equipmaster/db"

	"github.com/gin-gonic/gin"
)

type LogController struct{ *Srv }

func NewLogController(s *Srv) *LogController { return &LogController{Srv: s} }

// List reads the audit trail with the same filters the log screen of the
// original offered: action, entity, keyword, date range, paging.
func (lc *LogController) List(c *gin.Context) {
	q := db.LogQuery{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
		Q:      c.Query("q"),
	}
	if v := c.Query("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			q.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			q.To = &t
		}
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "50"))

	res, err := lc.Repo.ListLogEntries(c.Request.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
