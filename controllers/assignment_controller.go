package controllers

import (
	"net/http"
	"strconv"
	"time"

	"equipmaster/app"
	"equipmaster/db"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct{ *Srv }

func NewAssignmentController(s *Srv) *AssignmentController {
	return &AssignmentController{Srv: s}
}

// Issue checks out equipment to a person.
func (ac *AssignmentController) Issue(c *gin.Context) {
	var in struct {
		EquipmentID uint       `json:"equipmentId" binding:"required"`
		UserID      uint       `json:"userId" binding:"required"`
		AssignedAt  *time.Time `json:"assignedAt"`
		Notes       string     `json:"notes"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	input := db.IssueInput{
		EquipmentID: in.EquipmentID,
		UserID:      in.UserID,
		Notes:       in.Notes,
	}
	if in.AssignedAt != nil {
		input.AssignedAt = *in.AssignedAt
	}
	a, err := ac.Repo.IssueEquipment(c.Request.Context(), app.Username(c), input)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// Return closes the active assignment.
func (ac *AssignmentController) Return(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var in struct {
		ReturnNotes string `json:"returnNotes"`
	}
	_ = c.ShouldBindJSON(&in)

	a, err := ac.Repo.ReturnAssignment(c.Request.Context(), app.Username(c), id, in.ReturnNotes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (ac *AssignmentController) List(c *gin.Context) {
	equipmentID, _ := strconv.ParseUint(c.Query("equipmentId"), 10, 32)
	userID, _ := strconv.ParseUint(c.Query("userId"), 10, 32)
	as, err := ac.Repo.ListAssignments(c.Request.Context(), uint(equipmentID), uint(userID), c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": as})
}
