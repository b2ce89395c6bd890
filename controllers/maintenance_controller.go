package controllers

import (
	"net/http"
	"strconv"
	"time"

	"equipmaster/app"
	"equipmaster/models"

	"github.com/gin-gonic/gin"
)

type MaintenanceController struct{ *Srv }

func NewMaintenanceController(s *Srv) *MaintenanceController {
	return &MaintenanceController{Srv: s}
}

type maintenanceInput struct {
	EquipmentID     uint      `json:"equipmentId" binding:"required"`
	PerformedBy     string    `json:"performedBy" binding:"required"`
	Date            time.Time `json:"date" binding:"required"`
	MaintenanceType string    `json:"maintenanceType" binding:"required"`
	Description     string    `json:"description"`
	Cost            *float64  `json:"cost"`
	Result          string    `json:"result" binding:"required"`
}

func (mc *MaintenanceController) toModel(in maintenanceInput) (*models.MaintenanceLog, error) {
	m := &models.MaintenanceLog{
		EquipmentID:     in.EquipmentID,
		PerformedBy:     in.PerformedBy,
		Date:            in.Date,
		MaintenanceType: models.MaintenanceType(in.MaintenanceType),
		Description:     in.Description,
		Cost:            in.Cost,
		Result:          models.MaintenanceResult(in.Result),
	}
	return m, mc.Validate.Struct(m)
}

// Record registers a maintenance event and applies the lifecycle rules to
// the equipment in the same commit.
func (mc *MaintenanceController) Record(c *gin.Context) {
	var in maintenanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	m, err := mc.toModel(in)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := mc.Repo.RecordMaintenance(c.Request.Context(), app.Username(c), m); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// Update is the corrective edit; history is otherwise immutable.
func (mc *MaintenanceController) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var in maintenanceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if _, err := mc.toModel(in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	m, err := mc.Repo.UpdateMaintenance(c.Request.Context(), app.Username(c), id, func(m *models.MaintenanceLog) {
		m.EquipmentID = in.EquipmentID
		m.PerformedBy = in.PerformedBy
		m.Date = in.Date
		m.MaintenanceType = models.MaintenanceType(in.MaintenanceType)
		m.Description = in.Description
		m.Cost = in.Cost
		m.Result = models.MaintenanceResult(in.Result)
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (mc *MaintenanceController) List(c *gin.Context) {
	equipmentID, _ := strconv.ParseUint(c.Query("equipmentId"), 10, 32)
	logs, err := mc.Repo.ListMaintenanceLogs(c.Request.Context(), uint(equipmentID))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": logs})
}
