package controllers

import (
	"net/http"

	"equipmaster/app"
	"equipmaster/models"

	"github.com/gin-gonic/gin"
)

type EquipmentTypeController struct{ *Srv }

func NewEquipmentTypeController(s *Srv) *EquipmentTypeController {
	return &EquipmentTypeController{Srv: s}
}

type equipmentTypeInput struct {
	Name                    string `json:"name" binding:"required"`
	Description             string `json:"description"`
	MaintenanceIntervalDays int    `json:"maintenanceIntervalDays" binding:"required"`
}

func (tc *EquipmentTypeController) List(c *gin.Context) {
	types, err := tc.Repo.ListEquipmentTypes(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": types})
}

func (tc *EquipmentTypeController) Create(c *gin.Context) {
	var in equipmentTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	et := &models.EquipmentType{
		Name:                    in.Name,
		Description:             in.Description,
		MaintenanceIntervalDays: in.MaintenanceIntervalDays,
	}
	if err := tc.Validate.Struct(et); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := tc.Repo.CreateEquipmentType(c.Request.Context(), app.Username(c), et); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, et)
}

func (tc *EquipmentTypeController) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var in equipmentTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	check := models.EquipmentType{
		Name:                    in.Name,
		Description:             in.Description,
		MaintenanceIntervalDays: in.MaintenanceIntervalDays,
	}
	if err := tc.Validate.Struct(&check); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	et, err := tc.Repo.UpdateEquipmentType(c.Request.Context(), app.Username(c), id, func(et *models.EquipmentType) {
		et.Name = in.Name
		et.Description = in.Description
		et.MaintenanceIntervalDays = in.MaintenanceIntervalDays
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, et)
}

func (tc *EquipmentTypeController) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := tc.Repo.DeleteEquipmentType(c.Request.Context(), app.Username(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}
