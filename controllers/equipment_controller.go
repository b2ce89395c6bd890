package controllers

import (
	"net/http"
	"strconv"
	"time"

	"equipmaster/app"
	"equipmaster/lifecycle"
	"equipmaster/models"

	"github.com/gin-gonic/gin"
)

type EquipmentController struct{ *Srv }

func NewEquipmentController(s *Srv) *EquipmentController { return &EquipmentController{Srv: s} }

type equipmentInput struct {
	SerialNumber     string     `json:"serialNumber" binding:"required"`
	Model            string     `json:"model"`
	EquipmentTypeID  uint       `json:"equipmentTypeId" binding:"required"`
	PurchaseDate     time.Time  `json:"purchaseDate" binding:"required"`
	Status           string     `json:"status" validate:"omitempty,oneof=InUse InReserve UnderMaintenance Decommissioned"`
	DecommissionDate *time.Time `json:"decommissionDate"`
}

func (ec *EquipmentController) List(c *gin.Context) {
	items, err := ec.Repo.ListEquipments(c.Request.Context(), c.Query("q"), models.EquipmentStatus(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func (ec *EquipmentController) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	eq, err := ec.Repo.FindEquipmentByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{
		"equipment":          eq,
		"statusDisplay":      lifecycle.StatusName(eq.Status),
		"maintenanceOverdue": eq.MaintenanceOverdue(time.Now()),
	})
}

func (ec *EquipmentController) Create(c *gin.Context) {
	var in equipmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := ec.Validate.Struct(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	eq := &models.Equipment{
		SerialNumber:     in.SerialNumber,
		Model:            in.Model,
		EquipmentTypeID:  in.EquipmentTypeID,
		PurchaseDate:     in.PurchaseDate,
		Status:           models.EquipmentStatus(in.Status),
		DecommissionDate: in.DecommissionDate,
	}
	if err := ec.Repo.CreateEquipment(c.Request.Context(), app.Username(c), eq); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, eq)
}

func (ec *EquipmentController) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	var in equipmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if err := ec.Validate.Struct(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	eq, err := ec.Repo.UpdateEquipment(c.Request.Context(), app.Username(c), id, func(eq *models.Equipment) {
		eq.SerialNumber = in.SerialNumber
		eq.Model = in.Model
		eq.EquipmentTypeID = in.EquipmentTypeID
		eq.PurchaseDate = in.PurchaseDate
		if in.Status != "" {
			eq.Status = models.EquipmentStatus(in.Status)
		}
		eq.DecommissionDate = in.DecommissionDate
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}

func (ec *EquipmentController) Decommission(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	eq, err := ec.Repo.DecommissionEquipment(c.Request.Context(), app.Username(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, eq)
}

func (ec *EquipmentController) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		return
	}
	if err := ec.Repo.DeleteEquipment(c.Request.Context(), app.Username(c), id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// UpcomingMaintenance reports equipment due for maintenance in the next
// week.
func (ec *EquipmentController) UpcomingMaintenance(c *gin.Context) {
	days := 7
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	items, err := ec.Repo.UpcomingMaintenance(c.Request.Context(), days)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

func parseID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid id"})
		return 0, err
	}
	return uint(id), nil
}
