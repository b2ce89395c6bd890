package models

import "time"

const EquipmentTypeTable = "equipment_types"
const EquipmentTable = "equipments"

// EquipmentStatus is stored as a string column, see lifecycle.StatusDisplay
// for the human-readable names.
type EquipmentStatus string

const (
	StatusInUse            EquipmentStatus = "InUse"
	StatusInReserve        EquipmentStatus = "InReserve"
	StatusUnderMaintenance EquipmentStatus = "UnderMaintenance"
	StatusDecommissioned   EquipmentStatus = "Decommissioned"
)

// Valid reports whether s is one of the known statuses.
func (s EquipmentStatus) Valid() bool {
	switch s {
	case StatusInUse, StatusInReserve, StatusUnderMaintenance, StatusDecommissioned:
		return true
	}
	return false
}

type EquipmentType struct {
	ID                      uint      `gorm:"primaryKey" json:"id"`
	Name                    string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description             string    `gorm:"size:500" json:"description,omitempty"`
	MaintenanceIntervalDays int       `gorm:"not null" json:"maintenanceIntervalDays" validate:"required,min=1,max=3650"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

type Equipment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SerialNumber    string          `gorm:"size:100;uniqueIndex;not null" json:"serialNumber"`
	Model           string          `gorm:"size:150" json:"model,omitempty"`
	EquipmentTypeID uint            `gorm:"index;not null" json:"equipmentTypeId"`
	EquipmentType   *EquipmentType  `gorm:"constraint:OnDelete:RESTRICT" json:"equipmentType,omitempty"`
	PurchaseDate    time.Time       `json:"purchaseDate"`
	Status          EquipmentStatus `gorm:"size:20;not null;default:'InReserve'" json:"status" validate:"omitempty,oneof=InUse InReserve UnderMaintenance Decommissioned"`

	LastMaintenanceDate *time.Time `json:"lastMaintenanceDate,omitempty"`
	NextMaintenanceDate *time.Time `gorm:"index" json:"nextMaintenanceDate,omitempty"`
	DecommissionDate    *time.Time `json:"decommissionDate,omitempty"`

	Assignments     []Assignment     `gorm:"constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	MaintenanceLogs []MaintenanceLog `gorm:"constraint:OnDelete:CASCADE" json:"maintenanceLogs,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (EquipmentType) TableName() string { return EquipmentTypeTable }
func (Equipment) TableName() string     { return EquipmentTable }

// MaintenanceOverdue reports whether the scheduled maintenance date has
// already passed.
func (e *Equipment) MaintenanceOverdue(now time.Time) bool {
	return e.NextMaintenanceDate != nil && e.NextMaintenanceDate.Before(now)
}
