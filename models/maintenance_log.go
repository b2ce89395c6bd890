package models

import "time"

const MaintenanceLogTable = "maintenance_logs"

type MaintenanceType string

const (
	MaintenancePlanned   MaintenanceType = "Planned"
	MaintenanceUnplanned MaintenanceType = "Unplanned"
	MaintenanceRepair    MaintenanceType = "Repair"
)

type MaintenanceResult string

const (
	ResultInProgress       MaintenanceResult = "InProgress"
	ResultSuccess          MaintenanceResult = "Success"
	ResultNeedsReplacement MaintenanceResult = "NeedsReplacement"
	ResultFailed           MaintenanceResult = "Failed"
)

type MaintenanceLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EquipmentID uint       `gorm:"index;not null" json:"equipmentId"`
	Equipment   *Equipment `json:"equipment,omitempty"`

	PerformedBy     string            `gorm:"size:100;not null" json:"performedBy" validate:"required"`
	Date            time.Time         `gorm:"not null" json:"date"`
	MaintenanceType MaintenanceType   `gorm:"size:50;not null" json:"maintenanceType" validate:"required,oneof=Planned Unplanned Repair"`
	Description     string            `gorm:"size:1000" json:"description,omitempty"`
	Cost            *float64          `json:"cost,omitempty"`
	Result          MaintenanceResult `gorm:"size:100;not null" json:"result" validate:"required,oneof=InProgress Success NeedsReplacement Failed"`

	NextMaintenanceDate *time.Time `json:"nextMaintenanceDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (MaintenanceLog) TableName() string { return MaintenanceLogTable }
