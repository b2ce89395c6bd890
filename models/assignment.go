package models

import "time"

const AssignmentTable = "assignments"

// Assignment links one piece of equipment to one person. ReturnedAt == nil
// means the equipment is currently checked out.
type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	EquipmentID uint       `gorm:"index;not null" json:"equipmentId"`
	Equipment   *Equipment `json:"equipment,omitempty"`
	UserID      uint       `gorm:"index;not null" json:"userId"`
	User        *User      `json:"user,omitempty"`

	AssignedAt time.Time  `gorm:"index;not null" json:"assignedAt"`
	ReturnedAt *time.Time `gorm:"index" json:"returnedAt,omitempty"`

	AssignmentNotes string `gorm:"size:500" json:"assignmentNotes,omitempty"`
	ReturnNotes     string `gorm:"size:500" json:"returnNotes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Assignment) TableName() string { return AssignmentTable }

func (a *Assignment) IsActive() bool { return a.ReturnedAt == nil }
