package models

import "time"

const UserTable = "users"

// User is a personnel record, not a login account.
type User struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	FullName        string `gorm:"size:100;not null" json:"fullName"`
	Department      string `gorm:"size:50;not null" json:"department"`
	PersonnelNumber string `gorm:"size:20" json:"personnelNumber,omitempty"`
	Blocked         bool   `gorm:"not null;default:false" json:"blocked"`

	Assignments []Assignment `gorm:"constraint:OnDelete:RESTRICT" json:"assignments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return UserTable }
