package models

import "time"

const LogEntryTable = "log_entries"

// Audit actions. Return is a specialization of Update for assignments whose
// ReturnedAt flipped from null to a timestamp.
const (
	ActionCreate = "Create"
	ActionUpdate = "Update"
	ActionDelete = "Delete"
	ActionReturn = "Return"
)

// LogEntry is the append-only audit record. It references other entities
// only by name and id inside Details, never by foreign key.
type LogEntry struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Action     string    `gorm:"size:50;not null" json:"action"`
	Username   string    `gorm:"size:50;not null" json:"username"`
	EntityName string    `gorm:"size:100;not null" json:"entityName"`
	Details    string    `gorm:"size:2000" json:"details"`
	Timestamp  time.Time `gorm:"index;not null" json:"timestamp"`
}

func (LogEntry) TableName() string { return LogEntryTable }
