// Package lifecycle holds the status and maintenance-date rules for
// equipment. It is pure: callers load the entities, apply a rule, and
// persist the result in their own transaction.
package lifecycle

import (
	"errors"
	"time"

	"equipmaster/models"
)

var (
	ErrDecommissioned = errors.New("equipment is decommissioned")
	ErrFutureDate     = errors.New("maintenance date must not be in the future")
	ErrBlockedUser    = errors.New("user is blocked")
)

// StatusDisplay maps status values to display names. Static on purpose:
// no enum metadata or runtime introspection.
var StatusDisplay = map[models.EquipmentStatus]string{
	models.StatusInUse:            "In use",
	models.StatusInReserve:        "In reserve",
	models.StatusUnderMaintenance: "Under maintenance",
	models.StatusDecommissioned:   "Decommissioned",
}

func StatusName(s models.EquipmentStatus) string {
	if name, ok := StatusDisplay[s]; ok {
		return name
	}
	return string(s)
}

// NextMaintenance returns from + intervalDays, or nil when the interval is
// not positive.
func NextMaintenance(from time.Time, intervalDays int) *time.Time {
	if intervalDays <= 0 {
		return nil
	}
	next := from.AddDate(0, 0, intervalDays)
	return &next
}

// DeriveNextMaintenance recomputes the equipment's next-maintenance date
// from its purchase date and type interval. A nil type clears the date.
func DeriveNextMaintenance(eq *models.Equipment, typ *models.EquipmentType) {
	if typ == nil {
		eq.NextMaintenanceDate = nil
		return
	}
	eq.NextMaintenanceDate = NextMaintenance(eq.PurchaseDate, typ.MaintenanceIntervalDays)
}

// Issue marks the equipment as checked out. The caller is responsible for
// the one-active-assignment check; this only guards the terminal state.
func Issue(eq *models.Equipment, user *models.User) error {
	if eq.Status == models.StatusDecommissioned {
		return ErrDecommissioned
	}
	if user.Blocked {
		return ErrBlockedUser
	}
	eq.Status = models.StatusInUse
	return nil
}

// Return puts returned equipment back in reserve.
func Return(eq *models.Equipment) {
	eq.Status = models.StatusInReserve
}

// Decommission retires the equipment and stamps the decommission date.
func Decommission(eq *models.Equipment, now time.Time) {
	eq.Status = models.StatusDecommissioned
	eq.DecommissionDate = &now
}

// ApplyMaintenance validates a maintenance log against the equipment and,
// when valid, updates the maintenance dates on both records and moves the
// equipment status according to the result. On error nothing is mutated.
func ApplyMaintenance(eq *models.Equipment, log *models.MaintenanceLog, intervalDays int, now time.Time) error {
	if eq.Status == models.StatusDecommissioned {
		return ErrDecommissioned
	}
	if log.Date.After(now) {
		return ErrFutureDate
	}

	d := log.Date
	eq.LastMaintenanceDate = &d
	if next := NextMaintenance(log.Date, intervalDays); next != nil {
		log.NextMaintenanceDate = next
		eq.NextMaintenanceDate = next
	}

	switch log.Result {
	case models.ResultInProgress:
		eq.Status = models.StatusUnderMaintenance
	case models.ResultFailed:
		Decommission(eq, now)
	default:
		// Success, NeedsReplacement and anything unrecognized end back
		// in reserve, matching the original behavior.
		eq.Status = models.StatusInReserve
	}
	return nil
}
