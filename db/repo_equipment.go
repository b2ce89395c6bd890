package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"equipmaster/lifecycle"
	"equipmaster/models"
)

var ErrInvalidStatus = errors.New("unknown equipment status")

func (r *Repo) FindEquipmentByID(ctx context.Context, id uint) (*models.Equipment, error) {
	var eq models.Equipment
	err := r.DB.WithContext(ctx).
		Preload("EquipmentType").
		Preload("Assignments.User").
		Preload("MaintenanceLogs").
		First(&eq, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &eq, nil
}

// ListEquipments filters by serial/model keyword and status. Status is
// trusted as the single source of truth for "in use"; nothing here
// recomputes it from assignments.
func (r *Repo) ListEquipments(ctx context.Context, q string, status models.EquipmentStatus) ([]models.Equipment, error) {
	tx := r.DB.WithContext(ctx).Preload("EquipmentType").Order("serial_number ASC")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(serial_number) LIKE ? OR LOWER(model) LIKE ?", like, like)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}
	var items []models.Equipment
	err := tx.Find(&items).Error
	return items, err
}

// UpcomingMaintenance lists equipment whose next maintenance falls within
// the given number of days from today, soonest first.
func (r *Repo) UpcomingMaintenance(ctx context.Context, days int) ([]models.Equipment, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	until := today.AddDate(0, 0, days)
	var items []models.Equipment
	err := r.DB.WithContext(ctx).
		Preload("EquipmentType").
		Where("next_maintenance_date IS NOT NULL AND next_maintenance_date >= ? AND next_maintenance_date <= ?", today, until).
		Order("next_maintenance_date ASC").
		Find(&items).Error
	return items, err
}

func (r *Repo) CreateEquipment(ctx context.Context, username string, eq *models.Equipment) error {
	return r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var typ models.EquipmentType
		if err := uow.Tx().First(&typ, "id = ?", eq.EquipmentTypeID).Error; err != nil {
			return err
		}
		if eq.Status == "" {
			eq.Status = models.StatusInReserve
		}
		if !eq.Status.Valid() {
			return ErrInvalidStatus
		}
		lifecycle.DeriveNextMaintenance(eq, &typ)
		return uow.Create(eq)
	})
}

// UpdateEquipment applies the edit and re-derives the next-maintenance
// date from the (possibly changed) type and purchase date.
func (r *Repo) UpdateEquipment(ctx context.Context, username string, id uint, apply func(eq *models.Equipment)) (*models.Equipment, error) {
	var updated models.Equipment
	err := r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var eq models.Equipment
		if err := uow.Tx().First(&eq, "id = ?", id).Error; err != nil {
			return err
		}
		prev := eq
		apply(&eq)
		if !eq.Status.Valid() {
			return ErrInvalidStatus
		}
		var typ models.EquipmentType
		if err := uow.Tx().First(&typ, "id = ?", eq.EquipmentTypeID).Error; err != nil {
			return err
		}
		lifecycle.DeriveNextMaintenance(&eq, &typ)
		if err := uow.Update(&prev, &eq); err != nil {
			return err
		}
		updated = eq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DecommissionEquipment retires equipment manually, outside the
// maintenance flow.
func (r *Repo) DecommissionEquipment(ctx context.Context, username string, id uint) (*models.Equipment, error) {
	var updated models.Equipment
	err := r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var eq models.Equipment
		if err := uow.Tx().First(&eq, "id = ?", id).Error; err != nil {
			return err
		}
		prev := eq
		lifecycle.Decommission(&eq, time.Now())
		if err := uow.Update(&prev, &eq); err != nil {
			return err
		}
		updated = eq
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteEquipment is the destructive admin action: it takes the
// assignment and maintenance history with it. The cascaded rows are
// removed the way a database cascade would, without individual audit
// entries; the equipment itself is audited.
func (r *Repo) DeleteEquipment(ctx context.Context, username string, id uint) error {
	return r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var eq models.Equipment
		if err := uow.Tx().First(&eq, "id = ?", id).Error; err != nil {
			return err
		}
		if err := uow.Tx().Where("equipment_id = ?", id).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		if err := uow.Tx().Where("equipment_id = ?", id).Delete(&models.MaintenanceLog{}).Error; err != nil {
			return err
		}
		return uow.Delete(&eq)
	})
}
