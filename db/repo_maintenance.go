package db

import (
	"context"
	"time"

	"equipmaster/lifecycle"
	"equipmaster/models"
)

// RecordMaintenance validates the log against the equipment, applies the
// maintenance-date arithmetic and the status transition, and persists the
// log and the equipment together. On a validation failure nothing is
// written.
func (r *Repo) RecordMaintenance(ctx context.Context, username string, m *models.MaintenanceLog) error {
	return r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var eq models.Equipment
		if err := uow.Tx().Preload("EquipmentType").First(&eq, "id = ?", m.EquipmentID).Error; err != nil {
			return err
		}
		prev := eq
		interval := 0
		if eq.EquipmentType != nil {
			interval = eq.EquipmentType.MaintenanceIntervalDays
		}
		if err := lifecycle.ApplyMaintenance(&eq, m, interval, time.Now()); err != nil {
			return err
		}
		if err := uow.Create(m); err != nil {
			return err
		}
		return uow.Update(&prev, &eq)
	})
}

// UpdateMaintenance is the corrective edit of an existing log entry. The
// lifecycle rules are re-applied with the edited values.
func (r *Repo) UpdateMaintenance(ctx context.Context, username string, id uint, apply func(m *models.MaintenanceLog)) (*models.MaintenanceLog, error) {
	var updated models.MaintenanceLog
	err := r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var m models.MaintenanceLog
		if err := uow.Tx().First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		prevLog := m
		apply(&m)

		var eq models.Equipment
		if err := uow.Tx().Preload("EquipmentType").First(&eq, "id = ?", m.EquipmentID).Error; err != nil {
			return err
		}
		prevEq := eq
		interval := 0
		if eq.EquipmentType != nil {
			interval = eq.EquipmentType.MaintenanceIntervalDays
		}
		if err := lifecycle.ApplyMaintenance(&eq, &m, interval, time.Now()); err != nil {
			return err
		}
		if err := uow.Update(&prevLog, &m); err != nil {
			return err
		}
		if err := uow.Update(&prevEq, &eq); err != nil {
			return err
		}
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repo) ListMaintenanceLogs(ctx context.Context, equipmentID uint) ([]models.MaintenanceLog, error) {
	q := r.DB.WithContext(ctx).Preload("Equipment").Order("date DESC")
	if equipmentID != 0 {
		q = q.Where("equipment_id = ?", equipmentID)
	}
	var logs []models.MaintenanceLog
	err := q.Find(&logs).Error
	return logs, err
}
