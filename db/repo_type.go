package db

import (
	"context"
	"errors"

	"equipmaster/models"
)

// ErrTypeInUse blocks deleting an equipment type that equipment still
// references.
var ErrTypeInUse = errors.New("equipment type is referenced by equipment")

func (r *Repo) ListEquipmentTypes(ctx context.Context) ([]models.EquipmentType, error) {
	var types []models.EquipmentType
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

func (r *Repo) CreateEquipmentType(ctx context.Context, username string, et *models.EquipmentType) error {
	return r.Commit(ctx, username, func(uow *UnitOfWork) error {
		return uow.Create(et)
	})
}

func (r *Repo) UpdateEquipmentType(ctx context.Context, username string, id uint, apply func(et *models.EquipmentType)) (*models.EquipmentType, error) {
	var updated models.EquipmentType
	err := r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var et models.EquipmentType
		if err := uow.Tx().First(&et, "id = ?", id).Error; err != nil {
			return err
		}
		prev := et
		apply(&et)
		if err := uow.Update(&prev, &et); err != nil {
			return err
		}
		updated = et
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *Repo) DeleteEquipmentType(ctx context.Context, username string, id uint) error {
	return r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var et models.EquipmentType
		if err := uow.Tx().First(&et, "id = ?", id).Error; err != nil {
			return err
		}
		var n int64
		if err := uow.Tx().Model(&models.Equipment{}).
			Where("equipment_type_id = ?", id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrTypeInUse
		}
		return uow.Delete(&et)
	})
}
