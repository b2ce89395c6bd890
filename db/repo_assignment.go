package db

import (
	"context"
	"errors"
	"time"

	"equipmaster/lifecycle"
	"equipmaster/models"
)

var (
	ErrAlreadyAssigned = errors.New("equipment already has an active assignment")
	ErrAlreadyReturned = errors.New("assignment already returned")
)

type IssueInput struct {
	EquipmentID uint
	UserID      uint
	AssignedAt  time.Time
	Notes       string
}

// IssueEquipment creates the assignment and flips the equipment to InUse in
// one transaction. The one-active-assignment precondition is checked here,
// inside the same transaction as the insert, not left to the caller.
func (r *Repo) IssueEquipment(ctx context.Context, username string, in IssueInput) (*models.Assignment, error) {
	var created models.Assignment
	err := r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var eq models.Equipment
		if err := lockForUpdate(uow.Tx()).First(&eq, "id = ?", in.EquipmentID).Error; err != nil {
			return err
		}
		var u models.User
		if err := uow.Tx().First(&u, "id = ?", in.UserID).Error; err != nil {
			return err
		}

		var n int64
		if err := uow.Tx().Model(&models.Assignment{}).
			Where("equipment_id = ? AND returned_at IS NULL", in.EquipmentID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrAlreadyAssigned
		}

		prev := eq
		if err := lifecycle.Issue(&eq, &u); err != nil {
			return err
		}

		assignedAt := in.AssignedAt
		if assignedAt.IsZero() {
			assignedAt = time.Now()
		}
		a := models.Assignment{
			EquipmentID:     eq.ID,
			UserID:          u.ID,
			AssignedAt:      assignedAt,
			AssignmentNotes: in.Notes,
		}
		if err := uow.Create(&a); err != nil {
			return err
		}
		if err := uow.Update(&prev, &eq); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ReturnAssignment stamps ReturnedAt and puts the equipment back in
// reserve. A second return of the same assignment fails.
func (r *Repo) ReturnAssignment(ctx context.Context, username string, assignmentID uint, returnNotes string) (*models.Assignment, error) {
	var returned models.Assignment
	err := r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var a models.Assignment
		if err := lockForUpdate(uow.Tx()).First(&a, "id = ?", assignmentID).Error; err != nil {
			return err
		}
		if !a.IsActive() {
			return ErrAlreadyReturned
		}
		var eq models.Equipment
		if err := lockForUpdate(uow.Tx()).First(&eq, "id = ?", a.EquipmentID).Error; err != nil {
			return err
		}

		prevA := a
		now := time.Now()
		a.ReturnedAt = &now
		a.ReturnNotes = returnNotes
		if err := uow.Update(&prevA, &a); err != nil {
			return err
		}

		prevEq := eq
		lifecycle.Return(&eq)
		if err := uow.Update(&prevEq, &eq); err != nil {
			return err
		}
		returned = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &returned, nil
}

// ListAssignments filters the assignment history. status is "", "active"
// or "returned".
func (r *Repo) ListAssignments(ctx context.Context, equipmentID, userID uint, status string) ([]models.Assignment, error) {
	q := r.DB.WithContext(ctx).
		Preload("Equipment").
		Preload("User").
		Order("assigned_at DESC")
	if equipmentID != 0 {
		q = q.Where("equipment_id = ?", equipmentID)
	}
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	switch status {
	case "active":
		q = q.Where("returned_at IS NULL")
	case "returned":
		q = q.Where("returned_at IS NOT NULL")
	}
	var as []models.Assignment
	if err := q.Find(&as).Error; err != nil {
		return nil, err
	}
	return as, nil
}
