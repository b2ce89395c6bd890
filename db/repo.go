package db

import (
	"context"
	"errors"
	"strings"

	"equipmaster/models"

	"gorm.io/gorm"
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// ErrHasAssignments blocks deleting a user who still appears in assignment
// history.
var ErrHasAssignments = errors.New("user has assignments")

// Users (personnel records)

func (r *Repo) FindUserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

type ListUsersResult struct {
	Users []models.User `json:"users"`
	Total int64         `json:"total"`
}

// ListUsers pages through personnel, with an optional keyword over full
// name, department and personnel number.
func (r *Repo) ListUsers(ctx context.Context, q string, page, size int) (ListUsersResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.User{})
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(full_name) LIKE ? OR LOWER(department) LIKE ? OR LOWER(personnel_number) LIKE ?",
			like, like, like,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListUsersResult{}, err
	}

	var users []models.User
	if err := tx.
		Order("full_name ASC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&users).Error; err != nil {
		return ListUsersResult{}, err
	}
	return ListUsersResult{Users: users, Total: total}, nil
}

func (r *Repo) CreateUser(ctx context.Context, username string, u *models.User) error {
	return r.Commit(ctx, username, func(uow *UnitOfWork) error {
		return uow.Create(u)
	})
}

func (r *Repo) UpdateUser(ctx context.Context, username string, id uint, apply func(u *models.User)) (*models.User, error) {
	var updated models.User
	err := r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var u models.User
		if err := uow.Tx().First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		prev := u
		apply(&u)
		if err := uow.Update(&prev, &u); err != nil {
			return err
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteUser refuses while any assignment, active or historical, still
// references the user.
func (r *Repo) DeleteUser(ctx context.Context, username string, id uint) error {
	return r.Commit(ctx, username, func(uow *UnitOfWork) error {
		var u models.User
		if err := uow.Tx().First(&u, "id = ?", id).Error; err != nil {
			return err
		}
		var n int64
		if err := uow.Tx().Model(&models.Assignment{}).
			Where("user_id = ?", id).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrHasAssignments
		}
		return uow.Delete(&u)
	})
}
