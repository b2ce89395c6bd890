package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"equipmaster/audit"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAuditWrite marks a commit that failed while inserting its audit
// entries. The whole transaction rolls back, so the caller still sees an
// all-or-nothing outcome; the sentinel only tells the stages apart.
var ErrAuditWrite = errors.New("audit write failed")

// UnitOfWork stages entity mutations inside one transaction and tracks a
// change record per mutation. When the callback given to Repo.Commit
// returns, the recorder turns the tracked changes into log entries and they
// are inserted in the same transaction as the mutations that produced them.
type UnitOfWork struct {
	tx      *gorm.DB
	changes []audit.Change
}

// Tx exposes the underlying transaction for reads.
func (u *UnitOfWork) Tx() *gorm.DB { return u.tx }

// lockForUpdate takes a row lock on dialects that support SELECT ... FOR
// UPDATE. SQLite has no row locks; its single writer already serializes the
// transactions, so there the query runs unchanged.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func (u *UnitOfWork) Create(entity any) error {
	if err := u.tx.Omit(clause.Associations).Create(entity).Error; err != nil {
		return err
	}
	u.changes = append(u.changes, audit.NewChange(audit.Added, nil, entity))
	return nil
}

// Update persists next and records the field diff against prev. prev must
// be the entity state as loaded inside this transaction.
func (u *UnitOfWork) Update(prev, next any) error {
	if err := u.tx.Omit(clause.Associations).Save(next).Error; err != nil {
		return err
	}
	u.changes = append(u.changes, audit.NewChange(audit.Modified, prev, next))
	return nil
}

func (u *UnitOfWork) Delete(entity any) error {
	if err := u.tx.Delete(entity).Error; err != nil {
		return err
	}
	u.changes = append(u.changes, audit.NewChange(audit.Deleted, entity, nil))
	return nil
}

// Commit runs fn inside a transaction, then appends one audit entry per
// staged mutation, all sharing the commit timestamp, in staging order. If
// fn fails nothing is persisted and no entries are produced.
func (r *Repo) Commit(ctx context.Context, username string, fn func(uow *UnitOfWork) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uow := &UnitOfWork{tx: tx}
		if err := fn(uow); err != nil {
			return err
		}
		entries := audit.Entries(username, time.Now(), uow.changes)
		if len(entries) == 0 {
			return nil
		}
		// Plain insert, never staged: the trail must not audit itself.
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrAuditWrite, err)
		}
		return nil
	})
}
