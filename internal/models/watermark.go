package models

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/types"
	"gorm.io/gorm"
)

// RecalculationState is the per-tenant state machine of the incremental
// recalculation engine: CLEAN -> DIRTY -> CLEAN.
//
// swagger:enum RecalculationState
type RecalculationState string

const (
	StateClean RecalculationState = "CLEAN"
	StateDirty RecalculationState = "DIRTY"
)

// RecalculationMark is the persisted dirty watermark of one tenant.
//
// It is a database record, not process state, so that recalculation is
// crash-safe and coordinated across worker processes: whoever recomputes
// looks the mark up by tenant and checks the version before marking clean.
type RecalculationMark struct {
	DefaultModel
	TenantID  uuid.UUID          `json:"tenantId" gorm:"uniqueIndex"`              // The tenant this mark belongs to
	State     RecalculationState `json:"state" example:"DIRTY"`                    // CLEAN or DIRTY
	DirtyFrom types.Date         `json:"dirtyFrom" example:"2024-03-01T00:00:00Z"` // Earliest date from which history must be recomputed
	Version   uint               `json:"version" example:"7"`                      // Incremented on every extension of the mark
	Attempts  uint               `json:"attempts" example:"0"`                     // Failed recalculation attempts since the mark went dirty
}

// MarkForTenant returns the recalculation mark of the tenant, creating a
// clean one on first use.
func MarkForTenant(tx *gorm.DB, tenantID uuid.UUID) (RecalculationMark, error) {
	mark := RecalculationMark{
		TenantID: tenantID,
		State:    StateClean,
	}

	err := tx.Where(&RecalculationMark{TenantID: tenantID}).FirstOrCreate(&mark).Error
	if err != nil {
		return RecalculationMark{}, err
	}

	return mark, nil
}

// MarkDirty extends the tenant's dirty watermark to cover the given date.
//
// Multiple edits before a recompute coalesce to the earliest affected
// date. Every extension bumps the version so that a recompute that raced
// an edit cannot mark the tenant clean.
func MarkDirty(tx *gorm.DB, tenantID uuid.UUID, from types.Date) (RecalculationMark, error) {
	mark, err := MarkForTenant(tx, tenantID)
	if err != nil {
		return RecalculationMark{}, err
	}

	if mark.State == StateDirty {
		from = mark.DirtyFrom.Earliest(from)
	}

	mark.State = StateDirty
	mark.DirtyFrom = from
	mark.Version++
	mark.Attempts = 0

	err = tx.Save(&mark).Error
	if err != nil {
		return RecalculationMark{}, err
	}

	return mark, nil
}

// MarkClean sets the tenant clean, but only if the mark was not extended
// since the recompute read it. Returns false when the version moved on
// and the tenant stays dirty.
func MarkClean(tx *gorm.DB, tenantID uuid.UUID, version uint) (bool, error) {
	result := tx.
		Model(&RecalculationMark{}).
		Where("tenant_id = ? AND version = ?", tenantID, version).
		Updates(map[string]interface{}{
			"state":    StateClean,
			"attempts": 0,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// MarkFailed counts a failed recalculation attempt. The dirty state and
// watermark are untouched so the next attempt covers the same history.
func MarkFailed(tx *gorm.DB, tenantID uuid.UUID) error {
	return tx.
		Model(&RecalculationMark{}).
		Where("tenant_id = ? AND state = ?", tenantID, StateDirty).
		Update("attempts", gorm.Expr("attempts + 1")).Error
}

// DirtyMarks returns the marks of all tenants that currently need a
// recompute.
func DirtyMarks(tx *gorm.DB) ([]RecalculationMark, error) {
	var marks []RecalculationMark
	err := tx.Where(&RecalculationMark{State: StateDirty}).Find(&marks).Error
	return marks, err
}
