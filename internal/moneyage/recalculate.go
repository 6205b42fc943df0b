package moneyage

import (
	"time"

	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/types"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// WatermarkFloorDays limits how far into the past an edit may push the
// dirty watermark. Edits older than the floor fail with ErrWatermarkFloor
// and require an explicit full rebuild, otherwise repeated backdated edits
// would degrade every recalculation toward a full history replay.
//
// Set from the configuration at startup. A value <= 0 disables the floor.
var WatermarkFloorDays = 1095

// markDirtyChecked extends the tenant's dirty watermark after enforcing
// the watermark floor. The force flag bypasses the floor, it is set only
// by the full rebuild path.
func markDirtyChecked(tx *gorm.DB, tenantID uuid.UUID, from types.Date, force bool) (models.RecalculationMark, error) {
	if !force && WatermarkFloorDays > 0 {
		floor := types.Today().AddDays(-WatermarkFloorDays)
		if from.Before(floor) {
			return models.RecalculationMark{}, models.ErrWatermarkFloor
		}
	}

	return models.MarkDirty(tx, tenantID, from)
}

// Recalculate recomputes the tenant's pool and consumption state from its
// dirty watermark. It is a no-op for a clean tenant.
func Recalculate(db *gorm.DB, tenantID uuid.UUID) error {
	unlock := lockTenant(tenantID)
	defer unlock()

	return recalculateLocked(db, tenantID)
}

// recalculate is the recalculation pass. The caller holds the tenant lock.
//
// The pass reads the watermark, rolls back and replays the affected tail
// of history in one database transaction, and afterwards marks the tenant
// clean only if the watermark version did not move in the meantime. A
// failure leaves the tenant dirty with the attempt counted, so the
// scheduler retries with backoff and no dirty state is ever dropped.
func recalculate(db *gorm.DB, tenantID uuid.UUID) error {
	mark, err := models.MarkForTenant(db, tenantID)
	if err != nil {
		return err
	}

	if mark.State != models.StateDirty {
		return nil
	}

	from := mark.DirtyFrom

	err = db.Transaction(func(tx *gorm.DB) error {
		return replayTail(tx, tenantID, from)
	})
	if err != nil {
		recalculationsTotal.WithLabelValues("failure").Inc()

		if failErr := models.MarkFailed(db, tenantID); failErr != nil {
			log.Error().Str("tenant", tenantID.String()).Err(failErr).Msg("could not count failed recalculation attempt")
		}

		return err
	}

	cleaned, err := models.MarkClean(db, tenantID, mark.Version)
	if err != nil {
		return err
	}

	if !cleaned {
		// An edit extended the watermark during the pass. The tenant
		// stays dirty and the next trigger covers the new tail.
		recalculationsTotal.WithLabelValues("superseded").Inc()
		return nil
	}

	recalculationsTotal.WithLabelValues("success").Inc()

	err = RefreshSnapshots(db, tenantID, from)
	if err != nil {
		log.Error().Str("tenant", tenantID.String()).Err(err).Msg("could not refresh snapshots after recalculation")
	}

	return nil
}

// replayTail rolls back and replays all history of the tenant from the
// given date.
//
// Rollback runs in reverse chronological order of the consumption date so
// the pool invariants hold at every step. Pools created on or after the
// date are then dropped and re-created from the journal, and every
// expense from the date on is re-allocated in ascending date order.
func replayTail(tx *gorm.DB, tenantID uuid.UUID, from types.Date) error {
	records, err := models.RecordsFrom(tx, tenantID, from)
	if err != nil {
		return err
	}

	for _, record := range records {
		var pool models.ResourcePool
		err = tx.First(&pool, "id = ?", record.PoolID).Error
		if err != nil {
			return err
		}

		err = pool.RollbackConsumption(tx, record)
		if err != nil {
			return err
		}

		// Records are replaced wholesale, never edited. The row is
		// removed for good so the replay can write fresh ones.
		err = tx.Unscoped().Delete(&record).Error
		if err != nil {
			return err
		}
	}

	err = tx.Unscoped().
		Where("tenant_id = ? AND income_date >= ?", tenantID, from).
		Delete(&models.ResourcePool{}).Error
	if err != nil {
		return err
	}

	incomes, err := models.TransactionsFrom(tx, tenantID, from, models.KindIncome)
	if err != nil {
		return err
	}

	for _, income := range incomes {
		_, err = models.CreatePool(tx, income)
		if err != nil {
			return err
		}
	}

	expenses, err := models.TransactionsFrom(tx, tenantID, from, models.KindExpense)
	if err != nil {
		return err
	}

	for _, expense := range expenses {
		_, err = AllocateExpense(tx, expense)
		if err != nil {
			return err
		}
	}

	return nil
}

// FullRebuild wipes and replays the tenant's entire pool and consumption
// state from the journal. This is the explicit opt-in for edits behind
// the watermark floor and the recovery path when state is suspect.
func FullRebuild(db *gorm.DB, tenantID uuid.UUID) error {
	unlock := lockTenant(tenantID)
	defer unlock()

	earliest, ok, err := models.EarliestTransactionDate(db, tenantID)
	if err != nil {
		return err
	}

	if !ok {
		// Nothing in the journal, drop whatever state is left over.
		return db.Transaction(func(tx *gorm.DB) error {
			err := tx.Unscoped().Where("tenant_id = ?", tenantID).Delete(&models.ConsumptionRecord{}).Error
			if err != nil {
				return err
			}

			return tx.Unscoped().Where("tenant_id = ?", tenantID).Delete(&models.ResourcePool{}).Error
		})
	}

	// Every record and pool dates on or after the earliest journal
	// entry, so a watermark at that date covers the full history.
	_, err = markDirtyChecked(db, tenantID, earliest, true)
	if err != nil {
		return err
	}

	return recalculateLocked(db, tenantID)
}

// RetryDirty runs a recalculation for every dirty tenant whose retry
// backoff has elapsed. The scheduler calls this periodically so that a
// failed pass is retried without dropping the dirty state.
func RetryDirty(db *gorm.DB, backoff time.Duration) {
	marks, err := models.DirtyMarks(db)
	if err != nil {
		log.Error().Err(err).Msg("could not load dirty recalculation marks")
		return
	}

	for _, mark := range marks {
		if mark.Attempts > 0 {
			// Linear backoff: wait attempts * backoff after the last
			// failed attempt before trying again.
			wait := time.Duration(mark.Attempts) * backoff
			if time.Since(mark.UpdatedAt) < wait {
				continue
			}
		}

		err = Recalculate(db, mark.TenantID)
		if err != nil {
			log.Error().Str("tenant", mark.TenantID.String()).Err(err).Msg("recalculation retry failed")
		}
	}
}
