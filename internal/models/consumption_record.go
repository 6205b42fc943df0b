package models

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConsumptionRecord describes how much of one resource pool funded one
// expense transaction and the age of that money in days.
//
// Records are immutable: when history changes, the recalculation engine
// rolls them back and creates new ones, it never edits a record in place.
type ConsumptionRecord struct {
	DefaultModel
	TenantID             uuid.UUID       `json:"tenantId" gorm:"index"`                                    // The tenant this record belongs to
	PoolID               uuid.UUID       `json:"poolId" gorm:"index"`                                      // The pool the money was drawn from
	ExpenseTransactionID uuid.UUID       `json:"expenseTransactionId" gorm:"index"`                        // External ID of the expense transaction
	Amount               decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"12.07"`         // The amount drawn from the pool
	Date                 types.Date      `json:"date" example:"2024-03-15T00:00:00Z"`                      // The date of the expense
	AgeDays              int             `json:"ageDays" example:"14"`                                     // Whole days between the pool's income date and the expense date
}

// BeforeSave validates the record.
func (r *ConsumptionRecord) BeforeSave(_ *gorm.DB) error {
	if !r.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	return nil
}

// RecordsForExpense returns all consumption records of one expense in
// allocation order: oldest money first. The age alone cannot order
// same-day pools, so the order key is the pool's, not the record's.
func RecordsForExpense(tx *gorm.DB, tenantID, expenseTransactionID uuid.UUID) ([]ConsumptionRecord, error) {
	var records []ConsumptionRecord

	err := tx.
		Joins("JOIN resource_pools ON resource_pools.id = consumption_records.pool_id").
		Where("consumption_records.tenant_id = ?", tenantID).
		Where("consumption_records.expense_transaction_id = ?", expenseTransactionID).
		Order("resource_pools.income_date ASC, resource_pools.id ASC").
		Find(&records).Error

	return records, err
}

// ConsumedByPool returns the total amount each pool of the tenant had
// consumed through the given date, keyed by pool ID. Pools without any
// consumption up to that date have no entry.
func ConsumedByPool(tx *gorm.DB, tenantID uuid.UUID, until types.Date) (map[uuid.UUID]decimal.Decimal, error) {
	var totals []struct {
		PoolID uuid.UUID
		Total  decimal.Decimal
	}

	err := tx.
		Model(&ConsumptionRecord{}).
		Select("pool_id, SUM(amount) AS total").
		Where("tenant_id = ?", tenantID).
		Where("date <= ?", until).
		Group("pool_id").
		Find(&totals).Error
	if err != nil {
		return nil, err
	}

	consumed := make(map[uuid.UUID]decimal.Decimal, len(totals))
	for _, total := range totals {
		consumed[total.PoolID] = total.Total
	}

	return consumed, nil
}

// RecordsForPool returns all consumption records drawing on one pool.
func RecordsForPool(tx *gorm.DB, poolID uuid.UUID) ([]ConsumptionRecord, error) {
	var records []ConsumptionRecord
	err := tx.Where(&ConsumptionRecord{PoolID: poolID}).Find(&records).Error
	return records, err
}

// RecordsFrom returns every record of the tenant that is affected by a
// history change at the given date: records with a consumption date at or
// after it, and records drawing on pools whose income date is at or after
// it. The result is in reverse chronological order of the consumption
// date, the order in which rollback must proceed.
func RecordsFrom(tx *gorm.DB, tenantID uuid.UUID, from types.Date) ([]ConsumptionRecord, error) {
	var records []ConsumptionRecord

	err := tx.
		Joins("JOIN resource_pools ON resource_pools.id = consumption_records.pool_id").
		Where("consumption_records.tenant_id = ?", tenantID).
		Where("consumption_records.date >= ? OR resource_pools.income_date >= ?", from, from).
		Order("consumption_records.date DESC, consumption_records.created_at DESC").
		Find(&records).Error

	return records, err
}

// RecordsInRange returns all records of the tenant with a consumption
// date in [from, until).
func RecordsInRange(tx *gorm.DB, tenantID uuid.UUID, from, until types.Date) ([]ConsumptionRecord, error) {
	var records []ConsumptionRecord

	err := tx.
		Where("tenant_id = ?", tenantID).
		Where("date >= ? AND date < ?", from, until).
		Order("date ASC").
		Find(&records).Error

	return records, err
}
