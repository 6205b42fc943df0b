package models

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResourcePool tracks the remaining balance of one income transaction.
//
// Pools are consumed in FIFO order by expense transactions. The amounts
// obey remaining = original - consumed >= 0 at all times; only
// ApplyConsumption and RollbackConsumption mutate them.
type ResourcePool struct {
	DefaultModel
	TenantID            uuid.UUID       `json:"tenantId" gorm:"uniqueIndex:resource_pools_source"`          // The tenant this pool belongs to
	SourceTransactionID uuid.UUID       `json:"sourceTransactionId" gorm:"uniqueIndex:resource_pools_source"` // External ID of the income transaction that created the pool
	OriginalAmount      decimal.Decimal `json:"originalAmount" gorm:"type:DECIMAL(20,8)" example:"2400.00"` // The amount of the income transaction
	RemainingAmount     decimal.Decimal `json:"remainingAmount" gorm:"type:DECIMAL(20,8)" example:"170.12"` // The unconsumed part of the pool
	ConsumedAmount      decimal.Decimal `json:"consumedAmount" gorm:"type:DECIMAL(20,8)" example:"2229.88"` // The consumed part of the pool
	IncomeDate          types.Date      `json:"incomeDate" example:"2024-03-01T00:00:00Z"`                  // The date the income was received, the base for all age calculations
	AccountID           uuid.UUID       `json:"accountId"`                                                  // Account reference of the income transaction
	CategoryID          uuid.UUID       `json:"categoryId"`                                                 // Category reference of the income transaction
	FirstConsumedDate   *types.Date     `json:"firstConsumedDate"`                                          // Date of the first consumption from this pool
	LastConsumedDate    *types.Date     `json:"lastConsumedDate"`                                           // Date of the most recent consumption from this pool
	FullyConsumedDate   *types.Date     `json:"fullyConsumedDate"`                                          // Date the pool was exhausted, unset while money remains
	IsFullyConsumed     bool            `json:"isFullyConsumed" example:"false"`                            // True once the remaining amount reached zero
	ConsumptionCount    int             `json:"consumptionCount" example:"3"`                               // Number of consumption records drawing on this pool
}

// CreatePool creates the resource pool for an income transaction.
//
// The UNIQUE index on (tenant, source transaction) enforces the
// one-pool-per-income invariant, a second create for the same income
// fails with ErrDuplicateIncome.
func CreatePool(tx *gorm.DB, income LedgerTransaction) (ResourcePool, error) {
	if income.Kind != KindIncome {
		return ResourcePool{}, ErrKindInvalid
	}

	if !income.Amount.IsPositive() {
		return ResourcePool{}, ErrAmountNotPositive
	}

	pool := ResourcePool{
		TenantID:            income.TenantID,
		SourceTransactionID: income.ExternalID,
		OriginalAmount:      income.Amount,
		RemainingAmount:     income.Amount,
		ConsumedAmount:      decimal.Zero,
		IncomeDate:          income.Date,
		AccountID:           income.AccountID,
		CategoryID:          income.CategoryID,
	}

	err := tx.Create(&pool).Error
	if err != nil {
		return ResourcePool{}, err
	}

	return pool, nil
}

// ActivePools returns all pools of the tenant that still hold money and
// whose income date is not after asOf.
//
// The ordering is the FIFO contract: income date ascending, ties broken
// by pool ID so that allocation is reproducible for same-day incomes.
func ActivePools(tx *gorm.DB, tenantID uuid.UUID, asOf types.Date) ([]ResourcePool, error) {
	var pools []ResourcePool

	err := tx.
		Where("tenant_id = ?", tenantID).
		Where("remaining_amount > 0").
		Where("income_date <= ?", asOf).
		Order("income_date ASC, id ASC").
		Find(&pools).Error

	return pools, err
}

// PoolsAsOf returns all pools of the tenant whose income date is not
// after asOf, in FIFO order. Unlike ActivePools this includes fully
// consumed pools: a pool that is empty today may still have held money
// on the requested date.
func PoolsAsOf(tx *gorm.DB, tenantID uuid.UUID, asOf types.Date) ([]ResourcePool, error) {
	var pools []ResourcePool

	err := tx.
		Where("tenant_id = ?", tenantID).
		Where("income_date <= ?", asOf).
		Order("income_date ASC, id ASC").
		Find(&pools).Error

	return pools, err
}

// PoolBySource returns the pool created by the income transaction with
// the given external ID.
func PoolBySource(tx *gorm.DB, tenantID, sourceTransactionID uuid.UUID) (ResourcePool, error) {
	var pool ResourcePool
	err := tx.Where(&ResourcePool{TenantID: tenantID, SourceTransactionID: sourceTransactionID}).First(&pool).Error
	return pool, err
}

// ApplyConsumption draws the amount from the pool on the given date and
// updates the consumption bookkeeping.
//
// A balance check failure means the caller did not respect the running
// totals before drawing from the pool.
func (p *ResourcePool) ApplyConsumption(tx *gorm.DB, amount decimal.Decimal, date types.Date) error {
	if !amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if amount.GreaterThan(p.RemainingAmount) {
		return ErrInsufficientPoolBalance
	}

	p.RemainingAmount = p.RemainingAmount.Sub(amount)
	p.ConsumedAmount = p.ConsumedAmount.Add(amount)
	p.ConsumptionCount++

	if p.FirstConsumedDate == nil || date.Before(*p.FirstConsumedDate) {
		d := date
		p.FirstConsumedDate = &d
	}

	if p.LastConsumedDate == nil || date.After(*p.LastConsumedDate) {
		d := date
		p.LastConsumedDate = &d
	}

	if p.RemainingAmount.IsZero() {
		d := date
		p.IsFullyConsumed = true
		p.FullyConsumedDate = &d
	}

	return tx.Save(p).Error
}

// RollbackConsumption reverses one consumption record against the pool.
//
// The first/last consumed dates are recomputed from the records that
// remain so the pool looks exactly as if the record never existed. Only
// the recalculation engine calls this.
func (p *ResourcePool) RollbackConsumption(tx *gorm.DB, record ConsumptionRecord) error {
	if record.PoolID != p.ID {
		return ErrInsufficientPoolBalance
	}

	p.RemainingAmount = p.RemainingAmount.Add(record.Amount)
	p.ConsumedAmount = p.ConsumedAmount.Sub(record.Amount)
	p.ConsumptionCount--
	p.IsFullyConsumed = false
	p.FullyConsumedDate = nil

	// Recompute the consumption dates from the remaining records
	remaining, err := RecordsForPool(tx, p.ID)
	if err != nil {
		return err
	}

	p.FirstConsumedDate = nil
	p.LastConsumedDate = nil
	for _, r := range remaining {
		if r.ID == record.ID {
			continue
		}

		if p.FirstConsumedDate == nil || r.Date.Before(*p.FirstConsumedDate) {
			d := r.Date
			p.FirstConsumedDate = &d
		}

		if p.LastConsumedDate == nil || r.Date.After(*p.LastConsumedDate) {
			d := r.Date
			p.LastConsumedDate = &d
		}
	}

	return tx.Save(p).Error
}
