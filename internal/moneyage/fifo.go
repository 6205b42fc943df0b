package moneyage

import (
	"github.com/moneyage/backend/internal/models"
	"gorm.io/gorm"
)

// AllocateExpense allocates one expense transaction across the tenant's
// active pools in FIFO order and returns the consumption records it
// created, oldest money first.
//
// The pass must run inside a database transaction: a failure after some
// records were created returns the error and relies on the enclosing
// transaction to roll everything back. Partial allocation is never
// persisted, an expense that exceeds the tracked income fails with
// ErrNoAvailableFunds.
func AllocateExpense(tx *gorm.DB, expense models.LedgerTransaction) ([]models.ConsumptionRecord, error) {
	if expense.Kind != models.KindExpense {
		return nil, models.ErrKindInvalid
	}

	if !expense.Amount.IsPositive() {
		return nil, models.ErrAmountNotPositive
	}

	pools, err := models.ActivePools(tx, expense.TenantID, expense.Date)
	if err != nil {
		return nil, err
	}

	remaining := expense.Amount
	var records []models.ConsumptionRecord

	for _, pool := range pools {
		take := remaining
		if pool.RemainingAmount.LessThan(take) {
			take = pool.RemainingAmount
		}

		if !take.IsPositive() {
			continue
		}

		record := models.ConsumptionRecord{
			TenantID:             expense.TenantID,
			PoolID:               pool.ID,
			ExpenseTransactionID: expense.ExternalID,
			Amount:               take,
			Date:                 expense.Date,
			AgeDays:              expense.Date.DaysSince(pool.IncomeDate),
		}

		err = tx.Create(&record).Error
		if err != nil {
			return nil, err
		}

		err = pool.ApplyConsumption(tx, take, expense.Date)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
		remaining = remaining.Sub(take)

		if remaining.IsZero() {
			break
		}
	}

	if remaining.IsPositive() {
		return nil, models.ErrNoAvailableFunds
	}

	allocationsTotal.Inc()

	return records, nil
}
