package moneyage

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LineageEntry explains one slice of an expense: which pool funded it,
// when that money was earned and how old it was when spent.
type LineageEntry struct {
	PoolID     uuid.UUID       `json:"poolId"`
	IncomeDate types.Date      `json:"incomeDate"`
	Amount     decimal.Decimal `json:"amount"`
	AgeDays    int             `json:"ageDays"`
}

// TransactionAge returns the amount-weighted average age in days of the
// money that funded the expense with the given external ID.
//
// Without consumption records the null sentinel is returned. Zero is a
// valid result, it means the expense was funded by same-day income.
func TransactionAge(tx *gorm.DB, tenantID, expenseTransactionID uuid.UUID) (decimal.NullDecimal, error) {
	records, err := models.RecordsForExpense(tx, tenantID, expenseTransactionID)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	return weightedRecordAge(records), nil
}

// AggregateAge returns the weighted average age in days of the money the
// tenant held as of the given date.
//
// This is the forward looking buffer health metric: each pool
// contributes the balance it had on that date, weighted by how long ago
// its income was received. The balance is reconstructed from the
// consumption records so that spending after asOf does not change the
// result, snapshot rebuilds depend on this. Without remaining money the
// null sentinel is returned.
func AggregateAge(tx *gorm.DB, tenantID uuid.UUID, asOf types.Date) (decimal.NullDecimal, error) {
	pools, err := models.PoolsAsOf(tx, tenantID, asOf)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	consumed, err := models.ConsumedByPool(tx, tenantID, asOf)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	var weighted, total decimal.Decimal
	for _, pool := range pools {
		remaining := pool.OriginalAmount.Sub(consumed[pool.ID])
		if !remaining.IsPositive() {
			continue
		}

		age := decimal.NewFromInt(int64(asOf.DaysSince(pool.IncomeDate)))
		weighted = weighted.Add(remaining.Mul(age))
		total = total.Add(remaining)
	}

	if !total.IsPositive() {
		return decimal.NullDecimal{}, nil
	}

	return decimal.NewNullDecimal(weighted.Div(total)), nil
}

// Lineage returns the audit trail of an expense: the ordered list of
// pools it consumed, oldest money first.
func Lineage(tx *gorm.DB, tenantID, expenseTransactionID uuid.UUID) ([]LineageEntry, error) {
	records, err := models.RecordsForExpense(tx, tenantID, expenseTransactionID)
	if err != nil {
		return nil, err
	}

	entries := make([]LineageEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, LineageEntry{
			PoolID:     record.PoolID,
			IncomeDate: record.Date.AddDays(-record.AgeDays),
			Amount:     record.Amount,
			AgeDays:    record.AgeDays,
		})
	}

	return entries, nil
}

// weightedRecordAge computes the amount-weighted average age over a set
// of consumption records. The null sentinel is returned for an empty set.
func weightedRecordAge(records []models.ConsumptionRecord) decimal.NullDecimal {
	var weighted, total decimal.Decimal
	for _, record := range records {
		weighted = weighted.Add(record.Amount.Mul(decimal.NewFromInt(int64(record.AgeDays))))
		total = total.Add(record.Amount)
	}

	if !total.IsPositive() {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(weighted.Div(total))
}
