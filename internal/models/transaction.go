package models

import (
	"errors"

	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionKind discriminates income from expense transactions.
//
// swagger:enum TransactionKind
type TransactionKind string

const (
	KindIncome  TransactionKind = "INCOME"
	KindExpense TransactionKind = "EXPENSE"
)

// LedgerTransaction is the engine's journal of a transaction as delivered
// by the capture service.
//
// The journal exists so that the incremental recalculation engine can
// replay the affected tail of history without calling back into the
// capture service. It is not a general ledger: it holds exactly what the
// events carried.
type LedgerTransaction struct {
	DefaultModel
	TenantID   uuid.UUID       `json:"tenantId" gorm:"uniqueIndex:ledger_transactions_external"`                        // The tenant this transaction belongs to
	ExternalID uuid.UUID       `json:"externalId" gorm:"uniqueIndex:ledger_transactions_external"`                      // ID of the transaction in the capture service
	Kind       TransactionKind `json:"kind" example:"EXPENSE"`                                                          // INCOME or EXPENSE
	Amount     decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"14.03"`                                // The transaction amount, always positive
	Date       types.Date      `json:"date" example:"2024-03-17T00:00:00Z"`                                             // The effective date of the transaction
	AccountID  uuid.UUID       `json:"accountId" example:"fd81dc45-a3a2-468e-a6fa-b2618f30aa45"`                        // Account reference from the capture service
	CategoryID uuid.UUID       `json:"categoryId" example:"8e16b456-a719-48ce-9fec-e115cfa7cbcc"`                       // Category reference from the capture service
}

// BeforeSave validates the transaction. Validation failures reject the
// write before anything is mutated.
func (t *LedgerTransaction) BeforeSave(_ *gorm.DB) error {
	if t.Kind != KindIncome && t.Kind != KindExpense {
		return ErrKindInvalid
	}

	if !t.Amount.IsPositive() {
		return ErrAmountNotPositive
	}

	if t.Date.IsZero() {
		return ErrDateNotSet
	}

	return nil
}

// TransactionByExternalID returns the journal entry for a capture-service
// transaction ID.
func TransactionByExternalID(tx *gorm.DB, tenantID, externalID uuid.UUID) (LedgerTransaction, error) {
	var transaction LedgerTransaction
	err := tx.Where(&LedgerTransaction{TenantID: tenantID, ExternalID: externalID}).First(&transaction).Error
	return transaction, err
}

// TransactionsFrom returns all journal entries of a tenant with a date at
// or after the given date, in replay order: date ascending, ties broken by
// external ID so that a replay is reproducible.
func TransactionsFrom(tx *gorm.DB, tenantID uuid.UUID, from types.Date, kind TransactionKind) ([]LedgerTransaction, error) {
	var transactions []LedgerTransaction

	err := tx.
		Where("tenant_id = ?", tenantID).
		Where("kind = ?", kind).
		Where("date >= ?", from).
		Order("date ASC, external_id ASC").
		Find(&transactions).Error

	return transactions, err
}

// EarliestTransactionDate returns the date of the tenant's first journal
// entry. The second return value is false when the journal is empty.
func EarliestTransactionDate(tx *gorm.DB, tenantID uuid.UUID) (types.Date, bool, error) {
	var transaction LedgerTransaction

	err := tx.
		Where("tenant_id = ?", tenantID).
		Order("date ASC").
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return types.Date{}, false, nil
		}
		return types.Date{}, false, err
	}

	return transaction.Date, true, nil
}
