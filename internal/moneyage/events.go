package moneyage

import (
	"errors"

	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EventType discriminates the transaction events the capture service
// delivers.
//
// swagger:enum EventType
type EventType string

const (
	EventCommitted EventType = "committed"
	EventEdited    EventType = "edited"
	EventDeleted   EventType = "deleted"
)

// Event is one transaction event from the capture service. These events
// are the sole triggers into the engine, both the HTTP ingestion endpoint
// and the AMQP worker deliver this shape.
type Event struct {
	Type       EventType              `json:"type" binding:"required,oneof=committed edited deleted"`
	ID         uuid.UUID              `json:"id" binding:"required"`       // Transaction ID in the capture service
	TenantID   uuid.UUID              `json:"tenantId" binding:"required"` // The tenant the transaction belongs to
	Kind       models.TransactionKind `json:"kind"`
	Amount     decimal.Decimal        `json:"amount"`
	Date       types.Date             `json:"date"`
	AccountID  uuid.UUID              `json:"accountId"`
	CategoryID uuid.UUID              `json:"categoryId"`
}

// transaction builds the journal entry an event describes.
func (e Event) transaction() models.LedgerTransaction {
	return models.LedgerTransaction{
		TenantID:   e.TenantID,
		ExternalID: e.ID,
		Kind:       e.Kind,
		Amount:     e.Amount,
		Date:       e.Date,
		AccountID:  e.AccountID,
		CategoryID: e.CategoryID,
	}
}

// HandleEvent applies one transaction event to the engine.
//
// The write path is serialized per tenant and runs in one database
// transaction, so pool creation and consumption are never observably
// separable from the journal write. Events touching history behind the
// latest consumption mark the tenant dirty and trigger a recalculation
// after the transaction committed.
func HandleEvent(db *gorm.DB, event Event) error {
	unlock := lockTenant(event.TenantID)
	defer unlock()

	var recalculate bool

	var err error
	switch event.Type {
	case EventCommitted:
		recalculate, err = handleCommitted(db, event)
	case EventEdited:
		recalculate, err = handleEdited(db, event)
	case EventDeleted:
		recalculate, err = handleDeleted(db, event)
	default:
		err = models.ErrKindInvalid
	}

	if err != nil {
		return err
	}

	eventsProcessed.WithLabelValues(string(event.Type)).Inc()

	if recalculate {
		return recalculateLocked(db, event.TenantID)
	}

	return nil
}

// handleCommitted journals a new transaction and applies it to the pools.
//
// A transaction dated on or before existing consumptions cannot be
// applied in place: the FIFO order of everything after it is stale. Such
// backdated commits go through the dirty watermark instead.
func handleCommitted(db *gorm.DB, event Event) (recalculate bool, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		transaction := event.transaction()
		err := tx.Create(&transaction).Error
		if err != nil {
			return err
		}

		backdated, err := affectsHistory(tx, event.TenantID, event.Date)
		if err != nil {
			return err
		}

		if backdated {
			recalculate = true
			_, err = markDirtyChecked(tx, event.TenantID, event.Date, false)
			return err
		}

		switch event.Kind {
		case models.KindIncome:
			_, err = models.CreatePool(tx, transaction)
		case models.KindExpense:
			_, err = AllocateExpense(tx, transaction)
		}

		return err
	})

	return recalculate, err
}

// handleEdited updates the journal entry and marks the tenant dirty from
// the earliest affected date, covering both the old and the new date of
// the transaction.
func handleEdited(db *gorm.DB, event Event) (bool, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		existing, err := models.TransactionByExternalID(tx, event.TenantID, event.ID)
		if err != nil {
			return err
		}

		from := existing.Date.Earliest(event.Date)

		existing.Kind = event.Kind
		existing.Amount = event.Amount
		existing.Date = event.Date
		existing.AccountID = event.AccountID
		existing.CategoryID = event.CategoryID

		err = tx.Save(&existing).Error
		if err != nil {
			return err
		}

		_, err = markDirtyChecked(tx, event.TenantID, from, false)
		return err
	})

	return err == nil, err
}

// handleDeleted removes the journal entry and marks the tenant dirty
// from its date. The journal row is removed for good so that the same
// external ID can be committed again later.
func handleDeleted(db *gorm.DB, event Event) (bool, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		existing, err := models.TransactionByExternalID(tx, event.TenantID, event.ID)
		if err != nil {
			return err
		}

		err = tx.Unscoped().Delete(&existing).Error
		if err != nil {
			return err
		}

		_, err = markDirtyChecked(tx, event.TenantID, existing.Date, false)
		return err
	})

	return err == nil, err
}

// affectsHistory reports whether applying a transaction with the given
// date in place would invalidate existing state: any consumption on or
// after the date, or any pool created on or after it.
func affectsHistory(tx *gorm.DB, tenantID uuid.UUID, date types.Date) (bool, error) {
	var count int64

	err := tx.
		Model(&models.ConsumptionRecord{}).
		Where("tenant_id = ? AND date >= ?", tenantID, date).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	if count > 0 {
		return true, nil
	}

	err = tx.
		Model(&models.ResourcePool{}).
		Where("tenant_id = ? AND income_date >= ?", tenantID, date).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// recalculateLocked runs a recalculation for a tenant whose lock the
// caller already holds. A failed pass leaves the tenant dirty, logs the
// failure and reports it to the caller for retry.
func recalculateLocked(db *gorm.DB, tenantID uuid.UUID) error {
	err := recalculate(db, tenantID)
	if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
		log.Error().Str("tenant", tenantID.String()).Err(err).Msg("recalculation failed")
	}

	return err
}
