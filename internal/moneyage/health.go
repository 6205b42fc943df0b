package moneyage

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// HealthTier is one of six ordered bands classifying a money age value.
//
// swagger:enum HealthTier
type HealthTier string

const (
	TierVeryHealthy        HealthTier = "VERY_HEALTHY"
	TierHealthy            HealthTier = "HEALTHY"
	TierFair               HealthTier = "FAIR"
	TierLow                HealthTier = "LOW"
	TierTight              HealthTier = "TIGHT"
	TierPaycheckToPaycheck HealthTier = "PAYCHECK_TO_PAYCHECK"
)

// ClassifyAge maps an age in days to a health tier using the tenant's
// thresholds. The thresholds are the lower bounds of the upper five
// tiers, everything below the lowest threshold is paycheck to paycheck,
// so the mapping is exhaustive for any non-negative age.
func ClassifyAge(settings models.AgeSettings, ageDays decimal.Decimal) HealthTier {
	switch {
	case ageDays.GreaterThanOrEqual(decimal.NewFromInt(int64(settings.VeryHealthyDays))):
		return TierVeryHealthy
	case ageDays.GreaterThanOrEqual(decimal.NewFromInt(int64(settings.HealthyDays))):
		return TierHealthy
	case ageDays.GreaterThanOrEqual(decimal.NewFromInt(int64(settings.FairDays))):
		return TierFair
	case ageDays.GreaterThanOrEqual(decimal.NewFromInt(int64(settings.LowDays))):
		return TierLow
	case ageDays.GreaterThanOrEqual(decimal.NewFromInt(int64(settings.TightDays))):
		return TierTight
	default:
		return TierPaycheckToPaycheck
	}
}

// classifyAgeDays is ClassifyAge for the integer record ages.
func classifyAgeDays(settings models.AgeSettings, ageDays int) HealthTier {
	return ClassifyAge(settings, decimal.NewFromInt(int64(ageDays)))
}

// Health returns the tenant's aggregate money age as of the given date
// and its health tier. Without any active pools the age is the null
// sentinel and the tier is empty.
func Health(tx *gorm.DB, tenantID uuid.UUID, asOf types.Date) (decimal.NullDecimal, HealthTier, error) {
	age, err := AggregateAge(tx, tenantID, asOf)
	if err != nil {
		return decimal.NullDecimal{}, "", err
	}

	if !age.Valid {
		return age, "", nil
	}

	settings, err := models.SettingsForTenant(tx, tenantID)
	if err != nil {
		return decimal.NullDecimal{}, "", err
	}

	return age, ClassifyAge(settings, age.Decimal), nil
}
