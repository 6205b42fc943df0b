package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ConsumptionStrategy selects how expenses are allocated to pools.
//
// FIFO is the only implemented strategy. LIFO and WEIGHTED_AVERAGE are
// reserved names, writing them is rejected until their rollback and
// health semantics are specified.
//
// swagger:enum ConsumptionStrategy
type ConsumptionStrategy string

const (
	StrategyFIFO            ConsumptionStrategy = "FIFO"
	StrategyLIFO            ConsumptionStrategy = "LIFO"
	StrategyWeightedAverage ConsumptionStrategy = "WEIGHTED_AVERAGE"
)

// AgeSettings holds the per-tenant configuration of the engine.
//
// The five threshold fields are the lower bounds of the upper five health
// tiers in days. The sixth tier has an implicit lower bound of zero, so
// any monotonic set of thresholds classifies every age.
type AgeSettings struct {
	DefaultModel
	TenantID uuid.UUID           `json:"tenantId" gorm:"uniqueIndex"` // The tenant these settings belong to
	Strategy ConsumptionStrategy `json:"strategy" example:"FIFO" default:"FIFO"`

	VeryHealthyDays int `json:"veryHealthyDays" example:"60" default:"60"` // Minimum age for "very healthy"
	HealthyDays     int `json:"healthyDays" example:"30" default:"30"`     // Minimum age for "healthy"
	FairDays        int `json:"fairDays" example:"14" default:"14"`        // Minimum age for "fair"
	LowDays         int `json:"lowDays" example:"7" default:"7"`           // Minimum age for "low"
	TightDays       int `json:"tightDays" example:"3" default:"3"`         // Minimum age for "tight", below is "paycheck to paycheck"

	SnapshotsDaily   bool `json:"snapshotsDaily" example:"false" default:"false"` // Take a snapshot every day
	SnapshotsWeekly  bool `json:"snapshotsWeekly" example:"false" default:"false"` // Take a snapshot every week
	SnapshotsMonthly bool `json:"snapshotsMonthly" example:"true" default:"true"`  // Take a snapshot every month
}

// DefaultSettings returns the settings a tenant starts with.
func DefaultSettings(tenantID uuid.UUID) AgeSettings {
	return AgeSettings{
		TenantID:         tenantID,
		Strategy:         StrategyFIFO,
		VeryHealthyDays:  60,
		HealthyDays:      30,
		FairDays:         14,
		LowDays:          7,
		TightDays:        3,
		SnapshotsMonthly: true,
	}
}

// BeforeSave validates the settings at write time so that broken
// thresholds can never reach the classifier.
func (s *AgeSettings) BeforeSave(_ *gorm.DB) error {
	if s.Strategy != StrategyFIFO {
		return ErrStrategyNotSupported
	}

	monotonic := s.VeryHealthyDays > s.HealthyDays &&
		s.HealthyDays > s.FairDays &&
		s.FairDays > s.LowDays &&
		s.LowDays > s.TightDays &&
		s.TightDays >= 1

	if !monotonic {
		return ErrThresholdsInvalid
	}

	return nil
}

// SettingsForTenant returns the settings of the tenant, creating them
// with defaults on first use.
func SettingsForTenant(tx *gorm.DB, tenantID uuid.UUID) (AgeSettings, error) {
	settings := DefaultSettings(tenantID)

	err := tx.Where(&AgeSettings{TenantID: tenantID}).FirstOrCreate(&settings).Error
	if err != nil {
		return AgeSettings{}, err
	}

	return settings, nil
}
