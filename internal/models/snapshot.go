package models

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SnapshotGranularity is the period length of a snapshot.
//
// swagger:enum SnapshotGranularity
type SnapshotGranularity string

const (
	GranularityDaily   SnapshotGranularity = "DAILY"
	GranularityWeekly  SnapshotGranularity = "WEEKLY"
	GranularityMonthly SnapshotGranularity = "MONTHLY"
)

// TierCounts is the distribution of consumption record ages over the
// health tiers within a snapshot period.
type TierCounts struct {
	VeryHealthy        int `json:"veryHealthy"`
	Healthy            int `json:"healthy"`
	Fair               int `json:"fair"`
	Low                int `json:"low"`
	Tight              int `json:"tight"`
	PaycheckToPaycheck int `json:"paycheckToPaycheck"`
}

// CategoryAggregate is the per-category slice of a snapshot.
type CategoryAggregate struct {
	CategoryID     uuid.UUID       `json:"categoryId"`
	Amount         decimal.Decimal `json:"amount"`         // Total amount consumed for the category in the period
	AverageAgeDays decimal.Decimal `json:"averageAgeDays"` // Amount-weighted average age of that money
}

// MonthAggregate is the per-month slice of a snapshot. Only weekly and
// monthly snapshots that span a month boundary have more than one entry.
type MonthAggregate struct {
	Month          types.Month     `json:"month"`
	Amount         decimal.Decimal `json:"amount"`
	AverageAgeDays decimal.Decimal `json:"averageAgeDays"`
}

// AgeSnapshot is the rollup of one tenant's money age for one period.
//
// Snapshots are append-only: recomputing a period creates a new snapshot
// with a higher sequence number that supersedes the previous one, the old
// snapshot is kept for auditability.
type AgeSnapshot struct {
	DefaultModel
	TenantID    uuid.UUID           `json:"tenantId" gorm:"index:age_snapshots_period"`    // The tenant this snapshot belongs to
	Granularity SnapshotGranularity `json:"granularity" gorm:"index:age_snapshots_period"` // DAILY, WEEKLY or MONTHLY
	PeriodStart types.Date          `json:"periodStart" gorm:"index:age_snapshots_period"` // First day of the period
	Sequence    int                 `json:"sequence" example:"1"`                          // Supersession counter, the highest sequence is current

	AggregateAgeDays decimal.NullDecimal `json:"aggregateAgeDays"` // Weighted age of money still held at period end, null without active pools
	AverageAgeDays   decimal.NullDecimal `json:"averageAgeDays"`   // Amount-weighted average age of money spent in the period, null without consumptions
	MedianAgeDays    decimal.NullDecimal `json:"medianAgeDays"`    // Median record age in the period
	MinAgeDays       *int                `json:"minAgeDays"`       // Youngest money spent in the period
	MaxAgeDays       *int                `json:"maxAgeDays"`       // Oldest money spent in the period

	TierCounts        TierCounts          `json:"tierCounts" gorm:"serializer:json"`        // Distribution of record ages over the health tiers
	CategoryBreakdown []CategoryAggregate `json:"categoryBreakdown" gorm:"serializer:json"` // Consumption by expense category
	MonthlyBreakdown  []MonthAggregate    `json:"monthlyBreakdown" gorm:"serializer:json"`  // Consumption by calendar month
}

// CurrentSnapshot returns the snapshot with the highest sequence for the
// period key.
func CurrentSnapshot(tx *gorm.DB, tenantID uuid.UUID, granularity SnapshotGranularity, periodStart types.Date) (AgeSnapshot, error) {
	var snapshot AgeSnapshot

	err := tx.
		Where("tenant_id = ? AND granularity = ? AND period_start = ?", tenantID, granularity, periodStart).
		Order("sequence DESC").
		First(&snapshot).Error

	return snapshot, err
}

// Snapshots returns the current snapshot of every period of the given
// granularity with a period start in [from, until], oldest first.
// Superseded snapshots are filtered out.
func Snapshots(tx *gorm.DB, tenantID uuid.UUID, granularity SnapshotGranularity, from, until types.Date) ([]AgeSnapshot, error) {
	var snapshots []AgeSnapshot

	err := tx.
		Where("tenant_id = ? AND granularity = ?", tenantID, granularity).
		Where("period_start >= ? AND period_start <= ?", from, until).
		Where(`sequence = (
			SELECT MAX(sequence) FROM age_snapshots s
			WHERE s.tenant_id = age_snapshots.tenant_id
			AND s.granularity = age_snapshots.granularity
			AND s.period_start = age_snapshots.period_start
			AND s.deleted_at IS NULL
		)`).
		Order("period_start ASC").
		Find(&snapshots).Error

	return snapshots, err
}

// NextSequence returns the sequence number a new snapshot for the period
// key must use.
func NextSequence(tx *gorm.DB, tenantID uuid.UUID, granularity SnapshotGranularity, periodStart types.Date) (int, error) {
	var current int

	err := tx.
		Model(&AgeSnapshot{}).
		Where("tenant_id = ? AND granularity = ? AND period_start = ?", tenantID, granularity, periodStart).
		Select("COALESCE(MAX(sequence), 0)").
		Row().
		Scan(&current)
	if err != nil {
		return 0, err
	}

	return current + 1, nil
}
