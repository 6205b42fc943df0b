package moneyage

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/types"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// PeriodStart returns the start of the period of the given granularity
// that contains the date. Weeks start on Monday.
func PeriodStart(granularity models.SnapshotGranularity, date types.Date) types.Date {
	switch granularity {
	case models.GranularityWeekly:
		offset := (int(time.Time(date).Weekday()) + 6) % 7
		return date.AddDays(-offset)
	case models.GranularityMonthly:
		return types.MonthOf(date).FirstDay()
	default:
		return date
	}
}

// periodEnd returns the exclusive end of the period starting at start.
func periodEnd(granularity models.SnapshotGranularity, start types.Date) types.Date {
	switch granularity {
	case models.GranularityWeekly:
		return start.AddDays(7)
	case models.GranularityMonthly:
		return types.MonthOf(start).AddDate(0, 1).FirstDay()
	default:
		return start.AddDays(1)
	}
}

// ClosedPeriodStart returns the start of the most recently closed period
// of the given granularity as of the date. This is the period the
// scheduler snapshots when it fires.
func ClosedPeriodStart(granularity models.SnapshotGranularity, asOf types.Date) types.Date {
	switch granularity {
	case models.GranularityWeekly:
		return PeriodStart(granularity, asOf).AddDays(-7)
	case models.GranularityMonthly:
		return types.MonthOf(asOf).AddDate(0, -1).FirstDay()
	default:
		return asOf.AddDays(-1)
	}
}

// BuildSnapshot computes and stores the snapshot of one period for the
// tenant.
//
// Snapshots are append-only: building a period that already has a
// snapshot writes a new one with the next sequence number, superseding
// but not overwriting the old one.
func BuildSnapshot(db *gorm.DB, tenantID uuid.UUID, granularity models.SnapshotGranularity, periodStart types.Date) (models.AgeSnapshot, error) {
	settings, err := models.SettingsForTenant(db, tenantID)
	if err != nil {
		return models.AgeSnapshot{}, err
	}

	end := periodEnd(granularity, periodStart)

	records, err := models.RecordsInRange(db, tenantID, periodStart, end)
	if err != nil {
		return models.AgeSnapshot{}, err
	}

	snapshot := models.AgeSnapshot{
		TenantID:       tenantID,
		Granularity:    granularity,
		PeriodStart:    periodStart,
		AverageAgeDays: weightedRecordAge(records),
		MedianAgeDays:  medianRecordAge(records),
	}

	for _, record := range records {
		if snapshot.MinAgeDays == nil || record.AgeDays < *snapshot.MinAgeDays {
			age := record.AgeDays
			snapshot.MinAgeDays = &age
		}

		if snapshot.MaxAgeDays == nil || record.AgeDays > *snapshot.MaxAgeDays {
			age := record.AgeDays
			snapshot.MaxAgeDays = &age
		}

		switch classifyAgeDays(settings, record.AgeDays) {
		case TierVeryHealthy:
			snapshot.TierCounts.VeryHealthy++
		case TierHealthy:
			snapshot.TierCounts.Healthy++
		case TierFair:
			snapshot.TierCounts.Fair++
		case TierLow:
			snapshot.TierCounts.Low++
		case TierTight:
			snapshot.TierCounts.Tight++
		case TierPaycheckToPaycheck:
			snapshot.TierCounts.PaycheckToPaycheck++
		}
	}

	snapshot.CategoryBreakdown, err = categoryBreakdown(db, tenantID, records)
	if err != nil {
		return models.AgeSnapshot{}, err
	}

	snapshot.MonthlyBreakdown = monthlyBreakdown(records)

	// The aggregate age describes the money still held on the last day
	// of the period.
	snapshot.AggregateAgeDays, err = AggregateAge(db, tenantID, end.AddDays(-1))
	if err != nil {
		return models.AgeSnapshot{}, err
	}

	snapshot.Sequence, err = models.NextSequence(db, tenantID, granularity, periodStart)
	if err != nil {
		return models.AgeSnapshot{}, err
	}

	err = db.Create(&snapshot).Error
	if err != nil {
		return models.AgeSnapshot{}, err
	}

	snapshotsBuilt.WithLabelValues(string(granularity)).Inc()

	return snapshot, nil
}

// RefreshSnapshots rebuilds every existing snapshot period of the tenant
// that overlaps history from the given date on. The recalculation engine
// calls this after a successful pass so trend data reflects the replayed
// history.
func RefreshSnapshots(db *gorm.DB, tenantID uuid.UUID, from types.Date) error {
	for _, granularity := range []models.SnapshotGranularity{
		models.GranularityDaily,
		models.GranularityWeekly,
		models.GranularityMonthly,
	} {
		var periods []types.Date

		err := db.
			Model(&models.AgeSnapshot{}).
			Where("tenant_id = ? AND granularity = ?", tenantID, granularity).
			Where("period_start >= ?", PeriodStart(granularity, from)).
			Distinct().
			Pluck("period_start", &periods).Error
		if err != nil {
			return err
		}

		for _, period := range periods {
			_, err = BuildSnapshot(db, tenantID, granularity, period)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// BuildDueSnapshots snapshots the just-closed period of the granularity
// for every tenant that enabled it. The scheduler calls this when the
// granularity's cron expression fires.
func BuildDueSnapshots(db *gorm.DB, granularity models.SnapshotGranularity) {
	var column string
	switch granularity {
	case models.GranularityDaily:
		column = "snapshots_daily"
	case models.GranularityWeekly:
		column = "snapshots_weekly"
	case models.GranularityMonthly:
		column = "snapshots_monthly"
	default:
		return
	}

	var settings []models.AgeSettings
	err := db.Where(column+" = ?", true).Find(&settings).Error
	if err != nil {
		log.Error().Err(err).Msg("could not load snapshot settings")
		return
	}

	period := ClosedPeriodStart(granularity, types.Today())

	for _, tenant := range settings {
		_, err = BuildSnapshot(db, tenant.TenantID, granularity, period)
		if err != nil {
			log.Error().Str("tenant", tenant.TenantID.String()).Err(err).Msg("could not build snapshot")
		}
	}
}

// medianRecordAge returns the median age over the records, the null
// sentinel for an empty set. An even count averages the two middle ages.
func medianRecordAge(records []models.ConsumptionRecord) decimal.NullDecimal {
	if len(records) == 0 {
		return decimal.NullDecimal{}
	}

	ages := make([]int, 0, len(records))
	for _, record := range records {
		ages = append(ages, record.AgeDays)
	}
	slices.Sort(ages)

	middle := len(ages) / 2
	if len(ages)%2 == 1 {
		return decimal.NewNullDecimal(decimal.NewFromInt(int64(ages[middle])))
	}

	sum := decimal.NewFromInt(int64(ages[middle-1] + ages[middle]))
	return decimal.NewNullDecimal(sum.Div(decimal.NewFromInt(2)))
}

// categoryBreakdown aggregates the records by the category of their
// expense transaction.
func categoryBreakdown(db *gorm.DB, tenantID uuid.UUID, records []models.ConsumptionRecord) ([]models.CategoryAggregate, error) {
	categories := make(map[uuid.UUID]uuid.UUID)

	type bucket struct {
		amount   decimal.Decimal
		weighted decimal.Decimal
	}
	buckets := make(map[uuid.UUID]*bucket)

	for _, record := range records {
		category, ok := categories[record.ExpenseTransactionID]
		if !ok {
			transaction, err := models.TransactionByExternalID(db, tenantID, record.ExpenseTransactionID)
			if err != nil && !errors.Is(err, models.ErrResourceNotFound) {
				return nil, err
			}

			category = transaction.CategoryID
			categories[record.ExpenseTransactionID] = category
		}

		b, ok := buckets[category]
		if !ok {
			b = &bucket{}
			buckets[category] = b
		}

		b.amount = b.amount.Add(record.Amount)
		b.weighted = b.weighted.Add(record.Amount.Mul(decimal.NewFromInt(int64(record.AgeDays))))
	}

	aggregates := make([]models.CategoryAggregate, 0, len(buckets))
	for category, b := range buckets {
		aggregates = append(aggregates, models.CategoryAggregate{
			CategoryID:     category,
			Amount:         b.amount,
			AverageAgeDays: b.weighted.Div(b.amount),
		})
	}

	slices.SortFunc(aggregates, func(a, b models.CategoryAggregate) int {
		return strings.Compare(a.CategoryID.String(), b.CategoryID.String())
	})

	return aggregates, nil
}

// monthlyBreakdown aggregates the records by the calendar month of the
// consumption date. Daily snapshots have at most one entry, weekly and
// monthly snapshots get one entry per month the period touches.
func monthlyBreakdown(records []models.ConsumptionRecord) []models.MonthAggregate {
	type bucket struct {
		amount   decimal.Decimal
		weighted decimal.Decimal
	}
	buckets := make(map[types.Month]*bucket)

	for _, record := range records {
		month := types.MonthOf(record.Date)

		b, ok := buckets[month]
		if !ok {
			b = &bucket{}
			buckets[month] = b
		}

		b.amount = b.amount.Add(record.Amount)
		b.weighted = b.weighted.Add(record.Amount.Mul(decimal.NewFromInt(int64(record.AgeDays))))
	}

	aggregates := make([]models.MonthAggregate, 0, len(buckets))
	for month, b := range buckets {
		aggregates = append(aggregates, models.MonthAggregate{
			Month:          month,
			Amount:         b.amount,
			AverageAgeDays: b.weighted.Div(b.amount),
		})
	}

	slices.SortFunc(aggregates, func(a, b models.MonthAggregate) int {
		return strings.Compare(a.Month.String(), b.Month.String())
	})

	return aggregates
}
