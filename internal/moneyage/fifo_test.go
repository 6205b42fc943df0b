package moneyage_test

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/moneyage"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TestAllocateSinglePool checks the simplest allocation: one pool, one
// expense two weeks later.
func (suite *TestSuiteStandard) TestAllocateSinglePool() {
	tenant := uuid.New()
	day0 := types.NewDate(2024, 6, 1)

	_ = suite.commit(tenant, models.KindIncome, "8000", day0)
	expense := suite.commit(tenant, models.KindExpense, "2000", day0.AddDays(14))

	records, err := models.RecordsForExpense(models.DB, tenant, expense.ID)
	require.Nil(suite.T(), err)
	require.Len(suite.T(), records, 1)

	assert.True(suite.T(), records[0].Amount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(suite.T(), 14, records[0].AgeDays)

	age, err := moneyage.TransactionAge(models.DB, tenant, expense.ID)
	require.Nil(suite.T(), err)
	require.True(suite.T(), age.Valid)
	assert.True(suite.T(), age.Decimal.Equal(decimal.NewFromInt(14)))
}

// TestAllocateStraddlesPools checks an expense drawing on two pools:
// oldest money first, each record aged against its own pool.
func (suite *TestSuiteStandard) TestAllocateStraddlesPools() {
	tenant := uuid.New()
	day0 := types.NewDate(2024, 6, 1)

	// First pool is drawn down to 500 before the second income arrives
	_ = suite.commit(tenant, models.KindIncome, "2000", day0.AddDays(-45))
	_ = suite.commit(tenant, models.KindExpense, "1500", day0.AddDays(-40))
	_ = suite.commit(tenant, models.KindIncome, "8000", day0.AddDays(-15))

	expense := suite.commit(tenant, models.KindExpense, "1500", day0)

	records, err := models.RecordsForExpense(models.DB, tenant, expense.ID)
	require.Nil(suite.T(), err)
	require.Len(suite.T(), records, 2)

	assert.True(suite.T(), records[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(suite.T(), 45, records[0].AgeDays)
	assert.True(suite.T(), records[1].Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(suite.T(), 15, records[1].AgeDays)

	// (500*45 + 1000*15) / 1500 = 25
	age, err := moneyage.TransactionAge(models.DB, tenant, expense.ID)
	require.Nil(suite.T(), err)
	require.True(suite.T(), age.Valid)
	assert.True(suite.T(), age.Decimal.Equal(decimal.NewFromInt(25)))
}

// TestAllocateNoAvailableFunds checks that an expense exceeding the
// tracked income fails atomically, without partial allocation.
func (suite *TestSuiteStandard) TestAllocateNoAvailableFunds() {
	tenant := uuid.New()
	day0 := types.NewDate(2024, 6, 1)

	_ = suite.commit(tenant, models.KindIncome, "100", day0)

	event := moneyage.Event{
		Type:     moneyage.EventCommitted,
		ID:       uuid.New(),
		TenantID: tenant,
		Kind:     models.KindExpense,
		Amount:   decimal.NewFromInt(150),
		Date:     day0.AddDays(5),
	}

	err := moneyage.HandleEvent(models.DB, event)
	assert.ErrorIs(suite.T(), err, models.ErrNoAvailableFunds)

	// The journal write and the allocation roll back together
	_, err = models.TransactionByExternalID(models.DB, tenant, event.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)

	records, err := models.RecordsForExpense(models.DB, tenant, event.ID)
	require.Nil(suite.T(), err)
	assert.Len(suite.T(), records, 0)

	pools, err := models.ActivePools(models.DB, tenant, day0.AddDays(5))
	require.Nil(suite.T(), err)
	require.Len(suite.T(), pools, 1)
	assert.True(suite.T(), pools[0].RemainingAmount.Equal(decimal.NewFromInt(100)))
}

// TestAllocateNoPools checks the expense against an empty tenant.
func (suite *TestSuiteStandard) TestAllocateNoPools() {
	tenant := uuid.New()

	event := moneyage.Event{
		Type:     moneyage.EventCommitted,
		ID:       uuid.New(),
		TenantID: tenant,
		Kind:     models.KindExpense,
		Amount:   decimal.NewFromInt(10),
		Date:     types.NewDate(2024, 6, 1),
	}

	err := moneyage.HandleEvent(models.DB, event)
	assert.ErrorIs(suite.T(), err, models.ErrNoAvailableFunds)
}

// TestAllocationConservation exhausts a 10.00 pool with 1000 expenses of
// 0.01 and checks that no rounding drift accumulates.
func (suite *TestSuiteStandard) TestAllocationConservation() {
	tenant := uuid.New()
	day0 := types.NewDate(2024, 6, 1)
	cent := decimal.RequireFromString("0.01")

	income := models.LedgerTransaction{
		TenantID:   tenant,
		ExternalID: uuid.New(),
		Kind:       models.KindIncome,
		Amount:     decimal.RequireFromString("10.00"),
		Date:       day0,
	}
	require.Nil(suite.T(), models.DB.Create(&income).Error)

	pool, err := models.CreatePool(models.DB, income)
	require.Nil(suite.T(), err)

	err = models.DB.Transaction(func(tx *gorm.DB) error {
		for i := 0; i < 1000; i++ {
			expense := models.LedgerTransaction{
				TenantID:   tenant,
				ExternalID: uuid.New(),
				Kind:       models.KindExpense,
				Amount:     cent,
				Date:       day0.AddDays(1),
			}

			err := tx.Create(&expense).Error
			if err != nil {
				return err
			}

			_, err = moneyage.AllocateExpense(tx, expense)
			if err != nil {
				return err
			}
		}

		return nil
	})
	require.Nil(suite.T(), err)

	var reloaded models.ResourcePool
	require.Nil(suite.T(), models.DB.First(&reloaded, "id = ?", pool.ID).Error)

	assert.True(suite.T(), reloaded.RemainingAmount.IsZero(), "remaining amount is %s", reloaded.RemainingAmount)
	assert.True(suite.T(), reloaded.ConsumedAmount.Equal(decimal.RequireFromString("10.00")))
	assert.True(suite.T(), reloaded.IsFullyConsumed)
	assert.Equal(suite.T(), 1000, reloaded.ConsumptionCount)

	// One more cent must now fail
	extra := models.LedgerTransaction{
		TenantID:   tenant,
		ExternalID: uuid.New(),
		Kind:       models.KindExpense,
		Amount:     cent,
		Date:       day0.AddDays(1),
	}
	require.Nil(suite.T(), models.DB.Create(&extra).Error)

	_, err = moneyage.AllocateExpense(models.DB, extra)
	assert.ErrorIs(suite.T(), err, models.ErrNoAvailableFunds)
}

// TestAllocationDeterminism rolls an allocation back and replays it
// against unchanged pool state, expecting identical records.
func (suite *TestSuiteStandard) TestAllocationDeterminism() {
	tenant := uuid.New()
	day0 := types.NewDate(2024, 6, 1)

	_ = suite.commit(tenant, models.KindIncome, "300", day0.AddDays(-30))
	_ = suite.commit(tenant, models.KindIncome, "700", day0.AddDays(-10))

	expense := models.LedgerTransaction{
		TenantID:   tenant,
		ExternalID: uuid.New(),
		Kind:       models.KindExpense,
		Amount:     decimal.NewFromInt(500),
		Date:       day0,
	}
	require.Nil(suite.T(), models.DB.Create(&expense).Error)

	first, err := moneyage.AllocateExpense(models.DB, expense)
	require.Nil(suite.T(), err)
	require.Len(suite.T(), first, 2)

	// Undo the allocation
	for i := len(first) - 1; i >= 0; i-- {
		record := first[i]

		var pool models.ResourcePool
		require.Nil(suite.T(), models.DB.First(&pool, "id = ?", record.PoolID).Error)
		require.Nil(suite.T(), pool.RollbackConsumption(models.DB, record))
		require.Nil(suite.T(), models.DB.Unscoped().Delete(&record).Error)
	}

	second, err := moneyage.AllocateExpense(models.DB, expense)
	require.Nil(suite.T(), err)
	require.Len(suite.T(), second, 2)

	for i := range first {
		assert.Equal(suite.T(), first[i].PoolID, second[i].PoolID)
		assert.True(suite.T(), first[i].Amount.Equal(second[i].Amount))
		assert.Equal(suite.T(), first[i].AgeDays, second[i].AgeDays)
	}
}
