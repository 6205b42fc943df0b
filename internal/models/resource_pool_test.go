package models_test

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestCreatePool() {
	tenant := uuid.New()
	income := suite.createTestIncome(tenant, 2400, types.NewDate(2024, 3, 1))

	pool, err := models.CreatePool(models.DB, income)
	require.Nil(suite.T(), err)

	assert.True(suite.T(), pool.OriginalAmount.Equal(decimal.NewFromInt(2400)))
	assert.True(suite.T(), pool.RemainingAmount.Equal(decimal.NewFromInt(2400)))
	assert.True(suite.T(), pool.ConsumedAmount.IsZero())
	assert.True(suite.T(), pool.IncomeDate.Equal(income.Date))
	assert.False(suite.T(), pool.IsFullyConsumed)
	assert.Nil(suite.T(), pool.FirstConsumedDate)
	assert.Nil(suite.T(), pool.FullyConsumedDate)
}

func (suite *TestSuiteStandard) TestCreatePoolDuplicateIncome() {
	tenant := uuid.New()
	income := suite.createTestIncome(tenant, 100, types.NewDate(2024, 3, 1))

	_, err := models.CreatePool(models.DB, income)
	require.Nil(suite.T(), err)

	_, err = models.CreatePool(models.DB, income)
	assert.ErrorIs(suite.T(), err, models.ErrDuplicateIncome)
}

func (suite *TestSuiteStandard) TestCreatePoolRejectsExpense() {
	expense := suite.createTestTransaction(models.LedgerTransaction{
		TenantID: uuid.New(),
		Kind:     models.KindExpense,
		Amount:   decimal.NewFromFloat(10),
		Date:     types.NewDate(2024, 3, 1),
	})

	_, err := models.CreatePool(models.DB, expense)
	assert.ErrorIs(suite.T(), err, models.ErrKindInvalid)
}

func (suite *TestSuiteStandard) TestActivePools() {
	tenant := uuid.New()

	march := suite.createTestPool(tenant, 100, types.NewDate(2024, 3, 1))
	january := suite.createTestPool(tenant, 100, types.NewDate(2024, 1, 1))
	february := suite.createTestPool(tenant, 100, types.NewDate(2024, 2, 1))

	// A pool in another tenant and a future pool must not show up
	_ = suite.createTestPool(uuid.New(), 100, types.NewDate(2024, 1, 1))
	_ = suite.createTestPool(tenant, 100, types.NewDate(2024, 6, 1))

	// An exhausted pool must not show up either
	drained := suite.createTestPool(tenant, 50, types.NewDate(2024, 1, 15))
	require.Nil(suite.T(), drained.ApplyConsumption(models.DB, decimal.NewFromInt(50), types.NewDate(2024, 1, 20)))

	pools, err := models.ActivePools(models.DB, tenant, types.NewDate(2024, 3, 15))
	require.Nil(suite.T(), err)
	require.Len(suite.T(), pools, 3)

	assert.Equal(suite.T(), january.ID, pools[0].ID)
	assert.Equal(suite.T(), february.ID, pools[1].ID)
	assert.Equal(suite.T(), march.ID, pools[2].ID)
}

func (suite *TestSuiteStandard) TestActivePoolsSameDayOrder() {
	tenant := uuid.New()
	date := types.NewDate(2024, 5, 1)

	first := suite.createTestPool(tenant, 100, date)
	second := suite.createTestPool(tenant, 100, date)

	pools, err := models.ActivePools(models.DB, tenant, date)
	require.Nil(suite.T(), err)
	require.Len(suite.T(), pools, 2)

	// Same-day pools are ordered by ID so allocation stays reproducible
	want := []uuid.UUID{first.ID, second.ID}
	if second.ID.String() < first.ID.String() {
		want = []uuid.UUID{second.ID, first.ID}
	}
	assert.Equal(suite.T(), want[0], pools[0].ID)
	assert.Equal(suite.T(), want[1], pools[1].ID)
}

func (suite *TestSuiteStandard) TestApplyConsumption() {
	tenant := uuid.New()
	pool := suite.createTestPool(tenant, 100, types.NewDate(2024, 3, 1))

	err := pool.ApplyConsumption(models.DB, decimal.NewFromInt(30), types.NewDate(2024, 3, 10))
	require.Nil(suite.T(), err)

	assert.True(suite.T(), pool.RemainingAmount.Equal(decimal.NewFromInt(70)))
	assert.True(suite.T(), pool.ConsumedAmount.Equal(decimal.NewFromInt(30)))
	assert.Equal(suite.T(), 1, pool.ConsumptionCount)
	require.NotNil(suite.T(), pool.FirstConsumedDate)
	assert.True(suite.T(), pool.FirstConsumedDate.Equal(types.NewDate(2024, 3, 10)))
	assert.True(suite.T(), pool.LastConsumedDate.Equal(types.NewDate(2024, 3, 10)))
	assert.False(suite.T(), pool.IsFullyConsumed)

	err = pool.ApplyConsumption(models.DB, decimal.NewFromInt(70), types.NewDate(2024, 3, 20))
	require.Nil(suite.T(), err)

	assert.True(suite.T(), pool.RemainingAmount.IsZero())
	assert.True(suite.T(), pool.IsFullyConsumed)
	require.NotNil(suite.T(), pool.FullyConsumedDate)
	assert.True(suite.T(), pool.FullyConsumedDate.Equal(types.NewDate(2024, 3, 20)))
	assert.True(suite.T(), pool.LastConsumedDate.Equal(types.NewDate(2024, 3, 20)))
	assert.Equal(suite.T(), 2, pool.ConsumptionCount)
}

func (suite *TestSuiteStandard) TestApplyConsumptionInsufficient() {
	tenant := uuid.New()
	pool := suite.createTestPool(tenant, 10, types.NewDate(2024, 3, 1))

	err := pool.ApplyConsumption(models.DB, decimal.NewFromInt(11), types.NewDate(2024, 3, 10))
	assert.ErrorIs(suite.T(), err, models.ErrInsufficientPoolBalance)

	err = pool.ApplyConsumption(models.DB, decimal.Zero, types.NewDate(2024, 3, 10))
	assert.ErrorIs(suite.T(), err, models.ErrAmountNotPositive)

	// The pool is untouched after rejected consumptions
	assert.True(suite.T(), pool.RemainingAmount.Equal(decimal.NewFromInt(10)))
	assert.Equal(suite.T(), 0, pool.ConsumptionCount)
}

func (suite *TestSuiteStandard) TestRollbackConsumption() {
	tenant := uuid.New()
	pool := suite.createTestPool(tenant, 100, types.NewDate(2024, 3, 1))

	require.Nil(suite.T(), pool.ApplyConsumption(models.DB, decimal.NewFromInt(40), types.NewDate(2024, 3, 10)))
	first := suite.createTestRecord(models.ConsumptionRecord{
		TenantID:             tenant,
		PoolID:               pool.ID,
		ExpenseTransactionID: uuid.New(),
		Amount:               decimal.NewFromInt(40),
		Date:                 types.NewDate(2024, 3, 10),
		AgeDays:              9,
	})

	require.Nil(suite.T(), pool.ApplyConsumption(models.DB, decimal.NewFromInt(60), types.NewDate(2024, 3, 20)))
	second := suite.createTestRecord(models.ConsumptionRecord{
		TenantID:             tenant,
		PoolID:               pool.ID,
		ExpenseTransactionID: uuid.New(),
		Amount:               decimal.NewFromInt(60),
		Date:                 types.NewDate(2024, 3, 20),
		AgeDays:              19,
	})

	require.True(suite.T(), pool.IsFullyConsumed)

	// Rolling back the later record reopens the pool and drops its dates
	err := pool.RollbackConsumption(models.DB, second)
	require.Nil(suite.T(), err)

	assert.True(suite.T(), pool.RemainingAmount.Equal(decimal.NewFromInt(60)))
	assert.True(suite.T(), pool.ConsumedAmount.Equal(decimal.NewFromInt(40)))
	assert.Equal(suite.T(), 1, pool.ConsumptionCount)
	assert.False(suite.T(), pool.IsFullyConsumed)
	assert.Nil(suite.T(), pool.FullyConsumedDate)
	require.NotNil(suite.T(), pool.FirstConsumedDate)
	assert.True(suite.T(), pool.FirstConsumedDate.Equal(types.NewDate(2024, 3, 10)))
	assert.True(suite.T(), pool.LastConsumedDate.Equal(types.NewDate(2024, 3, 10)))

	// Rolling back the remaining record restores the pristine pool
	err = pool.RollbackConsumption(models.DB, first)
	require.Nil(suite.T(), err)

	assert.True(suite.T(), pool.RemainingAmount.Equal(decimal.NewFromInt(100)))
	assert.True(suite.T(), pool.ConsumedAmount.IsZero())
	assert.Equal(suite.T(), 0, pool.ConsumptionCount)
	assert.Nil(suite.T(), pool.FirstConsumedDate)
	assert.Nil(suite.T(), pool.LastConsumedDate)
}

func (suite *TestSuiteStandard) TestRollbackConsumptionWrongPool() {
	tenant := uuid.New()
	pool := suite.createTestPool(tenant, 100, types.NewDate(2024, 3, 1))
	other := suite.createTestPool(tenant, 100, types.NewDate(2024, 4, 1))

	require.Nil(suite.T(), other.ApplyConsumption(models.DB, decimal.NewFromInt(10), types.NewDate(2024, 4, 5)))
	record := suite.createTestRecord(models.ConsumptionRecord{
		TenantID:             tenant,
		PoolID:               other.ID,
		ExpenseTransactionID: uuid.New(),
		Amount:               decimal.NewFromInt(10),
		Date:                 types.NewDate(2024, 4, 5),
		AgeDays:              4,
	})

	err := pool.RollbackConsumption(models.DB, record)
	assert.NotNil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestPoolBySource() {
	tenant := uuid.New()
	income := suite.createTestIncome(tenant, 100, types.NewDate(2024, 3, 1))

	created, err := models.CreatePool(models.DB, income)
	require.Nil(suite.T(), err)

	pool, err := models.PoolBySource(models.DB, tenant, income.ExternalID)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), created.ID, pool.ID)

	_, err = models.PoolBySource(models.DB, tenant, uuid.New())
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}
