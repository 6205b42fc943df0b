package moneyage_test

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/moneyage"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAggregateAge checks the buffer health metric over the remaining
// pool balances.
func (suite *TestSuiteStandard) TestAggregateAge() {
	tenant := uuid.New()
	day0 := types.NewDate(2024, 6, 1)

	_ = suite.commit(tenant, models.KindIncome, "1000", day0.AddDays(-30))
	_ = suite.commit(tenant, models.KindIncome, "3000", day0.AddDays(-10))

	// (1000*30 + 3000*10) / 4000 = 15
	age, err := moneyage.AggregateAge(models.DB, tenant, day0)
	require.Nil(suite.T(), err)
	require.True(suite.T(), age.Valid)
	assert.True(suite.T(), age.Decimal.Equal(decimal.NewFromInt(15)))

	// Spending shifts the weights: the old pool drops to 500.
	// (500*30 + 3000*10) / 3500 = 45000/3500
	_ = suite.commit(tenant, models.KindExpense, "500", day0)

	age, err = moneyage.AggregateAge(models.DB, tenant, day0)
	require.Nil(suite.T(), err)
	require.True(suite.T(), age.Valid)
	expected := decimal.NewFromInt(45000).Div(decimal.NewFromInt(3500))
	assert.True(suite.T(), age.Decimal.Equal(expected), "aggregate age is %s", age.Decimal)
}

// TestAggregateAgePastDate checks that the age for a past date reflects
// the balances of that day, not the current ones.
func (suite *TestSuiteStandard) TestAggregateAgePastDate() {
	tenant := uuid.New()
	day0 := types.NewDate(2024, 6, 1)

	_ = suite.commit(tenant, models.KindIncome, "1000", day0.AddDays(-30))
	_ = suite.commit(tenant, models.KindIncome, "1000", day0.AddDays(-20))
	_ = suite.commit(tenant, models.KindExpense, "1000", day0.AddDays(-5))

	// On day -10 both pools were still full:
	// (1000*20 + 1000*10) / 2000 = 15
	age, err := moneyage.AggregateAge(models.DB, tenant, day0.AddDays(-10))
	require.Nil(suite.T(), err)
	require.True(suite.T(), age.Valid)
	assert.True(suite.T(), age.Decimal.Equal(decimal.NewFromInt(15)), "aggregate age is %s", age.Decimal)
}

// TestAggregateAgeNoData checks the no-data sentinel: no pools must
// yield the null value, never zero, since zero is a valid same-day age.
func (suite *TestSuiteStandard) TestAggregateAgeNoData() {
	tenant := uuid.New()

	age, err := moneyage.AggregateAge(models.DB, tenant, types.Today())
	require.Nil(suite.T(), err)
	assert.False(suite.T(), age.Valid)

	// A fully consumed history also has no remaining balance
	day0 := types.NewDate(2024, 6, 1)
	_ = suite.commit(tenant, models.KindIncome, "100", day0)
	_ = suite.commit(tenant, models.KindExpense, "100", day0.AddDays(1))

	age, err = moneyage.AggregateAge(models.DB, tenant, day0.AddDays(2))
	require.Nil(suite.T(), err)
	assert.False(suite.T(), age.Valid)
}

// TestAggregateAgeSameDay checks that same-day income yields age zero,
// not the sentinel.
func (suite *TestSuiteStandard) TestAggregateAgeSameDay() {
	tenant := uuid.New()
	day0 := types.NewDate(2024, 6, 1)

	_ = suite.commit(tenant, models.KindIncome, "100", day0)

	age, err := moneyage.AggregateAge(models.DB, tenant, day0)
	require.Nil(suite.T(), err)
	require.True(suite.T(), age.Valid)
	assert.True(suite.T(), age.Decimal.IsZero())
}

// TestTransactionAgeNoData checks the sentinel for an unknown expense.
func (suite *TestSuiteStandard) TestTransactionAgeNoData() {
	age, err := moneyage.TransactionAge(models.DB, uuid.New(), uuid.New())
	require.Nil(suite.T(), err)
	assert.False(suite.T(), age.Valid)
}

// TestLineage checks the audit trail of a straddling expense.
func (suite *TestSuiteStandard) TestLineage() {
	tenant := uuid.New()
	day0 := types.NewDate(2024, 6, 1)

	_ = suite.commit(tenant, models.KindIncome, "300", day0.AddDays(-20))
	_ = suite.commit(tenant, models.KindIncome, "700", day0.AddDays(-5))
	expense := suite.commit(tenant, models.KindExpense, "400", day0)

	lineage, err := moneyage.Lineage(models.DB, tenant, expense.ID)
	require.Nil(suite.T(), err)
	require.Len(suite.T(), lineage, 2)

	assert.True(suite.T(), lineage[0].IncomeDate.Equal(day0.AddDays(-20)))
	assert.True(suite.T(), lineage[0].Amount.Equal(decimal.NewFromInt(300)))
	assert.Equal(suite.T(), 20, lineage[0].AgeDays)

	assert.True(suite.T(), lineage[1].IncomeDate.Equal(day0.AddDays(-5)))
	assert.True(suite.T(), lineage[1].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(suite.T(), 5, lineage[1].AgeDays)
}
