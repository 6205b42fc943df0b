package models_test

import (
	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestMarkForTenant() {
	tenant := uuid.New()

	mark, err := models.MarkForTenant(models.DB, tenant)
	require.Nil(suite.T(), err)

	assert.Equal(suite.T(), models.StateClean, mark.State)
	assert.Equal(suite.T(), uint(0), mark.Version)
	assert.Equal(suite.T(), uint(0), mark.Attempts)
}

func (suite *TestSuiteStandard) TestMarkDirtyCoalesces() {
	tenant := uuid.New()

	mark, err := models.MarkDirty(models.DB, tenant, types.NewDate(2024, 3, 10))
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), models.StateDirty, mark.State)
	assert.True(suite.T(), mark.DirtyFrom.Equal(types.NewDate(2024, 3, 10)))
	assert.Equal(suite.T(), uint(1), mark.Version)

	// An earlier edit pulls the watermark back
	mark, err = models.MarkDirty(models.DB, tenant, types.NewDate(2024, 2, 1))
	require.Nil(suite.T(), err)
	assert.True(suite.T(), mark.DirtyFrom.Equal(types.NewDate(2024, 2, 1)))
	assert.Equal(suite.T(), uint(2), mark.Version)

	// A later edit keeps the earlier watermark but still bumps the version
	mark, err = models.MarkDirty(models.DB, tenant, types.NewDate(2024, 5, 1))
	require.Nil(suite.T(), err)
	assert.True(suite.T(), mark.DirtyFrom.Equal(types.NewDate(2024, 2, 1)))
	assert.Equal(suite.T(), uint(3), mark.Version)
}

func (suite *TestSuiteStandard) TestMarkCleanVersionCheck() {
	tenant := uuid.New()

	mark, err := models.MarkDirty(models.DB, tenant, types.NewDate(2024, 3, 10))
	require.Nil(suite.T(), err)

	// Simulate an edit racing the recompute
	_, err = models.MarkDirty(models.DB, tenant, types.NewDate(2024, 3, 5))
	require.Nil(suite.T(), err)

	cleaned, err := models.MarkClean(models.DB, tenant, mark.Version)
	require.Nil(suite.T(), err)
	assert.False(suite.T(), cleaned, "a stale version must not mark the tenant clean")

	current, err := models.MarkForTenant(models.DB, tenant)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), models.StateDirty, current.State)

	cleaned, err = models.MarkClean(models.DB, tenant, current.Version)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), cleaned)

	current, err = models.MarkForTenant(models.DB, tenant)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), models.StateClean, current.State)
}

func (suite *TestSuiteStandard) TestMarkFailed() {
	tenant := uuid.New()

	_, err := models.MarkDirty(models.DB, tenant, types.NewDate(2024, 3, 10))
	require.Nil(suite.T(), err)

	require.Nil(suite.T(), models.MarkFailed(models.DB, tenant))
	require.Nil(suite.T(), models.MarkFailed(models.DB, tenant))

	mark, err := models.MarkForTenant(models.DB, tenant)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), uint(2), mark.Attempts)
	assert.Equal(suite.T(), models.StateDirty, mark.State)

	// A new edit resets the attempt counter
	mark, err = models.MarkDirty(models.DB, tenant, types.NewDate(2024, 3, 1))
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), uint(0), mark.Attempts)
}

func (suite *TestSuiteStandard) TestDirtyMarks() {
	dirtyTenant := uuid.New()
	cleanTenant := uuid.New()

	_, err := models.MarkDirty(models.DB, dirtyTenant, types.NewDate(2024, 3, 10))
	require.Nil(suite.T(), err)

	_, err = models.MarkForTenant(models.DB, cleanTenant)
	require.Nil(suite.T(), err)

	marks, err := models.DirtyMarks(models.DB)
	require.Nil(suite.T(), err)
	require.Len(suite.T(), marks, 1)
	assert.Equal(suite.T(), dirtyTenant, marks[0].TenantID)
}
