package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/moneyage/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestSettingsForTenantDefaults() {
	tenant := uuid.New()

	settings, err := models.SettingsForTenant(models.DB, tenant)
	require.Nil(suite.T(), err)

	assert.Equal(suite.T(), models.StrategyFIFO, settings.Strategy)
	assert.Equal(suite.T(), 60, settings.VeryHealthyDays)
	assert.Equal(suite.T(), 30, settings.HealthyDays)
	assert.Equal(suite.T(), 14, settings.FairDays)
	assert.Equal(suite.T(), 7, settings.LowDays)
	assert.Equal(suite.T(), 3, settings.TightDays)
	assert.False(suite.T(), settings.SnapshotsDaily)
	assert.False(suite.T(), settings.SnapshotsWeekly)
	assert.True(suite.T(), settings.SnapshotsMonthly)

	// A second call returns the stored row, not a new one
	again, err := models.SettingsForTenant(models.DB, tenant)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), settings.ID, again.ID)
}

func (suite *TestSuiteStandard) TestSettingsValidation() {
	tests := []struct {
		name     string
		settings models.AgeSettings
		err      error
	}{
		{
			"LIFO not supported",
			models.AgeSettings{TenantID: uuid.New(), Strategy: models.StrategyLIFO, VeryHealthyDays: 60, HealthyDays: 30, FairDays: 14, LowDays: 7, TightDays: 3},
			models.ErrStrategyNotSupported,
		},
		{
			"weighted average not supported",
			models.AgeSettings{TenantID: uuid.New(), Strategy: models.StrategyWeightedAverage, VeryHealthyDays: 60, HealthyDays: 30, FairDays: 14, LowDays: 7, TightDays: 3},
			models.ErrStrategyNotSupported,
		},
		{
			"equal thresholds",
			models.AgeSettings{TenantID: uuid.New(), Strategy: models.StrategyFIFO, VeryHealthyDays: 30, HealthyDays: 30, FairDays: 14, LowDays: 7, TightDays: 3},
			models.ErrThresholdsInvalid,
		},
		{
			"inverted thresholds",
			models.AgeSettings{TenantID: uuid.New(), Strategy: models.StrategyFIFO, VeryHealthyDays: 7, HealthyDays: 14, FairDays: 30, LowDays: 60, TightDays: 90},
			models.ErrThresholdsInvalid,
		},
		{
			"tight below one",
			models.AgeSettings{TenantID: uuid.New(), Strategy: models.StrategyFIFO, VeryHealthyDays: 60, HealthyDays: 30, FairDays: 14, LowDays: 7, TightDays: 0},
			models.ErrThresholdsInvalid,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Create(&tt.settings).Error
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestSettingsUpdate() {
	tenant := uuid.New()

	settings, err := models.SettingsForTenant(models.DB, tenant)
	require.Nil(suite.T(), err)

	settings.VeryHealthyDays = 90
	settings.SnapshotsWeekly = true
	require.Nil(suite.T(), models.DB.Save(&settings).Error)

	reloaded, err := models.SettingsForTenant(models.DB, tenant)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), 90, reloaded.VeryHealthyDays)
	assert.True(suite.T(), reloaded.SnapshotsWeekly)
}
