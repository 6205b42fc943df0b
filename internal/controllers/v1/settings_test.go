package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	v1 "github.com/moneyage/backend/internal/controllers/v1"
	"github.com/moneyage/backend/test"
)

func (suite *TestSuiteStandard) TestOptionsSettings() {
	recorder := test.Request(suite.T(), http.MethodOptions, fmt.Sprintf("http://example.com/v1/tenants/%s/settings", uuid.New()), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	suite.Assert().Equal("GET, PATCH", recorder.Header().Get("allow"))
}

// A tenant that was never configured gets the defaults.
func (suite *TestSuiteStandard) TestGetSettingsDefaults() {
	tenantID := uuid.New()

	recorder := test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/tenants/%s/settings", tenantID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SettingsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(tenantID, response.Data.TenantID)
	suite.Assert().Equal(60, response.Data.VeryHealthyDays)
	suite.Assert().Equal(30, response.Data.HealthyDays)
	suite.Assert().Equal(14, response.Data.FairDays)
	suite.Assert().Equal(7, response.Data.LowDays)
	suite.Assert().Equal(3, response.Data.TightDays)
	suite.Assert().False(response.Data.SnapshotsDaily)
	suite.Assert().True(response.Data.SnapshotsMonthly)
}

func (suite *TestSuiteStandard) TestUpdateSettings() {
	tenantID := uuid.New()

	recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/tenants/%s/settings", tenantID), `{"healthyDays": 25, "snapshotsDaily": true}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.SettingsResponse
	test.DecodeResponse(suite.T(), &recorder, &response)

	suite.Require().NotNil(response.Data)
	suite.Assert().Equal(25, response.Data.HealthyDays)
	suite.Assert().True(response.Data.SnapshotsDaily)

	// Untouched fields keep their values
	suite.Assert().Equal(60, response.Data.VeryHealthyDays)
	suite.Assert().Equal(14, response.Data.FairDays)

	// The update is persisted
	recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/tenants/%s/settings", tenantID), "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	test.DecodeResponse(suite.T(), &recorder, &response)
	suite.Assert().Equal(25, response.Data.HealthyDays)
}

func (suite *TestSuiteStandard) TestUpdateSettingsInvalid() {
	tenantID := uuid.New()

	tests := []struct {
		name string
		body string
	}{
		{"unsupported strategy", `{"strategy": "LIFO"}`},
		{"thresholds not monotonic", `{"tightDays": 40}`},
		{"threshold below one", `{"tightDays": 0}`},
		{"invalid body", "not JSON"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			recorder := test.Request(suite.T(), http.MethodPatch, fmt.Sprintf("http://example.com/v1/tenants/%s/settings", tenantID), tt.body)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

			// The invalid update must not have changed anything
			recorder = test.Request(suite.T(), http.MethodGet, fmt.Sprintf("http://example.com/v1/tenants/%s/settings", tenantID), "")
			var response v1.SettingsResponse
			test.DecodeResponse(suite.T(), &recorder, &response)
			suite.Assert().Equal(3, response.Data.TightDays)
		})
	}
}
