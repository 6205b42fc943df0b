package v1_test

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/moneyage/backend/test"
)

// Unsupported methods on existing routes return 405, not 404.
func (suite *TestSuiteStandard) TestMethodNotAllowed() {
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodDelete, "/v1/events"},
		{http.MethodGet, "/v1/events"},
		{http.MethodPost, "/v1/pools"},
		{http.MethodDelete, fmt.Sprintf("/v1/tenants/%s/age", uuid.New())},
		{http.MethodPost, fmt.Sprintf("/v1/tenants/%s/settings", uuid.New())},
		{http.MethodPatch, fmt.Sprintf("/v1/tenants/%s/recalculation", uuid.New())},
	}

	for _, tt := range tests {
		suite.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func() {
			recorder := test.Request(suite.T(), tt.method, "http://example.com"+tt.path, "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusMethodNotAllowed)
		})
	}
}
