package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/moneyage/backend/internal/httputil"
	"github.com/moneyage/backend/internal/models"
	ma_uuid "github.com/moneyage/backend/internal/uuid"
)

type PoolLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/pools/3b1ea324-d438-4419-882a-2fc91d71772f"` // The pool itself
}

type Pool struct {
	models.ResourcePool
	Links PoolLinks `json:"links"`
}

func newPool(c *gin.Context, model models.ResourcePool) Pool {
	return Pool{
		ResourcePool: model,
		Links: PoolLinks{
			Self: fmt.Sprintf("%s/v1/pools/%s", httputil.RequestHost(c), model.ID),
		},
	}
}

type PoolResponse struct {
	Data  *Pool   `json:"data"`                                                          // Data for the pool
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type PoolListResponse struct {
	Data       []Pool      `json:"data"`                                                          // List of pools
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type PoolQueryFilter struct {
	TenantID ma_uuid.UUID `form:"tenant"`                     // By ID of the tenant
	SourceID ma_uuid.UUID `form:"source"`                     // By ID of the source income transaction
	Active   bool         `form:"active" filterField:"false"` // Only pools that still hold money
	Offset   uint         `form:"offset" filterField:"false"` // The offset of the first pool returned. Defaults to 0.
	Limit    int          `form:"limit" filterField:"false"`  // Maximum number of pools to return. Defaults to 50.
}
