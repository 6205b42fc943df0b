package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneyage/backend/internal/httputil"
	"github.com/moneyage/backend/internal/models"
	ma_uuid "github.com/moneyage/backend/internal/uuid"
	"golang.org/x/exp/slices"
)

// RegisterPoolRoutes registers the routes for resource pools with the
// RouterGroup that is passed.
func RegisterPoolRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsPools)
		r.GET("", GetPools)
	}

	// Pool with ID
	{
		r.OPTIONS("/:id", OptionsPoolDetail)
		r.GET("/:id", GetPool)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Pools
// @Success		204
// @Router			/v1/pools [options]
func OptionsPools(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Pools
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ID of the pool"
// @Router			/v1/pools/{id} [options]
func OptionsPoolDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var pool models.ResourcePool
	err = models.DB.First(&pool, "id = ?", uri.ID.UUID).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get pool
// @Description	Returns a specific resource pool
// @Tags			Pools
// @Produce		json
// @Success		200	{object}	PoolResponse
// @Failure		400	{object}	PoolResponse
// @Failure		404	{object}	PoolResponse
// @Failure		500	{object}	PoolResponse
// @Param			id	path		URIID	true	"ID of the pool"
// @Router			/v1/pools/{id} [get]
func GetPool(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PoolResponse{
			Error: &e,
		})
		return
	}

	var pool models.ResourcePool
	err = models.DB.First(&pool, "id = ?", uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PoolResponse{
			Error: &e,
		})
		return
	}

	data := newPool(c, pool)
	c.JSON(http.StatusOK, PoolResponse{Data: &data})
}

// @Summary		Get pools
// @Description	Returns a list of resource pools
// @Tags			Pools
// @Produce		json
// @Success		200	{object}	PoolListResponse
// @Failure		400	{object}	PoolListResponse
// @Failure		500	{object}	PoolListResponse
// @Router			/v1/pools [get]
// @Param			tenant	query	string	false	"Filter by tenant ID"
// @Param			source	query	string	false	"Filter by source transaction ID"
// @Param			active	query	bool	false	"Only pools that still hold money"
// @Param			offset	query	uint	false	"The offset of the first pool returned. Defaults to 0."
// @Param			limit	query	int		false	"Maximum number of pools to return. Defaults to 50."
func GetPools(c *gin.Context) {
	var filter PoolQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, PoolListResponse{
			Error: &s,
		})
		return
	}

	_, setFields := httputil.GetURLFields(c.Request.URL, filter)

	q := models.DB.
		Model(&models.ResourcePool{}).
		Order("income_date ASC, id ASC")

	if filter.TenantID != ma_uuid.Nil {
		q = q.Where("tenant_id = ?", filter.TenantID.UUID)
	}

	if filter.SourceID != ma_uuid.Nil {
		q = q.Where("source_transaction_id = ?", filter.SourceID.UUID)
	}

	if slices.Contains(setFields, "Active") {
		if filter.Active {
			q = q.Where("remaining_amount > 0")
		} else {
			q = q.Where("remaining_amount <= 0")
		}
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 pools and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var pools []models.ResourcePool
	err := q.Find(&pools).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PoolListResponse{
			Error: &e,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), PoolListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Pool, 0)
	for _, pool := range pools {
		data = append(data, newPool(c, pool))
	}

	c.JSON(http.StatusOK, PoolListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}
