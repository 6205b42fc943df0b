package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneyage/backend/internal/httputil"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/types"
	"golang.org/x/exp/slices"
)

type SnapshotListResponse struct {
	Data  []models.AgeSnapshot `json:"data"`                                                          // List of snapshots, oldest period first
	Error *string              `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type SnapshotQueryFilter struct {
	Granularity models.SnapshotGranularity `form:"granularity"` // DAILY, WEEKLY or MONTHLY. Defaults to MONTHLY.
	From        types.Date                 `form:"from"`        // Earliest period start to return
	Until       types.Date                 `form:"until"`       // Latest period start to return
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Snapshots
// @Success		204
// @Param			tenantId	path	URITenant	true	"ID of the tenant"
// @Router			/v1/tenants/{tenantId}/snapshots [options]
func OptionsSnapshots(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get snapshots
// @Description	Returns the current snapshot of every period in the range. Superseded snapshots are not returned.
// @Tags			Snapshots
// @Produce		json
// @Success		200			{object}	SnapshotListResponse
// @Failure		400			{object}	SnapshotListResponse
// @Failure		500			{object}	SnapshotListResponse
// @Param			tenantId	path		URITenant	true	"ID of the tenant"
// @Param			granularity	query		string		false	"DAILY, WEEKLY or MONTHLY. Defaults to MONTHLY."
// @Param			from		query		string		false	"Earliest period start to return"
// @Param			until		query		string		false	"Latest period start to return"
// @Router			/v1/tenants/{tenantId}/snapshots [get]
func GetSnapshots(c *gin.Context) {
	var uri URITenant
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SnapshotListResponse{
			Error: &e,
		})
		return
	}

	var filter SnapshotQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, SnapshotListResponse{
			Error: &e,
		})
		return
	}

	granularity := filter.Granularity
	if granularity == "" {
		granularity = models.GranularityMonthly
	}

	if !slices.Contains([]models.SnapshotGranularity{
		models.GranularityDaily,
		models.GranularityWeekly,
		models.GranularityMonthly,
	}, granularity) {
		e := errGranularityInvalid.Error()
		c.JSON(http.StatusBadRequest, SnapshotListResponse{
			Error: &e,
		})
		return
	}

	from := filter.From
	if from.IsZero() {
		from = types.NewDate(1, 1, 1)
	}

	until := filter.Until
	if until.IsZero() {
		until = types.Today()
	}

	snapshots, err := models.Snapshots(models.DB, uri.TenantID.UUID, granularity, from, until)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SnapshotListResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, SnapshotListResponse{
		Data: snapshots,
	})
}
