package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneyage/backend/internal/httputil"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/moneyage"
)

type RecalculationResponse struct {
	Data  *models.RecalculationMark `json:"data"`                                                          // The recalculation state of the tenant
	Error *string                   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// RecalculationRequest is the body of a recalculation trigger.
type RecalculationRequest struct {
	FullRebuild bool `json:"fullRebuild" example:"false" default:"false"` // Recompute all history, ignoring the watermark floor
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Recalculation
// @Success		204
// @Param			tenantId	path	URITenant	true	"ID of the tenant"
// @Router			/v1/tenants/{tenantId}/recalculation [options]
func OptionsRecalculation(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Get recalculation state
// @Description	Returns the recalculation mark of the tenant
// @Tags			Recalculation
// @Produce		json
// @Success		200			{object}	RecalculationResponse
// @Failure		400			{object}	RecalculationResponse
// @Failure		500			{object}	RecalculationResponse
// @Param			tenantId	path		URITenant	true	"ID of the tenant"
// @Router			/v1/tenants/{tenantId}/recalculation [get]
func GetRecalculation(c *gin.Context) {
	var uri URITenant
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecalculationResponse{
			Error: &e,
		})
		return
	}

	mark, err := models.MarkForTenant(models.DB, uri.TenantID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecalculationResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, RecalculationResponse{
		Data: &mark,
	})
}

// @Summary		Trigger recalculation
// @Description	Recomputes the tenant's history. By default only the dirty tail is recomputed, set fullRebuild to recompute everything.
// @Tags			Recalculation
// @Accept			json
// @Produce		json
// @Success		200			{object}	RecalculationResponse
// @Failure		400			{object}	RecalculationResponse
// @Failure		500			{object}	RecalculationResponse
// @Param			tenantId	path		URITenant				true	"ID of the tenant"
// @Param			request		body		RecalculationRequest	false	"Recalculation options"
// @Router			/v1/tenants/{tenantId}/recalculation [post]
func CreateRecalculation(c *gin.Context) {
	var uri URITenant
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecalculationResponse{
			Error: &e,
		})
		return
	}

	var request RecalculationRequest
	if c.Request.ContentLength > 0 {
		if err := httputil.BindData(c, &request); err != nil {
			e := err.Error()
			c.JSON(status(err), RecalculationResponse{
				Error: &e,
			})
			return
		}
	}

	if request.FullRebuild {
		err = moneyage.FullRebuild(models.DB, uri.TenantID.UUID)
	} else {
		err = moneyage.Recalculate(models.DB, uri.TenantID.UUID)
	}

	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecalculationResponse{
			Error: &e,
		})
		return
	}

	mark, err := models.MarkForTenant(models.DB, uri.TenantID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), RecalculationResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, RecalculationResponse{
		Data: &mark,
	})
}
