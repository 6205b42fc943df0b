package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneyage/backend/internal/httputil"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/moneyage"
	"github.com/moneyage/backend/internal/types"
	"github.com/shopspring/decimal"
)

type TenantAge struct {
	AgeDays    decimal.NullDecimal `json:"ageDays"`                      // Weighted average age of the money still held, null without active pools
	HealthTier moneyage.HealthTier `json:"healthTier" example:"HEALTHY"` // Health tier of the age, empty without active pools
	AsOf       types.Date          `json:"asOf"`                         // The date the age was computed for
}

type TenantAgeResponse struct {
	Data  *TenantAge `json:"data"`                                                          // The tenant's aggregate age
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type TransactionAge struct {
	AgeDays decimal.NullDecimal     `json:"ageDays"` // Amount-weighted average age of the money spent, null without consumption records
	Lineage []moneyage.LineageEntry `json:"lineage"` // The pools the expense consumed, oldest money first
}

type TransactionAgeResponse struct {
	Data  *TransactionAge `json:"data"`                                                          // The transaction's age and lineage
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type AgeQueryFilter struct {
	AsOf types.Date `form:"asOf"` // The date to compute the age for. Defaults to today.
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Age
// @Success		204
// @Param			tenantId	path	URITenant	true	"ID of the tenant"
// @Router			/v1/tenants/{tenantId}/age [options]
func OptionsTenantAge(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get aggregate age
// @Description	Returns the weighted average age of the money the tenant still holds, with its health tier
// @Tags			Age
// @Produce		json
// @Success		200			{object}	TenantAgeResponse
// @Failure		400			{object}	TenantAgeResponse
// @Failure		500			{object}	TenantAgeResponse
// @Param			tenantId	path		URITenant	true	"ID of the tenant"
// @Param			asOf		query		string		false	"The date to compute the age for. Defaults to today."
// @Router			/v1/tenants/{tenantId}/age [get]
func GetTenantAge(c *gin.Context) {
	var uri URITenant
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TenantAgeResponse{
			Error: &e,
		})
		return
	}

	var filter AgeQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, TenantAgeResponse{
			Error: &e,
		})
		return
	}

	asOf := filter.AsOf
	if asOf.IsZero() {
		asOf = types.Today()
	}

	age, tier, err := moneyage.Health(models.DB, uri.TenantID.UUID, asOf)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TenantAgeResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, TenantAgeResponse{
		Data: &TenantAge{
			AgeDays:    age,
			HealthTier: tier,
			AsOf:       asOf,
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Age
// @Success		204
// @Param			tenantId		path	URITenant	true	"ID of the tenant"
// @Param			transactionId	path	string		true	"ID of the transaction"
// @Router			/v1/tenants/{tenantId}/transactions/{transactionId}/age [options]
func OptionsTransactionAge(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Get transaction age
// @Description	Returns the amount-weighted average age of the money that funded the expense, with the full consumption lineage
// @Tags			Age
// @Produce		json
// @Success		200				{object}	TransactionAgeResponse
// @Failure		400				{object}	TransactionAgeResponse
// @Failure		404				{object}	TransactionAgeResponse
// @Failure		500				{object}	TransactionAgeResponse
// @Param			tenantId		path		URITenant	true	"ID of the tenant"
// @Param			transactionId	path		string		true	"ID of the transaction"
// @Router			/v1/tenants/{tenantId}/transactions/{transactionId}/age [get]
func GetTransactionAge(c *gin.Context) {
	var uri URITenantTransaction
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionAgeResponse{
			Error: &e,
		})
		return
	}

	// The transaction has to exist, even if it has no records
	_, err = models.TransactionByExternalID(models.DB, uri.TenantID.UUID, uri.TransactionID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionAgeResponse{
			Error: &e,
		})
		return
	}

	age, err := moneyage.TransactionAge(models.DB, uri.TenantID.UUID, uri.TransactionID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionAgeResponse{
			Error: &e,
		})
		return
	}

	lineage, err := moneyage.Lineage(models.DB, uri.TenantID.UUID, uri.TransactionID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), TransactionAgeResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, TransactionAgeResponse{
		Data: &TransactionAge{
			AgeDays: age,
			Lineage: lineage,
		},
	})
}
