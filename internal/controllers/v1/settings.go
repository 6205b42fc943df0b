package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneyage/backend/internal/httputil"
	"github.com/moneyage/backend/internal/models"
)

type SettingsResponse struct {
	Data  *models.AgeSettings `json:"data"`                                                          // Settings of the tenant
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Settings
// @Success		204
// @Param			tenantId	path	URITenant	true	"ID of the tenant"
// @Router			/v1/tenants/{tenantId}/settings [options]
func OptionsSettings(c *gin.Context) {
	httputil.OptionsGetPatch(c)
}

// @Summary		Get settings
// @Description	Returns the settings of the tenant, creating them with defaults on first use
// @Tags			Settings
// @Produce		json
// @Success		200			{object}	SettingsResponse
// @Failure		400			{object}	SettingsResponse
// @Failure		500			{object}	SettingsResponse
// @Param			tenantId	path		URITenant	true	"ID of the tenant"
// @Router			/v1/tenants/{tenantId}/settings [get]
func GetSettings(c *gin.Context) {
	var uri URITenant
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{
			Error: &e,
		})
		return
	}

	settings, err := models.SettingsForTenant(models.DB, uri.TenantID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{
		Data: &settings,
	})
}

// @Summary		Update settings
// @Description	Updates the settings of the tenant. Only values that are defined in the request body are affected.
// @Tags			Settings
// @Accept			json
// @Produce		json
// @Success		200			{object}	SettingsResponse
// @Failure		400			{object}	SettingsResponse
// @Failure		500			{object}	SettingsResponse
// @Param			tenantId	path		URITenant			true	"ID of the tenant"
// @Param			settings	body		models.AgeSettings	true	"Settings"
// @Router			/v1/tenants/{tenantId}/settings [patch]
func UpdateSettings(c *gin.Context) {
	var uri URITenant
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{
			Error: &e,
		})
		return
	}

	settings, err := models.SettingsForTenant(models.DB, uri.TenantID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{
			Error: &e,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, models.AgeSettings{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{
			Error: &e,
		})
		return
	}

	// Bind into the loaded settings so that validation sees the merged
	// values, not just the ones submitted
	err = httputil.BindData(c, &settings)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{
			Error: &e,
		})
		return
	}

	settings.TenantID = uri.TenantID.UUID

	err = models.DB.Model(&settings).Select("", updateFields...).Updates(settings).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SettingsResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, SettingsResponse{
		Data: &settings,
	})
}
