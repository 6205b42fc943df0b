package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterTenantRoutes registers the tenant scoped routes with the
// RouterGroup that is passed.
func RegisterTenantRoutes(r *gin.RouterGroup) {
	// Aggregate age and health
	{
		r.OPTIONS("/:tenantId/age", OptionsTenantAge)
		r.GET("/:tenantId/age", GetTenantAge)
	}

	// Per-transaction age and lineage
	{
		r.OPTIONS("/:tenantId/transactions/:transactionId/age", OptionsTransactionAge)
		r.GET("/:tenantId/transactions/:transactionId/age", GetTransactionAge)
	}

	// Snapshots
	{
		r.OPTIONS("/:tenantId/snapshots", OptionsSnapshots)
		r.GET("/:tenantId/snapshots", GetSnapshots)
	}

	// Settings
	{
		r.OPTIONS("/:tenantId/settings", OptionsSettings)
		r.GET("/:tenantId/settings", GetSettings)
		r.PATCH("/:tenantId/settings", UpdateSettings)
	}

	// Recalculation state and triggers
	{
		r.OPTIONS("/:tenantId/recalculation", OptionsRecalculation)
		r.GET("/:tenantId/recalculation", GetRecalculation)
		r.POST("/:tenantId/recalculation", CreateRecalculation)
	}
}
