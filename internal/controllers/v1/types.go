package v1

import (
	ma_uuid "github.com/moneyage/backend/internal/uuid"
)

type URIID struct {
	ID ma_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

type URITenant struct {
	TenantID ma_uuid.UUID `uri:"tenantId" binding:"required" format:"UUID"` // ID of the tenant
}

type URITenantTransaction struct {
	URITenant
	TransactionID ma_uuid.UUID `uri:"transactionId" binding:"required" format:"UUID"` // ID of the transaction in the capture service
}

type Pagination struct {
	Count  int   `json:"count"`  // The amount of records returned in this response
	Offset uint  `json:"offset"` // The offset for the first record returned
	Limit  int   `json:"limit"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total"`  // The total number of resources matching the query
}
