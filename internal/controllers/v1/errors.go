package v1

import (
	"errors"
	"net/http"

	"github.com/moneyage/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate HTTP status for an engine error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	if errors.Is(err, models.ErrDuplicateIncome) || errors.Is(err, models.ErrDuplicateTransaction) {
		return http.StatusConflict
	}

	return http.StatusBadRequest
}

var (
	errGranularityInvalid = errors.New("the granularity parameter must be DAILY, WEEKLY or MONTHLY")
)
