package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneyage/backend/internal/httputil"
	"github.com/moneyage/backend/internal/models"
	"github.com/moneyage/backend/internal/moneyage"
)

// RegisterEventRoutes registers the routes for transaction events with
// the RouterGroup that is passed.
func RegisterEventRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", OptionsEvents)
	r.POST("", CreateEvents)
}

type EventResponse struct {
	Data  *moneyage.Event `json:"data"`                                                          // The processed event
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type EventCreateResponse struct {
	Data  []EventResponse `json:"data"`                                                          // The processed events or their respective error
	Error *string         `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

func (r *EventCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	r.Data = append(r.Data, EventResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Events
// @Success		204
// @Router			/v1/events [options]
func OptionsEvents(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Ingest transaction events
// @Description	Processes transaction events from the capture service in the order submitted. The response code is the highest response code that a single event would have caused.
// @Tags			Events
// @Produce		json
// @Success		201		{object}	EventCreateResponse
// @Failure		400		{object}	EventCreateResponse
// @Failure		404		{object}	EventCreateResponse
// @Failure		500		{object}	EventCreateResponse
// @Param			events	body		[]moneyage.Event	true	"Events"
// @Router			/v1/events [post]
func CreateEvents(c *gin.Context) {
	var events []moneyage.Event

	// Bind data and return error if not possible
	err := httputil.BindData(c, &events)
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, EventCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	httpStatus := http.StatusCreated
	r := EventCreateResponse{}

	for _, event := range events {
		err := moneyage.HandleEvent(models.DB, event)
		if err != nil {
			httpStatus = r.appendError(err, httpStatus)
			continue
		}

		data := event
		r.Data = append(r.Data, EventResponse{Data: &data})
	}

	c.JSON(httpStatus, r)
}
