package http

import (
	"io"
	"net/http"

	"semaforo-srv/pkg/errors"
	postgresPkg "semaforo-srv/pkg/postgre"
	"semaforo-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// List returns a page of alerts for operator views.
// @Summary List alerts
// @Description Lists alerts, newest first, optionally filtered by campaign, delivery state or retry exhaustion.
// @Tags Alert
// @Produce json
// @Param campaign_id query string false "Campaign ID"
// @Param state query string false "Delivery state" Enums(pending, sent, error, ignored)
// @Param exhausted query bool false "Only alerts past their retry budget"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Resp{data=alert.GetOutput}
// @Router /alerts [GET]
func (h *Handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		h.l.Warnf(ctx, "internal.alert.delivery.http.List: %v", err)
		response.HttpError(c, errors.NewHTTPError(40005, "Invalid query parameters", http.StatusBadRequest))
		return
	}

	out, err := h.uc.Get(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "internal.alert.delivery.http.List: %v", err)
		response.ErrorWithMap(c, err, errMapping)
		return
	}

	response.OK(c, out)
}

// Ignore marks an alert as manually handled.
// @Summary Ignore alert
// @Description Operator override: moves a pending or failed alert to ignored so it is never dispatched.
// @Tags Alert
// @Produce json
// @Param id path string true "Alert ID"
// @Param X-Internal-Key header string true "Internal API Key"
// @Success 200 {object} response.Resp{data=model.Alert}
// @Failure 404 {object} response.Resp "Alert not found"
// @Failure 409 {object} response.Resp "Alert already sent or ignored"
// @Router /alerts/{id}/ignore [POST]
func (h *Handler) Ignore(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if !postgresPkg.IsValidUUID(id) {
		response.HttpError(c, errors.NewHTTPError(40007, "Invalid alert id", http.StatusBadRequest))
		return
	}

	a, err := h.uc.Ignore(ctx, id)
	if err != nil {
		h.l.Errorf(ctx, "internal.alert.delivery.http.Ignore: %v", err)
		response.ErrorWithMap(c, err, errMapping)
		return
	}

	response.OK(c, a)
}

// Reschedule moves a failed alert back to pending.
// @Summary Reschedule alert
// @Description Moves an alert in error state back to pending after the given delay, unless its retries are exhausted or it expired.
// @Tags Alert
// @Accept json
// @Produce json
// @Param id path string true "Alert ID"
// @Param body body rescheduleReq false "Delay before the next attempt"
// @Param X-Internal-Key header string true "Internal API Key"
// @Success 200 {object} response.Resp{data=rescheduleResp}
// @Failure 404 {object} response.Resp "Alert not found"
// @Router /alerts/{id}/reschedule [POST]
func (h *Handler) Reschedule(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if !postgresPkg.IsValidUUID(id) {
		response.HttpError(c, errors.NewHTTPError(40007, "Invalid alert id", http.StatusBadRequest))
		return
	}

	// An empty body reschedules immediately.
	var req rescheduleReq
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		h.l.Warnf(ctx, "internal.alert.delivery.http.Reschedule: %v", err)
		response.HttpError(c, errors.NewHTTPError(40006, "Invalid request body", http.StatusBadRequest))
		return
	}

	ok, err := h.uc.Reschedule(ctx, id, req.delay())
	if err != nil {
		h.l.Errorf(ctx, "internal.alert.delivery.http.Reschedule: %v", err)
		response.ErrorWithMap(c, err, errMapping)
		return
	}

	response.OK(c, rescheduleResp{Rescheduled: ok})
}
