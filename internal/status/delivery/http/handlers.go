package http

import (
	"io"
	"net/http"

	"semaforo-srv/internal/model"
	"semaforo-srv/pkg/errors"
	"semaforo-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// Recalculate recomputes the status of one campaign.
// @Summary Recalculate campaign status
// @Description Recomputes the traffic-light status for a single campaign. Called by the record-management system after a campaign changes.
// @Tags Status
// @Produce json
// @Param id path string true "Campaign ID"
// @Param X-Internal-Key header string true "Internal API Key"
// @Success 200 {object} response.Resp{data=status.Outcome}
// @Failure 404 {object} response.Resp "Campaign not found"
// @Router /campaigns/{id}/recalculate [POST]
func (h *Handler) Recalculate(c *gin.Context) {
	ctx := c.Request.Context()

	outcome, err := h.uc.OnCampaignChanged(ctx, c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.status.delivery.http.Recalculate: %v", err)
		response.ErrorWithMap(c, err, errMapping)
		return
	}

	response.OK(c, outcome)
}

// DeleteStatus removes the status record of a deleted campaign.
// @Summary Delete campaign status
// @Description Cascades a campaign deletion to its status record. Deleting a campaign without a record is a no-op.
// @Tags Status
// @Produce json
// @Param id path string true "Campaign ID"
// @Param X-Internal-Key header string true "Internal API Key"
// @Success 200 {object} response.Resp
// @Router /campaigns/{id}/status [DELETE]
func (h *Handler) DeleteStatus(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.uc.OnCampaignDeleted(ctx, c.Param("id")); err != nil {
		h.l.Errorf(ctx, "internal.status.delivery.http.DeleteStatus: %v", err)
		response.ErrorWithMap(c, err, errMapping)
		return
	}

	response.OK(c, nil)
}

// History lists a campaign's status transition history.
// @Summary List status history
// @Description Returns one page of a campaign's transition history, oldest first.
// @Tags Status
// @Produce json
// @Param id path string true "Campaign ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Resp{data=status.HistoryOutput}
// @Router /campaigns/{id}/history [GET]
func (h *Handler) History(c *gin.Context) {
	ctx := c.Request.Context()

	var req historyReq
	if err := c.ShouldBindQuery(&req); err != nil {
		h.l.Warnf(ctx, "internal.status.delivery.http.History: %v", err)
		response.HttpError(c, errors.NewHTTPError(40002, "Invalid query parameters", http.StatusBadRequest))
		return
	}

	out, err := h.uc.ListHistory(ctx, req.toInput(c.Param("id")))
	if err != nil {
		h.l.Errorf(ctx, "internal.status.delivery.http.History: %v", err)
		response.ErrorWithMap(c, err, errMapping)
		return
	}

	response.OK(c, out)
}

// BulkRecalculate recomputes every campaign matching a filter.
// @Summary Bulk recalculation
// @Description Runs a sweep over all campaigns matching the filter. Per-campaign failures are counted, not propagated.
// @Tags Status
// @Accept json
// @Produce json
// @Param body body bulkRecalculateReq false "Campaign filter"
// @Param X-Internal-Key header string true "Internal API Key"
// @Success 200 {object} response.Resp{data=status.BatchStats}
// @Router /recalculations [POST]
func (h *Handler) BulkRecalculate(c *gin.Context) {
	ctx := c.Request.Context()

	// An empty body means "no filter", sweep everything.
	var req bulkRecalculateReq
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		h.l.Warnf(ctx, "internal.status.delivery.http.BulkRecalculate: %v", err)
		response.HttpError(c, errors.NewHTTPError(40003, "Invalid request body", http.StatusBadRequest))
		return
	}

	stats, err := h.uc.RecalculateBatch(ctx, req.toFilter())
	if err != nil {
		h.l.Errorf(ctx, "internal.status.delivery.http.BulkRecalculate: %v", err)
		response.ErrorWithMap(c, err, errMapping)
		return
	}

	response.OK(c, stats)
}

// Summary returns the traffic-light dashboard counts.
// @Summary Status summary
// @Description Returns current status counts, percentages per color and the number of pending alerts.
// @Tags Status
// @Produce json
// @Success 200 {object} response.Resp{data=status.SummaryOutput}
// @Router /status/summary [GET]
func (h *Handler) Summary(c *gin.Context) {
	ctx := c.Request.Context()

	out, err := h.uc.GetStatusSummary(ctx)
	if err != nil {
		h.l.Errorf(ctx, "internal.status.delivery.http.Summary: %v", err)
		response.ErrorWithMap(c, err, errMapping)
		return
	}

	response.OK(c, out)
}

// RecomputeSummary rebuilds the aggregate rollup for a period.
// @Summary Recompute aggregate summary
// @Description Rebuilds the daily, weekly or monthly aggregate summary for the given date from scratch.
// @Tags Status
// @Accept json
// @Produce json
// @Param body body recomputeSummaryReq true "Period and date"
// @Param X-Internal-Key header string true "Internal API Key"
// @Success 200 {object} response.Resp{data=model.AggregateSummary}
// @Failure 400 {object} response.Resp "Invalid period"
// @Router /status/summaries/recompute [POST]
func (h *Handler) RecomputeSummary(c *gin.Context) {
	ctx := c.Request.Context()

	var req recomputeSummaryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "internal.status.delivery.http.RecomputeSummary: %v", err)
		response.HttpError(c, errors.NewHTTPError(40004, "Invalid request body", http.StatusBadRequest))
		return
	}

	summary, err := h.uc.RecomputeSummary(ctx, model.SummaryPeriod(req.Period), req.Date)
	if err != nil {
		h.l.Errorf(ctx, "internal.status.delivery.http.RecomputeSummary: %v", err)
		response.ErrorWithMap(c, err, errMapping)
		return
	}

	response.OK(c, summary)
}
