package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inselpa/incident-api/internal/service"
	"github.com/inselpa/incident-api/pkg/response"
)

// StatsHandler exposes aggregated incident statistics.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler constructs StatsHandler.
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Summary godoc
// @Summary Incident statistics summary
// @Description Totals broken down by course, type and month, with top buckets.
// @Tags Stats
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /stats/summary [get]
func (h *StatsHandler) Summary(c *gin.Context) {
	summary, cached, err := h.stats.GetSummary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, map[string]interface{}{"cached": cached})
}
