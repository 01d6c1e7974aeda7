package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/inselpa/incident-api/internal/models"
	"github.com/inselpa/incident-api/internal/service"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
	"github.com/inselpa/incident-api/pkg/response"
)

// ReportHandler exposes filtered incident reports and their PDF/CSV
// exports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// List godoc
// @Summary Filtered incident report
// @Tags Reports
// @Produce json
// @Param period query int false "School period (1-4, 0 for all)"
// @Param scope query string false "school, course or student"
// @Param value query string false "Course name or student ID"
// @Success 200 {object} response.Envelope
// @Router /reports/incidents [get]
func (h *ReportHandler) List(c *gin.Context) {
	filter, err := bindReportFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	incidents, err := h.reports.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, incidents, map[string]interface{}{"count": len(incidents)})
}

// Export godoc
// @Summary Export the filtered report
// @Description Renders the report as a downloadable document.
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Param format query string false "pdf or csv" default(pdf)
// @Param period query int false "School period (1-4, 0 for all)"
// @Param scope query string false "school, course or student"
// @Param value query string false "Course name or student ID"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /reports/incidents/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	filter, err := bindReportFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	stamp := time.Now().Format("2006-01-02")
	switch c.DefaultQuery("format", "pdf") {
	case "pdf":
		out, err := h.reports.ExportPDF(c.Request.Context(), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"reporte-incidencias-%s.pdf\"", stamp))
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "application/pdf", out)
	case "csv":
		out, err := h.reports.ExportCSV(c.Request.Context(), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"reporte-incidencias-%s.csv\"", stamp))
		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, "text/csv; charset=utf-8", out)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be pdf or csv"))
	}
}

func bindReportFilter(c *gin.Context) (models.ReportFilter, error) {
	var filter models.ReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report filter")
	}
	switch filter.Scope {
	case "", models.ScopeSchool, models.ScopeCourse, models.ScopeStudent:
	default:
		return filter, appErrors.Clone(appErrors.ErrValidation, "scope must be school, course or student")
	}
	if filter.Period < 0 || filter.Period > 4 {
		return filter, appErrors.Clone(appErrors.ErrValidation, "period must be between 1 and 4")
	}
	return filter, nil
}
