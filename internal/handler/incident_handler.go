package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inselpa/incident-api/internal/service"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
	"github.com/inselpa/incident-api/pkg/response"
)

// IncidentHandler exposes incident record endpoints. Records are
// append-only: there is no update route.
type IncidentHandler struct {
	incidents *service.IncidentService
}

// NewIncidentHandler constructs IncidentHandler.
func NewIncidentHandler(incidents *service.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidents: incidents}
}

// List godoc
// @Summary List incidents, newest first
// @Tags Incidents
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /incidents [get]
func (h *IncidentHandler) List(c *gin.Context) {
	incidents, err := h.incidents.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, incidents, nil)
}

// Create godoc
// @Summary Register an incident
// @Tags Incidents
// @Accept json
// @Produce json
// @Param payload body service.CreateIncidentRequest true "Incident payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /incidents [post]
func (h *IncidentHandler) Create(c *gin.Context) {
	var req service.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	incident, err := h.incidents.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, incident)
}

// Delete godoc
// @Summary Delete an incident
// @Tags Incidents
// @Param id path string true "Incident ID"
// @Success 204 "No Content"
// @Router /incidents/{id} [delete]
func (h *IncidentHandler) Delete(c *gin.Context) {
	if err := h.incidents.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
