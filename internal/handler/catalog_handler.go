package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inselpa/incident-api/internal/service"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
	"github.com/inselpa/incident-api/pkg/response"
)

// CatalogHandler exposes teacher and incident-type endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListTeachers godoc
// @Summary List teachers
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.catalog.ListTeachers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}

// CreateTeacher godoc
// @Summary Create teacher
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.SaveTeacherRequest true "Teacher payload"
// @Success 201 {object} response.Envelope
// @Router /teachers [post]
func (h *CatalogHandler) CreateTeacher(c *gin.Context) {
	var req service.SaveTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	teacher, err := h.catalog.SaveTeacher(c.Request.Context(), "", req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, teacher)
}

// UpdateTeacher godoc
// @Summary Update teacher
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body service.SaveTeacherRequest true "Teacher payload"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id} [put]
func (h *CatalogHandler) UpdateTeacher(c *gin.Context) {
	var req service.SaveTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	teacher, err := h.catalog.SaveTeacher(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teacher, nil)
}

// DeleteTeacher godoc
// @Summary Delete teacher
// @Tags Catalog
// @Param id path string true "Teacher ID"
// @Success 204 "No Content"
// @Router /teachers/{id} [delete]
func (h *CatalogHandler) DeleteTeacher(c *gin.Context) {
	if err := h.catalog.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListIncidentTypes godoc
// @Summary List incident types
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /incident-types [get]
func (h *CatalogHandler) ListIncidentTypes(c *gin.Context) {
	types, err := h.catalog.ListIncidentTypes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// CreateIncidentType godoc
// @Summary Create incident type
// @Tags Catalog
// @Accept json
// @Produce json
// @Param payload body service.SaveIncidentTypeRequest true "Incident type payload"
// @Success 201 {object} response.Envelope
// @Router /incident-types [post]
func (h *CatalogHandler) CreateIncidentType(c *gin.Context) {
	var req service.SaveIncidentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	it, err := h.catalog.SaveIncidentType(c.Request.Context(), "", req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, it)
}

// UpdateIncidentType godoc
// @Summary Update incident type
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Incident type ID"
// @Param payload body service.SaveIncidentTypeRequest true "Incident type payload"
// @Success 200 {object} response.Envelope
// @Router /incident-types/{id} [put]
func (h *CatalogHandler) UpdateIncidentType(c *gin.Context) {
	var req service.SaveIncidentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	it, err := h.catalog.SaveIncidentType(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, it, nil)
}

// DeleteIncidentType godoc
// @Summary Delete incident type
// @Tags Catalog
// @Param id path string true "Incident type ID"
// @Success 204 "No Content"
// @Router /incident-types/{id} [delete]
func (h *CatalogHandler) DeleteIncidentType(c *gin.Context) {
	if err := h.catalog.DeleteIncidentType(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
