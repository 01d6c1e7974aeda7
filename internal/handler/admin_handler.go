package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inselpa/incident-api/internal/service"
	"github.com/inselpa/incident-api/pkg/response"
)

// AdminHandler exposes maintenance endpoints restricted to
// administrators.
type AdminHandler struct {
	admin *service.AdminService
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(admin *service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// ClearYear godoc
// @Summary Clear yearly data
// @Description Deletes all students and incidents to start a new school year. Accounts, teachers and incident types are kept.
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/clear-year [post]
func (h *AdminHandler) ClearYear(c *gin.Context) {
	if err := h.admin.ClearYear(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"cleared": true}, nil)
}
