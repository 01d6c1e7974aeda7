package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inselpa/incident-api/internal/models"
	"github.com/inselpa/incident-api/internal/service"
	appErrors "github.com/inselpa/incident-api/pkg/errors"
	"github.com/inselpa/incident-api/pkg/response"
	"github.com/inselpa/incident-api/pkg/spreadsheet"
)

// StudentHandler exposes student endpoints, including the spreadsheet
// import pipeline.
type StudentHandler struct {
	students *service.StudentService
	stats    *service.StatsService
	importer *service.ImportService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, stats *service.StatsService, importer *service.ImportService) *StudentHandler {
	return &StudentHandler{students: students, stats: stats, importer: importer}
}

// ImportCommitRequest carries the reviewed rows of a spreadsheet import.
type ImportCommitRequest struct {
	Students []models.Student `json:"students" binding:"required"`
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Courses godoc
// @Summary List distinct courses
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /students/courses [get]
func (h *StudentHandler) Courses(c *gin.Context) {
	courses, err := h.stats.AvailableCourses(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Create godoc
// @Summary Create student
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body service.SaveStudentRequest true "Student payload"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.SaveStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Save(c.Request.Context(), "", req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Update student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.SaveStudentRequest true "Student payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c *gin.Context) {
	var req service.SaveStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.students.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Delete godoc
// @Summary Delete student
// @Tags Students
// @Param id path string true "Student ID"
// @Success 204 "No Content"
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	if err := h.students.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ImportPreview godoc
// @Summary Preview a spreadsheet import
// @Description Parses an uploaded .xlsx or .csv file and returns the rows staged for review.
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Spreadsheet file"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/import/preview [post]
func (h *StudentHandler) ImportPreview(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "missing spreadsheet file"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrImportParse.Code, appErrors.ErrImportParse.Status, "could not open uploaded file"))
		return
	}
	defer file.Close()

	rows, err := spreadsheet.ReadRows(fileHeader.Filename, file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrImportParse.Code, appErrors.ErrImportParse.Status, "could not read spreadsheet"))
		return
	}

	staged := h.importer.ParseSpreadsheet(rows)
	response.JSON(c, http.StatusOK, staged, map[string]interface{}{"count": len(staged)})
}

// ImportCommit godoc
// @Summary Commit a reviewed spreadsheet import
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body ImportCommitRequest true "Reviewed rows"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/import [post]
func (h *StudentHandler) ImportCommit(c *gin.Context) {
	var req ImportCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	count, err := h.importer.Commit(c.Request.Context(), req.Students)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"imported": count}, nil)
}
