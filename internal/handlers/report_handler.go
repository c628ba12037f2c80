package handlers

import (
	"fmt"
	"net/http"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/services"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	BaseHandler
	reportService    services.ReportService
	exportService    services.ExportService
	migrationService services.MigrationService
}

func NewReportHandler(
	reportService services.ReportService,
	exportService services.ExportService,
	migrationService services.MigrationService,
	logger utils.Logger,
) *ReportHandler {
	return &ReportHandler{
		BaseHandler:      NewBaseHandler(logger),
		reportService:    reportService,
		exportService:    exportService,
		migrationService: migrationService,
	}
}

// GetSubjectAverage returns one student's computed average in one subject
// @Summary Get subject average
// @Description Computes the weighted average and letter grade; 404 when the student has no qualifying grades
// @Tags reports
// @Produce json
// @Param student_id path uint true "Student ID"
// @Param subject_id path uint true "Subject ID"
// @Param period query string false "Grading period"
// @Success 200 {object} gradebook.SubjectResult
// @Failure 404 {object} ErrorResponse
// @Router /reports/students/{student_id}/subjects/{subject_id}/average [get]
func (h *ReportHandler) GetSubjectAverage(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}
	subjectID := h.parseIDParam(c, "subject_id")
	if subjectID == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	result, err := h.reportService.SubjectAverage(c.Request.Context(), teacherID, studentID, subjectID, c.Query("period"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No grades recorded for this student in this subject",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBreakdown returns the per-category calculation audit of a subject average
// @Summary Get calculation breakdown
// @Tags reports
// @Produce json
// @Param student_id path uint true "Student ID"
// @Param subject_id path uint true "Subject ID"
// @Param period query string false "Grading period"
// @Success 200 {object} gradebook.CalculationBreakdown
// @Failure 404 {object} ErrorResponse
// @Router /reports/students/{student_id}/subjects/{subject_id}/breakdown [get]
func (h *ReportHandler) GetBreakdown(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}
	subjectID := h.parseIDParam(c, "subject_id")
	if subjectID == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	breakdown, err := h.reportService.Breakdown(c.Request.Context(), teacherID, studentID, subjectID, c.Query("period"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if breakdown == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No grades recorded for this student in this subject",
		})
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// GetReportCard returns a student's full report card for a period
// @Summary Get report card
// @Tags reports
// @Produce json
// @Param student_id path uint true "Student ID"
// @Param period query string false "Grading period"
// @Success 200 {object} gradebook.ReportCard
// @Failure 404 {object} ErrorResponse
// @Router /reports/students/{student_id}/card [get]
func (h *ReportHandler) GetReportCard(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	card, err := h.reportService.ReportCard(c.Request.Context(), teacherID, studentID, c.Query("period"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if card == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No report available for this student",
		})
		return
	}

	c.JSON(http.StatusOK, card)
}

// GetDashboard returns every student's standing in every graded subject
// @Summary Get dashboard
// @Tags reports
// @Produce json
// @Success 200 {object} services.DashboardSummary
// @Router /reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	summary, err := h.reportService.Dashboard(c.Request.Context(), teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ===== EXPORTS =====

// ExportReportCard downloads a student's report card as XLSX
// @Summary Export report card
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param student_id path uint true "Student ID"
// @Param period query string false "Grading period"
// @Success 200 {file} binary
// @Router /reports/students/{student_id}/card/export [get]
func (h *ReportHandler) ExportReportCard(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	data, err := h.exportService.ReportCardXLSX(c.Request.Context(), teacherID, studentID, c.Query("period"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("report-card-%d.xlsx", studentID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ExportGradebook downloads a subject's grade grid as XLSX
// @Summary Export gradebook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param subject_id path uint true "Subject ID"
// @Success 200 {file} binary
// @Router /reports/subjects/{subject_id}/gradebook/export [get]
func (h *ReportHandler) ExportGradebook(c *gin.Context) {
	subjectID := h.parseIDParam(c, "subject_id")
	if subjectID == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	data, err := h.exportService.GradebookXLSX(c.Request.Context(), teacherID, subjectID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("gradebook-%d.xlsx", subjectID)
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ===== MIGRATION =====

// ImportKVDump migrates a legacy key-value dump into relational rows
// @Summary Import legacy dump
// @Description One-off migration from the legacy key-value export
// @Tags migration
// @Accept json
// @Produce json
// @Success 200 {object} services.MigrationSummary
// @Failure 400 {object} ErrorResponse
// @Router /migration/kv-dump [post]
func (h *ReportHandler) ImportKVDump(c *gin.Context) {
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	summary, err := h.migrationService.ImportKVDump(c.Request.Context(), c.Request.Body, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
