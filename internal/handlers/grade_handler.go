package handlers

import (
	"net/http"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/services"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

type GradeHandler struct {
	BaseHandler
	gradeService services.GradeService
}

func NewGradeHandler(gradeService services.GradeService, logger utils.Logger) *GradeHandler {
	return &GradeHandler{
		BaseHandler:  NewBaseHandler(logger),
		gradeService: gradeService,
	}
}

// UpsertGrade records or replaces the grade for a student/lesson pair
// @Summary Record grade
// @Description Creates or replaces the single grade row for a student and lesson
// @Tags grades
// @Accept json
// @Produce json
// @Param grade body services.UpsertGradeRequest true "Grade data"
// @Success 200 {object} models.Grade
// @Failure 400 {object} ErrorResponse
// @Router /grades [put]
func (h *GradeHandler) UpsertGrade(c *gin.Context) {
	var req services.UpsertGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	grade, err := h.gradeService.Upsert(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grade)
}

// DeleteGrade removes the grade for a student/lesson pair
// @Summary Delete grade
// @Tags grades
// @Param student_id path uint true "Student ID"
// @Param lesson_id path uint true "Lesson ID"
// @Success 200 {object} SuccessResponse
// @Router /grades/{student_id}/{lesson_id} [delete]
func (h *GradeHandler) DeleteGrade(c *gin.Context) {
	studentID := h.parseIDParam(c, "student_id")
	if studentID == 0 {
		return
	}
	lessonID := h.parseIDParam(c, "lesson_id")
	if lessonID == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	if err := h.gradeService.Delete(c.Request.Context(), studentID, lessonID, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Grade deleted"})
}

// ListGrades lists grades filtered by student, subject or lesson
// @Summary List grades
// @Tags grades
// @Produce json
// @Param student_id query uint false "Filter by student"
// @Param subject_id query uint false "Filter by subject"
// @Param lesson_id query uint false "Filter by lesson"
// @Success 200 {object} ListResponse
// @Router /grades [get]
func (h *GradeHandler) ListGrades(c *gin.Context) {
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	filters := repositories.GradeFilters{
		StudentID: h.parseUintQuery(c, "student_id"),
		SubjectID: h.parseUintQuery(c, "subject_id"),
		LessonID:  h.parseUintQuery(c, "lesson_id"),
		Limit:     h.parseIntQuery(c, "size", 100),
	}
	page := h.parseIntQuery(c, "page", 1)
	filters.Offset = (page - 1) * filters.Limit

	grades, total, err := h.gradeService.List(c.Request.Context(), teacherID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: grades, Total: total})
}

// PreviewGrade computes the subject average a pending entry would produce
// @Summary Preview grade impact
// @Description Returns the subject average with the pending entry applied, without persisting it
// @Tags grades
// @Accept json
// @Produce json
// @Param preview body services.GradePreviewRequest true "Pending entry"
// @Success 200 {object} gradebook.SubjectResult
// @Router /grades/preview [post]
func (h *GradeHandler) PreviewGrade(c *gin.Context) {
	var req services.GradePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	result, err := h.gradeService.Preview(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if result == nil {
		// Absence of a computable average is a valid preview result.
		c.JSON(http.StatusOK, gin.H{"result": nil})
		return
	}

	c.JSON(http.StatusOK, result)
}
