package handlers

import (
	"net/http"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/services"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

type SubjectHandler struct {
	BaseHandler
	subjectService services.SubjectService
}

func NewSubjectHandler(subjectService services.SubjectService, logger utils.Logger) *SubjectHandler {
	return &SubjectHandler{
		BaseHandler:    NewBaseHandler(logger),
		subjectService: subjectService,
	}
}

// CreateSubject creates a new subject
// @Summary Create subject
// @Description Creates a subject with optional category weights and initial enrollments
// @Tags subjects
// @Accept json
// @Produce json
// @Param subject body services.CreateSubjectRequest true "Subject data"
// @Success 201 {object} models.Subject
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /subjects [post]
func (h *SubjectHandler) CreateSubject(c *gin.Context) {
	var req services.CreateSubjectRequest
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

	subject, err := h.subjectService.Create(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subject)
}

// GetSubject retrieves a subject with lessons and period markers
// @Summary Get subject
// @Tags subjects
// @Produce json
// @Param id path uint true "Subject ID"
// @Success 200 {object} models.Subject
// @Failure 404 {object} ErrorResponse
// @Router /subjects/{id} [get]
func (h *SubjectHandler) GetSubject(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	subject, err := h.subjectService.GetByID(c.Request.Context(), id, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// ListSubjects lists the teacher's subjects
// @Summary List subjects
// @Tags subjects
// @Produce json
// @Param search query string false "Name search"
// @Param student_id query uint false "Filter by enrolled student"
// @Success 200 {object} ListResponse
// @Router /subjects [get]
func (h *SubjectHandler) ListSubjects(c *gin.Context) {
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	filters := repositories.SubjectFilters{
		StudentID: h.parseUintQuery(c, "student_id"),
		Search:    c.Query("search"),
		Limit:     h.parseIntQuery(c, "size", 50),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	page := h.parseIntQuery(c, "page", 1)
	filters.Offset = (page - 1) * filters.Limit

	subjects, total, err := h.subjectService.List(c.Request.Context(), teacherID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: subjects, Total: total})
}

// UpdateSubject updates a subject's name, report-card name or weights
// @Summary Update subject
// @Tags subjects
// @Accept json
// @Produce json
// @Param id path uint true "Subject ID"
// @Param subject body services.UpdateSubjectRequest true "Subject update data"
// @Success 200 {object} models.Subject
// @Failure 400 {object} ErrorResponse
// @Router /subjects/{id} [put]
func (h *SubjectHandler) UpdateSubject(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateSubjectRequest
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

	subject, err := h.subjectService.Update(c.Request.Context(), id, &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, subject)
}

// DeleteSubject deletes a subject with its lessons, markers and grades
// @Summary Delete subject
// @Tags subjects
// @Param id path uint true "Subject ID"
// @Success 200 {object} SuccessResponse
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) DeleteSubject(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), id, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Subject deleted"})
}

// ===== LESSONS =====

// AddLesson appends a lesson to a subject
// @Summary Add lesson
// @Tags subjects
// @Accept json
// @Produce json
// @Param lesson body services.CreateLessonRequest true "Lesson data"
// @Success 201 {object} models.Lesson
// @Router /lessons [post]
func (h *SubjectHandler) AddLesson(c *gin.Context) {
	var req services.CreateLessonRequest
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

	lesson, err := h.subjectService.AddLesson(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// UpdateLesson updates a lesson's name, category or maximum points
// @Summary Update lesson
// @Tags subjects
// @Accept json
// @Produce json
// @Param id path uint true "Lesson ID"
// @Param lesson body services.UpdateLessonRequest true "Lesson update data"
// @Success 200 {object} models.Lesson
// @Router /lessons/{id} [put]
func (h *SubjectHandler) UpdateLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateLessonRequest
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

	lesson, err := h.subjectService.UpdateLesson(c.Request.Context(), id, &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// DeleteLesson deletes a lesson and its grades
// @Summary Delete lesson
// @Tags subjects
// @Param id path uint true "Lesson ID"
// @Success 200 {object} SuccessResponse
// @Router /lessons/{id} [delete]
func (h *SubjectHandler) DeleteLesson(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	if err := h.subjectService.DeleteLesson(c.Request.Context(), id, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Lesson deleted"})
}

// ReorderLessons rewrites the lesson positions of a subject
// @Summary Reorder lessons
// @Tags subjects
// @Accept json
// @Param id path uint true "Subject ID"
// @Param orders body []repositories.LessonOrder true "New lesson positions"
// @Success 200 {object} SuccessResponse
// @Router /subjects/{id}/lessons/reorder [put]
func (h *SubjectHandler) ReorderLessons(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var orders []repositories.LessonOrder
	if err := c.ShouldBindJSON(&orders); err != nil {
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

	if err := h.subjectService.ReorderLessons(c.Request.Context(), id, orders, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Lessons reordered"})
}

// ===== PERIOD MARKERS =====

// AddPeriodMarker appends a grading period marker to a subject
// @Summary Add period marker
// @Tags subjects
// @Accept json
// @Produce json
// @Param marker body services.CreateMarkerRequest true "Marker data"
// @Success 201 {object} models.GradingPeriodMarker
// @Router /period-markers [post]
func (h *SubjectHandler) AddPeriodMarker(c *gin.Context) {
	var req services.CreateMarkerRequest
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

	marker, err := h.subjectService.AddPeriodMarker(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, marker)
}

// DeletePeriodMarker removes a grading period marker
// @Summary Delete period marker
// @Tags subjects
// @Param id path uint true "Subject ID"
// @Param marker_id path uint true "Marker ID"
// @Success 200 {object} SuccessResponse
// @Router /subjects/{id}/period-markers/{marker_id} [delete]
func (h *SubjectHandler) DeletePeriodMarker(c *gin.Context) {
	subjectID := h.parseIDParam(c, "id")
	if subjectID == 0 {
		return
	}
	id := h.parseIDParam(c, "marker_id")
	if id == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	if err := h.subjectService.DeletePeriodMarker(c.Request.Context(), id, subjectID, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Period marker deleted"})
}
