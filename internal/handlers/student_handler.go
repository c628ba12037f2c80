package handlers

import (
	"net/http"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/services"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	BaseHandler
	studentService services.StudentService
}

func NewStudentHandler(studentService services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler:    NewBaseHandler(logger),
		studentService: studentService,
	}
}

// CreateStudent creates a student with optional initial enrollments
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Param student body services.CreateStudentRequest true "Student data"
// @Success 201 {object} models.Student
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var req services.CreateStudentRequest
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

	student, err := h.studentService.Create(c.Request.Context(), &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// GetStudent retrieves a student by ID
// @Summary Get student
// @Tags students
// @Produce json
// @Param id path uint true "Student ID"
// @Success 200 {object} models.Student
// @Failure 404 {object} ErrorResponse
// @Router /students/{id} [get]
func (h *StudentHandler) GetStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	student, err := h.studentService.GetByID(c.Request.Context(), id, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// ListStudents lists the teacher's students
// @Summary List students
// @Tags students
// @Produce json
// @Param search query string false "Name search"
// @Param subject_id query uint false "Filter by enrolled subject"
// @Success 200 {object} ListResponse
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	filters := repositories.StudentFilters{
		SubjectID: h.parseUintQuery(c, "subject_id"),
		Search:    c.Query("search"),
		Limit:     h.parseIntQuery(c, "size", 50),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	page := h.parseIntQuery(c, "page", 1)
	filters.Offset = (page - 1) * filters.Limit

	students, total, err := h.studentService.List(c.Request.Context(), teacherID, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Data: students, Total: total})
}

// UpdateStudent updates a student's name
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param id path uint true "Student ID"
// @Param student body services.UpdateStudentRequest true "Student update data"
// @Success 200 {object} models.Student
// @Router /students/{id} [put]
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateStudentRequest
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

	student, err := h.studentService.Update(c.Request.Context(), id, &req, teacherID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent deletes a student with their grades and enrollments
// @Summary Delete student
// @Tags students
// @Param id path uint true "Student ID"
// @Success 200 {object} SuccessResponse
// @Router /students/{id} [delete]
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}
	teacherID, ok := h.teacherID(c)
	if !ok {
		return
	}

	if err := h.studentService.Delete(c.Request.Context(), id, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Student deleted"})
}

// ===== ENROLLMENT =====

// EnrollStudent enrolls a student in a subject
// @Summary Enroll student
// @Tags students
// @Param id path uint true "Student ID"
// @Param subject_id path uint true "Subject ID"
// @Success 200 {object} SuccessResponse
// @Router /students/{id}/subjects/{subject_id} [post]
func (h *StudentHandler) EnrollStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
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

	if err := h.studentService.Enroll(c.Request.Context(), id, subjectID, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Student enrolled"})
}

// UnenrollStudent removes a student from a subject
// @Summary Unenroll student
// @Tags students
// @Param id path uint true "Student ID"
// @Param subject_id path uint true "Subject ID"
// @Success 200 {object} SuccessResponse
// @Router /students/{id}/subjects/{subject_id} [delete]
func (h *StudentHandler) UnenrollStudent(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
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

	if err := h.studentService.Unenroll(c.Request.Context(), id, subjectID, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Student unenrolled"})
}

// UpsertComment saves the report-card comment for a student and period
// @Summary Save report comment
// @Tags students
// @Accept json
// @Param comment body services.UpsertCommentRequest true "Comment data"
// @Success 200 {object} SuccessResponse
// @Router /students/comments [put]
func (h *StudentHandler) UpsertComment(c *gin.Context) {
	var req services.UpsertCommentRequest
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

	if err := h.studentService.UpsertComment(c.Request.Context(), &req, teacherID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Comment saved"})
}
