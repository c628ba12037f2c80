package handlers

import (
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/services"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	subjectHandler  *SubjectHandler
	categoryHandler *CategoryHandler
	studentHandler  *StudentHandler
	gradeHandler    *GradeHandler
	reportHandler   *ReportHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		subjectHandler:  NewSubjectHandler(serviceManager.Subject(), logger),
		categoryHandler: NewCategoryHandler(serviceManager.Category(), logger),
		studentHandler:  NewStudentHandler(serviceManager.Student(), logger),
		gradeHandler:    NewGradeHandler(serviceManager.Grade(), logger),
		reportHandler:   NewReportHandler(serviceManager.Report(), serviceManager.Export(), serviceManager.Migration(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "gradeflow-backend",
		})
	})

	// API v1 routes, all teacher-scoped
	v1 := router.Group("/api/v1")
	v1.Use(TeacherMiddleware())
	{
		// Subject routes
		subjects := v1.Group("/subjects")
		{
			subjects.POST("", hm.subjectHandler.CreateSubject)
			subjects.GET("", hm.subjectHandler.ListSubjects)
			subjects.GET("/:id", hm.subjectHandler.GetSubject)
			subjects.PUT("/:id", hm.subjectHandler.UpdateSubject)
			subjects.DELETE("/:id", hm.subjectHandler.DeleteSubject)
			subjects.PUT("/:id/lessons/reorder", hm.subjectHandler.ReorderLessons)
			// The subject segment must reuse ":id"; gin rejects two wildcard
			// names in the same position of one method tree.
			subjects.DELETE("/:id/period-markers/:marker_id", hm.subjectHandler.DeletePeriodMarker)
		}

		// Lesson routes
		lessons := v1.Group("/lessons")
		{
			lessons.POST("", hm.subjectHandler.AddLesson)
			lessons.PUT("/:id", hm.subjectHandler.UpdateLesson)
			lessons.DELETE("/:id", hm.subjectHandler.DeleteLesson)
		}

		// Period marker routes
		v1.POST("/period-markers", hm.subjectHandler.AddPeriodMarker)

		// Category routes
		categories := v1.Group("/categories")
		{
			categories.POST("", hm.categoryHandler.CreateCategory)
			categories.GET("", hm.categoryHandler.ListCategories)
			categories.PUT("/:id", hm.categoryHandler.UpdateCategory)
			categories.DELETE("/:id", hm.categoryHandler.DeleteCategory)
		}

		// Student routes
		students := v1.Group("/students")
		{
			students.POST("", hm.studentHandler.CreateStudent)
			students.GET("", hm.studentHandler.ListStudents)
			students.PUT("/comments", hm.studentHandler.UpsertComment)
			students.GET("/:id", hm.studentHandler.GetStudent)
			students.PUT("/:id", hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", hm.studentHandler.DeleteStudent)
			students.POST("/:id/subjects/:subject_id", hm.studentHandler.EnrollStudent)
			students.DELETE("/:id/subjects/:subject_id", hm.studentHandler.UnenrollStudent)
		}

		// Grade routes
		grades := v1.Group("/grades")
		{
			grades.PUT("", hm.gradeHandler.UpsertGrade)
			grades.GET("", hm.gradeHandler.ListGrades)
			grades.POST("/preview", hm.gradeHandler.PreviewGrade)
			grades.DELETE("/:student_id/:lesson_id", hm.gradeHandler.DeleteGrade)
		}

		// Report routes
		reports := v1.Group("/reports")
		{
			reports.GET("/dashboard", hm.reportHandler.GetDashboard)
			reports.GET("/students/:student_id/card", hm.reportHandler.GetReportCard)
			reports.GET("/students/:student_id/card/export", hm.reportHandler.ExportReportCard)
			reports.GET("/students/:student_id/subjects/:subject_id/average", hm.reportHandler.GetSubjectAverage)
			reports.GET("/students/:student_id/subjects/:subject_id/breakdown", hm.reportHandler.GetBreakdown)
			reports.GET("/subjects/:subject_id/gradebook/export", hm.reportHandler.ExportGradebook)
		}

		// Migration route
		v1.POST("/migration/kv-dump", hm.reportHandler.ImportKVDump)
	}
}
