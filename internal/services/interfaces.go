package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/cache"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/events"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/gradebook"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
)

// ===== SERVICE INTERFACES =====

type SubjectService interface {
	Create(ctx context.Context, req *CreateSubjectRequest, teacherID uint) (*models.Subject, error)
	GetByID(ctx context.Context, id uint, teacherID uint) (*models.Subject, error)
	Update(ctx context.Context, id uint, req *UpdateSubjectRequest, teacherID uint) (*models.Subject, error)
	Delete(ctx context.Context, id uint, teacherID uint) error
	List(ctx context.Context, teacherID uint, filters repositories.SubjectFilters) ([]*models.Subject, int64, error)

	// Lessons and period markers
	AddLesson(ctx context.Context, req *CreateLessonRequest, teacherID uint) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, id uint, req *UpdateLessonRequest, teacherID uint) (*models.Lesson, error)
	DeleteLesson(ctx context.Context, id uint, teacherID uint) error
	ReorderLessons(ctx context.Context, subjectID uint, orders []repositories.LessonOrder, teacherID uint) error
	AddPeriodMarker(ctx context.Context, req *CreateMarkerRequest, teacherID uint) (*models.GradingPeriodMarker, error)
	DeletePeriodMarker(ctx context.Context, id uint, subjectID uint, teacherID uint) error
}

type CategoryService interface {
	Create(ctx context.Context, req *CreateCategoryRequest, teacherID uint) (*models.GradeCategory, error)
	Update(ctx context.Context, id uint, req *UpdateCategoryRequest, teacherID uint) (*models.GradeCategory, error)
	Delete(ctx context.Context, id uint, teacherID uint) error
	List(ctx context.Context, teacherID uint) ([]models.GradeCategory, error)
}

type StudentService interface {
	Create(ctx context.Context, req *CreateStudentRequest, teacherID uint) (*models.Student, error)
	GetByID(ctx context.Context, id uint, teacherID uint) (*models.Student, error)
	Update(ctx context.Context, id uint, req *UpdateStudentRequest, teacherID uint) (*models.Student, error)
	Delete(ctx context.Context, id uint, teacherID uint) error
	List(ctx context.Context, teacherID uint, filters repositories.StudentFilters) ([]*models.Student, int64, error)

	Enroll(ctx context.Context, studentID, subjectID uint, teacherID uint) error
	Unenroll(ctx context.Context, studentID, subjectID uint, teacherID uint) error

	UpsertComment(ctx context.Context, req *UpsertCommentRequest, teacherID uint) error
}

type GradeService interface {
	Upsert(ctx context.Context, req *UpsertGradeRequest, teacherID uint) (*models.Grade, error)
	Delete(ctx context.Context, studentID, lessonID uint, teacherID uint) error
	List(ctx context.Context, teacherID uint, filters repositories.GradeFilters) ([]*models.Grade, int64, error)

	// Preview computes the subject average a pending edit would produce
	// without persisting anything.
	Preview(ctx context.Context, req *GradePreviewRequest, teacherID uint) (*gradebook.SubjectResult, error)
}

type ReportService interface {
	// SubjectAverage returns nil without error when the student has no
	// qualifying grades; absence is a valid state, not a failure.
	SubjectAverage(ctx context.Context, teacherID, studentID, subjectID uint, period string) (*gradebook.SubjectResult, error)
	Breakdown(ctx context.Context, teacherID, studentID, subjectID uint, period string) (*gradebook.CalculationBreakdown, error)
	ReportCard(ctx context.Context, teacherID, studentID uint, period string) (*gradebook.ReportCard, error)
	Dashboard(ctx context.Context, teacherID uint) (*DashboardSummary, error)

	// InvalidateCache drops every cached report for a teacher; grade and
	// subject writes call it so reads never serve stale averages.
	InvalidateCache(ctx context.Context, teacherID uint) error
}

type ExportService interface {
	ReportCardXLSX(ctx context.Context, teacherID, studentID uint, period string) ([]byte, error)
	GradebookXLSX(ctx context.Context, teacherID, subjectID uint) ([]byte, error)
}

type MigrationService interface {
	// ImportKVDump performs the one-off migration from the legacy
	// key-value dump into relational rows for one teacher.
	ImportKVDump(ctx context.Context, r io.Reader, teacherID uint) (*MigrationSummary, error)
}

// ===== REQUEST / RESPONSE STRUCTS =====

type CreateSubjectRequest struct {
	Name           string           `json:"name" validate:"required,min=1,max=200"`
	ReportCardName string           `json:"report_card_name" validate:"max=200"`
	Weights        map[uint]float64 `json:"weights" validate:"omitempty,dive,min=0,max=1"`
	StudentIDs     []uint           `json:"student_ids"`
}

type UpdateSubjectRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	ReportCardName *string          `json:"report_card_name" validate:"omitempty,max=200"`
	Weights        map[uint]float64 `json:"weights" validate:"omitempty,dive,min=0,max=1"`
}

type CreateLessonRequest struct {
	SubjectID  uint    `json:"subject_id" validate:"required"`
	CategoryID *uint   `json:"category_id"`
	Name       string  `json:"name" validate:"required,min=1,max=200"`
	MaxPoints  float64 `json:"max_points" validate:"required,gt=0"`
}

type UpdateLessonRequest struct {
	CategoryID *uint    `json:"category_id"`
	Name       *string  `json:"name" validate:"omitempty,min=1,max=200"`
	MaxPoints  *float64 `json:"max_points" validate:"omitempty,gt=0"`
}

type CreateMarkerRequest struct {
	SubjectID uint   `json:"subject_id" validate:"required"`
	Label     string `json:"label" validate:"max=100"`
}

type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	IsActive  *bool  `json:"is_active"`
	IsDefault bool   `json:"is_default"`
}

type UpdateCategoryRequest struct {
	Name      *string `json:"name" validate:"omitempty,min=1,max=100"`
	IsActive  *bool   `json:"is_active"`
	IsDefault *bool   `json:"is_default"`
}

type CreateStudentRequest struct {
	FirstName  string `json:"first_name" validate:"required,min=1,max=100"`
	LastName   string `json:"last_name" validate:"max=100"`
	SubjectIDs []uint `json:"subject_ids"`
}

type UpdateStudentRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
}

type UpsertCommentRequest struct {
	StudentID uint   `json:"student_id" validate:"required"`
	Period    string `json:"period" validate:"max=20"`
	Comment   string `json:"comment" validate:"max=2000"`
}

// UpsertGradeRequest records one student's result on one lesson. Either
// Points or Percentage must be supplied for a non-skipped entry; Percentage
// wins when both are present (override entry).
type UpsertGradeRequest struct {
	StudentID  uint     `json:"student_id" validate:"required"`
	LessonID   uint     `json:"lesson_id" validate:"required"`
	Points     *float64 `json:"points" validate:"omitempty,min=0"`
	Percentage *float64 `json:"percentage" validate:"omitempty,min=0,max=100"`
	Errors     float64  `json:"errors" validate:"min=0"`
	Skipped    bool     `json:"skipped"`
}

type GradePreviewRequest struct {
	StudentID  uint     `json:"student_id" validate:"required"`
	LessonID   uint     `json:"lesson_id" validate:"required"`
	Percentage *float64 `json:"percentage" validate:"omitempty,min=0,max=100"`
	Skipped    bool     `json:"skipped"`
	Period     string   `json:"period" validate:"max=20"`
}

// DashboardSummary is the per-student, per-subject overview the dashboard
// renders. Every number in it comes from the aggregation engine.
type DashboardSummary struct {
	TeacherID uint               `json:"teacher_id"`
	Students  []DashboardStudent `json:"students"`
}

type DashboardStudent struct {
	StudentID   uint                      `json:"student_id"`
	StudentName string                    `json:"student_name"`
	Subjects    []gradebook.SubjectResult `json:"subjects"`
	OverallGPA  float64                   `json:"overall_gpa"`
}

type MigrationSummary struct {
	Categories      int `json:"categories"`
	Subjects        int `json:"subjects"`
	Lessons         int `json:"lessons"`
	PeriodMarkers   int `json:"period_markers"`
	Students        int `json:"students"`
	Grades          int `json:"grades"`
	SkipsNormalized int `json:"skips_normalized"`
	SkippedRecords  int `json:"skipped_records"`
}

// ===== SERVICE MANAGER =====

// ServiceManager wires every service over one repository, engine, cache and
// event publisher.
type ServiceManager interface {
	Subject() SubjectService
	Category() CategoryService
	Student() StudentService
	Grade() GradeService
	Report() ReportService
	Export() ExportService
	Migration() MigrationService
}

type serviceManager struct {
	subject   SubjectService
	category  CategoryService
	student   StudentService
	grade     GradeService
	report    ReportService
	export    ExportService
	migration MigrationService
}

func NewServiceManager(
	repo repositories.Repository,
	engine *gradebook.Engine,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) ServiceManager {
	report := NewReportService(repo, engine, cacheService, publisher, logger)
	return &serviceManager{
		subject:   NewSubjectService(repo, report, logger, validator),
		category:  NewCategoryService(repo, logger, validator),
		student:   NewStudentService(repo, logger, validator),
		grade:     NewGradeService(repo, engine, report, publisher, logger, validator),
		report:    report,
		export:    NewExportService(repo, report, logger),
		migration: NewMigrationService(repo, publisher, logger),
	}
}

func (m *serviceManager) Subject() SubjectService     { return m.subject }
func (m *serviceManager) Category() CategoryService   { return m.category }
func (m *serviceManager) Student() StudentService     { return m.student }
func (m *serviceManager) Grade() GradeService         { return m.grade }
func (m *serviceManager) Report() ReportService       { return m.report }
func (m *serviceManager) Export() ExportService       { return m.export }
func (m *serviceManager) Migration() MigrationService { return m.migration }
