package repositories

import (
	"context"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
)

type StudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, teacherID uint, filters StudentFilters) ([]*models.Student, int64, error)
	// ListForTeacher loads every student of a teacher without pagination;
	// used for aggregation snapshots.
	ListForTeacher(ctx context.Context, teacherID uint) ([]models.Student, error)

	// Enrollment management
	Enroll(ctx context.Context, studentID, subjectID uint) error
	Unenroll(ctx context.Context, studentID, subjectID uint) error
	EnrolledSubjectIDs(ctx context.Context, studentID uint) ([]uint, error)

	IsOwner(ctx context.Context, studentID, teacherID uint) (bool, error)
}

// CommentRepository manages per-student, per-period report remarks.
type CommentRepository interface {
	Upsert(ctx context.Context, comment *models.ReportComment) error
	GetForPeriod(ctx context.Context, teacherID uint, period string) (map[uint]string, error)
	Delete(ctx context.Context, teacherID, studentID uint, period string) error
}
