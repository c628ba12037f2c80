package repositories

import (
	"context"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
)

type SubjectRepository interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id uint) (*models.Subject, error)
	// GetByIDWithDetails preloads ordered lessons (with categories) and
	// period markers.
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Subject, error)
	Update(ctx context.Context, subject *models.Subject) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, teacherID uint, filters SubjectFilters) ([]*models.Subject, int64, error)
	// SnapshotForTeacher loads every subject of a teacher with lessons,
	// lesson categories and period markers preloaded in lesson order. The
	// result together with GradeRepository.SnapshotForTeacher forms the
	// consistent snapshot the aggregation engine consumes.
	SnapshotForTeacher(ctx context.Context, teacherID uint) ([]models.Subject, error)

	IsOwner(ctx context.Context, subjectID, teacherID uint) (bool, error)

	// Lesson management
	CreateLesson(ctx context.Context, lesson *models.Lesson) error
	GetLesson(ctx context.Context, id uint) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, lesson *models.Lesson) error
	DeleteLesson(ctx context.Context, id uint) error
	ReorderLessons(ctx context.Context, subjectID uint, orders []LessonOrder) error
	NextPosition(ctx context.Context, subjectID uint) (int, error)

	// Grading period markers share the lesson ordering space.
	CreateMarker(ctx context.Context, marker *models.GradingPeriodMarker) error
	DeleteMarker(ctx context.Context, id uint) error
}

type LessonOrder struct {
	LessonID uint `json:"lesson_id"`
	Position int  `json:"position"`
}
