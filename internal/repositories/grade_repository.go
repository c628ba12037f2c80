package repositories

import (
	"context"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
)

type GradeRepository interface {
	// Upsert writes the single grade row for a student/lesson pair,
	// creating or replacing as needed.
	Upsert(ctx context.Context, grade *models.Grade) error
	GetByStudentLesson(ctx context.Context, studentID, lessonID uint) (*models.Grade, error)
	Delete(ctx context.Context, studentID, lessonID uint) error

	List(ctx context.Context, teacherID uint, filters GradeFilters) ([]*models.Grade, int64, error)
	// SnapshotForTeacher loads every grade belonging to a teacher's
	// subjects in one read, for aggregation snapshots.
	SnapshotForTeacher(ctx context.Context, teacherID uint) ([]models.Grade, error)

	// BulkInsert is used by the key-value migration.
	BulkInsert(ctx context.Context, grades []models.Grade) error
}
