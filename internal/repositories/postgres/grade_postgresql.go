package postgres

import (
	"context"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GradePostgreSQL struct {
	db *gorm.DB
}

func NewGradePostgreSQL(db *gorm.DB) repositories.GradeRepository {
	return &GradePostgreSQL{db: db}
}

func (g *GradePostgreSQL) Upsert(ctx context.Context, grade *models.Grade) error {
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"points", "max_points", "percentage", "errors", "skipped", "updated_at",
		}),
	}).Create(grade).Error
}

func (g *GradePostgreSQL) GetByStudentLesson(ctx context.Context, studentID, lessonID uint) (*models.Grade, error) {
	var grade models.Grade
	err := g.db.WithContext(ctx).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (g *GradePostgreSQL) Delete(ctx context.Context, studentID, lessonID uint) error {
	return g.db.WithContext(ctx).
		Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		Delete(&models.Grade{}).Error
}

func (g *GradePostgreSQL) List(ctx context.Context, teacherID uint, filters repositories.GradeFilters) ([]*models.Grade, int64, error) {
	query := g.db.WithContext(ctx).Model(&models.Grade{}).
		Joins("JOIN lessons ON lessons.id = grades.lesson_id").
		Joins("JOIN subjects ON subjects.id = lessons.subject_id").
		Where("subjects.teacher_id = ?", teacherID)

	if filters.StudentID != nil {
		query = query.Where("grades.student_id = ?", *filters.StudentID)
	}
	if filters.SubjectID != nil {
		query = query.Where("lessons.subject_id = ?", *filters.SubjectID)
	}
	if filters.LessonID != nil {
		query = query.Where("grades.lesson_id = ?", *filters.LessonID)
	}
	if filters.Skipped != nil {
		query = query.Where("grades.skipped = ?", *filters.Skipped)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("grades.student_id ASC, lessons.position ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var grades []*models.Grade
	if err := query.Find(&grades).Error; err != nil {
		return nil, 0, err
	}
	return grades, total, nil
}

func (g *GradePostgreSQL) SnapshotForTeacher(ctx context.Context, teacherID uint) ([]models.Grade, error) {
	var grades []models.Grade
	err := g.db.WithContext(ctx).
		Joins("JOIN lessons ON lessons.id = grades.lesson_id").
		Joins("JOIN subjects ON subjects.id = lessons.subject_id").
		Where("subjects.teacher_id = ?", teacherID).
		Order("grades.student_id ASC, grades.lesson_id ASC").
		Find(&grades).Error
	return grades, err
}

func (g *GradePostgreSQL) BulkInsert(ctx context.Context, grades []models.Grade) error {
	if len(grades) == 0 {
		return nil
	}
	return g.db.WithContext(ctx).CreateInBatches(grades, 500).Error
}
