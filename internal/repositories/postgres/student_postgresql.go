package postgres

import (
	"context"
	"fmt"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentPostgreSQL struct {
	db *gorm.DB
}

func NewStudentPostgreSQL(db *gorm.DB) repositories.StudentRepository {
	return &StudentPostgreSQL{db: db}
}

func (s *StudentPostgreSQL) Create(ctx context.Context, student *models.Student) error {
	return s.db.WithContext(ctx).Create(student).Error
}

func (s *StudentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	var student models.Student
	if err := s.db.WithContext(ctx).Preload("Subjects").First(&student, id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) Update(ctx context.Context, student *models.Student) error {
	return s.db.WithContext(ctx).Save(student).Error
}

func (s *StudentPostgreSQL) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.Grade{}).Error; err != nil {
			return fmt.Errorf("failed to delete student grades: %w", err)
		}
		if err := tx.Exec("DELETE FROM student_subjects WHERE student_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		return tx.Delete(&models.Student{}, id).Error
	})
}

func (s *StudentPostgreSQL) List(ctx context.Context, teacherID uint, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Student{}).Where("teacher_id = ?", teacherID)

	if filters.SubjectID != nil {
		query = query.Joins("JOIN student_subjects ss ON ss.student_id = students.id").
			Where("ss.subject_id = ?", *filters.SubjectID)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, "last_name", map[string]bool{
		"last_name": true, "first_name": true, "created_at": true,
	})
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var students []*models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

func (s *StudentPostgreSQL) ListForTeacher(ctx context.Context, teacherID uint) ([]models.Student, error) {
	var students []models.Student
	err := s.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("last_name ASC, first_name ASC").
		Find(&students).Error
	return students, err
}

func (s *StudentPostgreSQL) Enroll(ctx context.Context, studentID, subjectID uint) error {
	return s.db.WithContext(ctx).Exec(
		"INSERT INTO student_subjects (student_id, subject_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		studentID, subjectID).Error
}

func (s *StudentPostgreSQL) Unenroll(ctx context.Context, studentID, subjectID uint) error {
	return s.db.WithContext(ctx).Exec(
		"DELETE FROM student_subjects WHERE student_id = ? AND subject_id = ?",
		studentID, subjectID).Error
}

func (s *StudentPostgreSQL) EnrolledSubjectIDs(ctx context.Context, studentID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Table("student_subjects").
		Where("student_id = ?", studentID).
		Pluck("subject_id", &ids).Error
	return ids, err
}

func (s *StudentPostgreSQL) IsOwner(ctx context.Context, studentID, teacherID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Student{}).
		Where("id = ? AND teacher_id = ?", studentID, teacherID).
		Count(&count).Error
	return count > 0, err
}

// ===== REPORT COMMENTS =====

type CommentPostgreSQL struct {
	db *gorm.DB
}

func NewCommentPostgreSQL(db *gorm.DB) repositories.CommentRepository {
	return &CommentPostgreSQL{db: db}
}

func (c *CommentPostgreSQL) Upsert(ctx context.Context, comment *models.ReportComment) error {
	return c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "period"}},
		DoUpdates: clause.AssignmentColumns([]string{"comment", "updated_at"}),
	}).Create(comment).Error
}

func (c *CommentPostgreSQL) GetForPeriod(ctx context.Context, teacherID uint, period string) (map[uint]string, error) {
	var comments []models.ReportComment
	err := c.db.WithContext(ctx).
		Where("teacher_id = ? AND period = ?", teacherID, period).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	result := make(map[uint]string, len(comments))
	for _, comment := range comments {
		result[comment.StudentID] = comment.Comment
	}
	return result, nil
}

func (c *CommentPostgreSQL) Delete(ctx context.Context, teacherID, studentID uint, period string) error {
	return c.db.WithContext(ctx).
		Where("teacher_id = ? AND student_id = ? AND period = ?", teacherID, studentID, period).
		Delete(&models.ReportComment{}).Error
}
