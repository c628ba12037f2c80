package postgres

import (
	"context"
	"fmt"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"gorm.io/gorm"
)

type SubjectPostgreSQL struct {
	db *gorm.DB
}

func NewSubjectPostgreSQL(db *gorm.DB) repositories.SubjectRepository {
	return &SubjectPostgreSQL{db: db}
}

func (s *SubjectPostgreSQL) Create(ctx context.Context, subject *models.Subject) error {
	return s.db.WithContext(ctx).Create(subject).Error
}

func (s *SubjectPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	err := s.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lessons.Category").
		Preload("PeriodMarkers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&subject, id).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (s *SubjectPostgreSQL) Update(ctx context.Context, subject *models.Subject) error {
	return s.db.WithContext(ctx).Save(subject).Error
}

func (s *SubjectPostgreSQL) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&models.Lesson{}).Where("subject_id = ?", id).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&models.Grade{}).Error; err != nil {
				return fmt.Errorf("failed to delete subject grades: %w", err)
			}
		}
		if err := tx.Where("subject_id = ?", id).Delete(&models.Lesson{}).Error; err != nil {
			return fmt.Errorf("failed to delete subject lessons: %w", err)
		}
		if err := tx.Where("subject_id = ?", id).Delete(&models.GradingPeriodMarker{}).Error; err != nil {
			return fmt.Errorf("failed to delete period markers: %w", err)
		}
		if err := tx.Exec("DELETE FROM student_subjects WHERE subject_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete enrollments: %w", err)
		}
		return tx.Delete(&models.Subject{}, id).Error
	})
}

func (s *SubjectPostgreSQL) List(ctx context.Context, teacherID uint, filters repositories.SubjectFilters) ([]*models.Subject, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Subject{}).Where("teacher_id = ?", teacherID)

	if filters.StudentID != nil {
		query = query.Joins("JOIN student_subjects ss ON ss.subject_id = subjects.id").
			Where("ss.student_id = ?", *filters.StudentID)
	}
	if filters.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applySort(query, filters.SortBy, filters.SortOrder, "name", map[string]bool{
		"name": true, "created_at": true,
	})
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	var subjects []*models.Subject
	if err := query.Find(&subjects).Error; err != nil {
		return nil, 0, err
	}
	return subjects, total, nil
}

func (s *SubjectPostgreSQL) SnapshotForTeacher(ctx context.Context, teacherID uint) ([]models.Subject, error) {
	var subjects []models.Subject
	err := s.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Lessons.Category").
		Preload("PeriodMarkers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("name ASC").
		Find(&subjects).Error
	return subjects, err
}

func (s *SubjectPostgreSQL) IsOwner(ctx context.Context, subjectID, teacherID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subject{}).
		Where("id = ? AND teacher_id = ?", subjectID, teacherID).
		Count(&count).Error
	return count > 0, err
}

// ===== LESSONS =====

func (s *SubjectPostgreSQL) CreateLesson(ctx context.Context, lesson *models.Lesson) error {
	return s.db.WithContext(ctx).Create(lesson).Error
}

func (s *SubjectPostgreSQL) GetLesson(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.WithContext(ctx).Preload("Category").First(&lesson, id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *SubjectPostgreSQL) UpdateLesson(ctx context.Context, lesson *models.Lesson) error {
	return s.db.WithContext(ctx).Save(lesson).Error
}

func (s *SubjectPostgreSQL) DeleteLesson(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", id).Delete(&models.Grade{}).Error; err != nil {
			return fmt.Errorf("failed to delete lesson grades: %w", err)
		}
		return tx.Delete(&models.Lesson{}, id).Error
	})
}

func (s *SubjectPostgreSQL) ReorderLessons(ctx context.Context, subjectID uint, orders []repositories.LessonOrder) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, order := range orders {
			err := tx.Model(&models.Lesson{}).
				Where("id = ? AND subject_id = ?", order.LessonID, subjectID).
				Update("position", order.Position).Error
			if err != nil {
				return fmt.Errorf("failed to reorder lesson %d: %w", order.LessonID, err)
			}
		}
		return nil
	})
}

func (s *SubjectPostgreSQL) NextPosition(ctx context.Context, subjectID uint) (int, error) {
	// Lessons and period markers share one ordering space, so the next
	// position must clear both.
	var lessonMax, markerMax int
	err := s.db.WithContext(ctx).Model(&models.Lesson{}).
		Where("subject_id = ?", subjectID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&lessonMax).Error
	if err != nil {
		return 0, err
	}
	err = s.db.WithContext(ctx).Model(&models.GradingPeriodMarker{}).
		Where("subject_id = ?", subjectID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&markerMax).Error
	if err != nil {
		return 0, err
	}
	if markerMax > lessonMax {
		return markerMax + 1, nil
	}
	return lessonMax + 1, nil
}

// ===== PERIOD MARKERS =====

func (s *SubjectPostgreSQL) CreateMarker(ctx context.Context, marker *models.GradingPeriodMarker) error {
	return s.db.WithContext(ctx).Create(marker).Error
}

func (s *SubjectPostgreSQL) DeleteMarker(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Delete(&models.GradingPeriodMarker{}, id).Error
}
