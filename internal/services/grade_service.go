package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/events"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/gradebook"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
)

type gradeService struct {
	repo      repositories.Repository
	engine    *gradebook.Engine
	report    ReportService
	publisher events.EventPublisher
	logger    *slog.Logger
	validator *utils.Validator
}

func NewGradeService(
	repo repositories.Repository,
	engine *gradebook.Engine,
	report ReportService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
) GradeService {
	return &gradeService{
		repo:      repo,
		engine:    engine,
		report:    report,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

// Upsert writes the single grade row for a student/lesson pair. The stored
// percentage is derived from points unless an explicit percentage override is
// supplied (letter-grade and fraction entry arrive pre-converted).
func (s *gradeService) Upsert(ctx context.Context, req *UpsertGradeRequest, teacherID uint) (*models.Grade, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lesson, err := s.ownedLesson(ctx, req.LessonID, teacherID)
	if err != nil {
		return nil, err
	}
	if err := s.requireStudent(ctx, req.StudentID, teacherID); err != nil {
		return nil, err
	}

	grade := &models.Grade{
		StudentID: req.StudentID,
		LessonID:  req.LessonID,
		MaxPoints: lesson.MaxPoints,
		Errors:    req.Errors,
		Skipped:   req.Skipped,
	}

	switch {
	case req.Skipped:
		// NormalizeSkip below writes the legacy encoding.
	case req.Percentage != nil:
		grade.Percentage = *req.Percentage
		if req.Points != nil {
			grade.Points = *req.Points
		}
	case req.Points != nil:
		if *req.Points > lesson.MaxPoints {
			return nil, ErrGradePointsTooHigh
		}
		grade.Points = *req.Points
		if lesson.MaxPoints > 0 {
			grade.Percentage = *req.Points / lesson.MaxPoints * 100
		}
	default:
		return nil, NewValidationError("points", "either points or percentage is required for a non-skipped grade", nil)
	}
	grade.NormalizeSkip()

	if err := s.repo.Grade().Upsert(ctx, grade); err != nil {
		return nil, fmt.Errorf("failed to save grade: %w", err)
	}

	s.logger.Info("Grade recorded",
		"teacher_id", teacherID,
		"student_id", req.StudentID,
		"lesson_id", req.LessonID,
		"percentage", grade.Percentage,
		"skipped", grade.Skipped)

	if err := s.report.InvalidateCache(ctx, teacherID); err != nil {
		s.logger.Warn("failed to invalidate report cache", "teacher_id", teacherID, "error", err)
	}

	event := events.NewGradeRecordedEvent(teacherID, req.StudentID, lesson.SubjectID, req.LessonID, grade.Percentage, grade.Skipped)
	if err := s.publisher.PublishGradebookEvent(ctx, event); err != nil {
		// Grade entry must not fail because the broker is down.
		s.logger.Warn("failed to publish grade event", "error", err)
	}

	return grade, nil
}

func (s *gradeService) Delete(ctx context.Context, studentID, lessonID uint, teacherID uint) error {
	if _, err := s.ownedLesson(ctx, lessonID, teacherID); err != nil {
		return err
	}

	if _, err := s.repo.Grade().GetByStudentLesson(ctx, studentID, lessonID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrGradeNotFound
		}
		return fmt.Errorf("failed to get grade: %w", err)
	}

	if err := s.repo.Grade().Delete(ctx, studentID, lessonID); err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}

	if err := s.report.InvalidateCache(ctx, teacherID); err != nil {
		s.logger.Warn("failed to invalidate report cache", "teacher_id", teacherID, "error", err)
	}

	event := events.NewGradeDeletedEvent(teacherID, studentID, lessonID)
	if err := s.publisher.PublishGradebookEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish grade event", "error", err)
	}
	return nil
}

func (s *gradeService) List(ctx context.Context, teacherID uint, filters repositories.GradeFilters) ([]*models.Grade, int64, error) {
	return s.repo.Grade().List(ctx, teacherID, filters)
}

// Preview recomputes the subject average with the pending entry patched into
// an in-memory copy of the snapshot. Nothing is persisted; grade entry uses
// this for its live feedback while typing.
func (s *gradeService) Preview(ctx context.Context, req *GradePreviewRequest, teacherID uint) (*gradebook.SubjectResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lesson, err := s.ownedLesson(ctx, req.LessonID, teacherID)
	if err != nil {
		return nil, err
	}

	subjects, err := s.repo.Subject().SnapshotForTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject snapshot: %w", err)
	}
	grades, err := s.repo.Grade().SnapshotForTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grade snapshot: %w", err)
	}

	patch := models.Grade{
		StudentID: req.StudentID,
		LessonID:  req.LessonID,
		MaxPoints: lesson.MaxPoints,
		Skipped:   req.Skipped,
	}
	if req.Percentage != nil {
		patch.Percentage = *req.Percentage
	}

	replaced := false
	for i := range grades {
		if grades[i].StudentID == req.StudentID && grades[i].LessonID == req.LessonID {
			grades[i] = patch
			replaced = true
			break
		}
	}
	if !replaced {
		grades = append(grades, patch)
	}

	period := gradebook.ParsePeriod(req.Period)
	return s.engine.ComputeSubjectAverageForPeriod(req.StudentID, lesson.SubjectID, period, subjects, grades), nil
}

// ===== HELPERS =====

func (s *gradeService) ownedLesson(ctx context.Context, lessonID, teacherID uint) (*models.Lesson, error) {
	lesson, err := s.repo.Subject().GetLesson(ctx, lessonID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	owned, err := s.repo.Subject().IsOwner(ctx, lesson.SubjectID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subject ownership: %w", err)
	}
	if !owned {
		return nil, NewPermissionError(teacherID, lesson.SubjectID, "subject", "grade", "not owner")
	}
	return lesson, nil
}

func (s *gradeService) requireStudent(ctx context.Context, studentID, teacherID uint) error {
	owned, err := s.repo.Student().IsOwner(ctx, studentID, teacherID)
	if err != nil {
		return fmt.Errorf("failed to check student ownership: %w", err)
	}
	if !owned {
		return NewPermissionError(teacherID, studentID, "student", "grade", "not owner")
	}
	return nil
}
