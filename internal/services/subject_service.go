package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
)

// weightSumTolerance absorbs float drift when checking that active category
// weights sum to 1.0.
const weightSumTolerance = 1e-6

type subjectService struct {
	repo      repositories.Repository
	report    ReportService
	logger    *slog.Logger
	validator *utils.Validator
}

func NewSubjectService(repo repositories.Repository, report ReportService, logger *slog.Logger, validator *utils.Validator) SubjectService {
	return &subjectService{
		repo:      repo,
		report:    report,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *subjectService) Create(ctx context.Context, req *CreateSubjectRequest, teacherID uint) (*models.Subject, error) {
	s.logger.Info("Creating subject", "teacher_id", teacherID, "name", req.Name)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if len(req.Weights) > 0 {
		if err := s.validateWeights(ctx, req.Weights, teacherID); err != nil {
			return nil, err
		}
	}

	subject := &models.Subject{
		TeacherID:      teacherID,
		Name:           req.Name,
		ReportCardName: req.ReportCardName,
	}
	if err := subject.SetWeightMap(req.Weights); err != nil {
		return nil, fmt.Errorf("failed to encode weights: %w", err)
	}

	if err := s.repo.Subject().Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	for _, studentID := range req.StudentIDs {
		owned, err := s.repo.Student().IsOwner(ctx, studentID, teacherID)
		if err != nil {
			return nil, fmt.Errorf("failed to check student ownership: %w", err)
		}
		if !owned {
			return nil, NewPermissionError(teacherID, studentID, "student", "enroll", "not owner")
		}
		if err := s.repo.Student().Enroll(ctx, studentID, subject.ID); err != nil {
			return nil, fmt.Errorf("failed to enroll student %d: %w", studentID, err)
		}
	}

	s.logger.Info("Subject created successfully", "subject_id", subject.ID)
	return subject, nil
}

func (s *subjectService) GetByID(ctx context.Context, id uint, teacherID uint) (*models.Subject, error) {
	if err := s.requireOwnership(ctx, id, teacherID, "read"); err != nil {
		return nil, err
	}

	subject, err := s.repo.Subject().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}
	return subject, nil
}

func (s *subjectService) Update(ctx context.Context, id uint, req *UpdateSubjectRequest, teacherID uint) (*models.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireOwnership(ctx, id, teacherID, "update"); err != nil {
		return nil, err
	}

	subject, err := s.repo.Subject().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.ReportCardName != nil {
		subject.ReportCardName = *req.ReportCardName
	}
	if req.Weights != nil {
		if err := s.validateWeights(ctx, req.Weights, teacherID); err != nil {
			return nil, err
		}
		if err := subject.SetWeightMap(req.Weights); err != nil {
			return nil, fmt.Errorf("failed to encode weights: %w", err)
		}
	}

	if err := s.repo.Subject().Update(ctx, subject); err != nil {
		return nil, fmt.Errorf("failed to update subject: %w", err)
	}

	// Weight changes alter every cached average for this teacher.
	if err := s.report.InvalidateCache(ctx, teacherID); err != nil {
		s.logger.Warn("failed to invalidate report cache", "teacher_id", teacherID, "error", err)
	}

	return subject, nil
}

func (s *subjectService) Delete(ctx context.Context, id uint, teacherID uint) error {
	if err := s.requireOwnership(ctx, id, teacherID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Subject().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}

	s.logger.Info("Subject deleted", "subject_id", id, "teacher_id", teacherID)
	if err := s.report.InvalidateCache(ctx, teacherID); err != nil {
		s.logger.Warn("failed to invalidate report cache", "teacher_id", teacherID, "error", err)
	}
	return nil
}

func (s *subjectService) List(ctx context.Context, teacherID uint, filters repositories.SubjectFilters) ([]*models.Subject, int64, error) {
	return s.repo.Subject().List(ctx, teacherID, filters)
}

// ===== LESSON OPERATIONS =====

func (s *subjectService) AddLesson(ctx context.Context, req *CreateLessonRequest, teacherID uint) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireOwnership(ctx, req.SubjectID, teacherID, "update"); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.CategoryID, teacherID)
	if err != nil {
		return nil, err
	}

	position, err := s.repo.Subject().NextPosition(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute lesson position: %w", err)
	}

	lesson := &models.Lesson{
		SubjectID:  req.SubjectID,
		CategoryID: categoryID,
		Name:       req.Name,
		MaxPoints:  req.MaxPoints,
		Position:   position,
	}
	if err := s.repo.Subject().CreateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	return lesson, nil
}

func (s *subjectService) UpdateLesson(ctx context.Context, id uint, req *UpdateLessonRequest, teacherID uint) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lesson, err := s.repo.Subject().GetLesson(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}
	if err := s.requireOwnership(ctx, lesson.SubjectID, teacherID, "update"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		lesson.Name = *req.Name
	}
	if req.MaxPoints != nil {
		lesson.MaxPoints = *req.MaxPoints
	}
	if req.CategoryID != nil {
		owned, err := s.repo.Category().IsOwner(ctx, *req.CategoryID, teacherID)
		if err != nil {
			return nil, fmt.Errorf("failed to check category ownership: %w", err)
		}
		if !owned {
			return nil, ErrCategoryNotFound
		}
		lesson.CategoryID = *req.CategoryID
	}

	if err := s.repo.Subject().UpdateLesson(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}

	if err := s.report.InvalidateCache(ctx, teacherID); err != nil {
		s.logger.Warn("failed to invalidate report cache", "teacher_id", teacherID, "error", err)
	}
	return lesson, nil
}

func (s *subjectService) DeleteLesson(ctx context.Context, id uint, teacherID uint) error {
	lesson, err := s.repo.Subject().GetLesson(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrLessonNotFound
		}
		return fmt.Errorf("failed to get lesson: %w", err)
	}
	if err := s.requireOwnership(ctx, lesson.SubjectID, teacherID, "update"); err != nil {
		return err
	}

	if err := s.repo.Subject().DeleteLesson(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	s.logger.Info("Lesson deleted", "lesson_id", id, "subject_id", lesson.SubjectID)

	if err := s.report.InvalidateCache(ctx, teacherID); err != nil {
		s.logger.Warn("failed to invalidate report cache", "teacher_id", teacherID, "error", err)
	}
	return nil
}

func (s *subjectService) ReorderLessons(ctx context.Context, subjectID uint, orders []repositories.LessonOrder, teacherID uint) error {
	if err := s.requireOwnership(ctx, subjectID, teacherID, "update"); err != nil {
		return err
	}
	if err := s.repo.Subject().ReorderLessons(ctx, subjectID, orders); err != nil {
		return fmt.Errorf("failed to reorder lessons: %w", err)
	}

	// Reordering can move lessons across period markers.
	if err := s.report.InvalidateCache(ctx, teacherID); err != nil {
		s.logger.Warn("failed to invalidate report cache", "teacher_id", teacherID, "error", err)
	}
	return nil
}

// ===== PERIOD MARKER OPERATIONS =====

func (s *subjectService) AddPeriodMarker(ctx context.Context, req *CreateMarkerRequest, teacherID uint) (*models.GradingPeriodMarker, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireOwnership(ctx, req.SubjectID, teacherID, "update"); err != nil {
		return nil, err
	}

	position, err := s.repo.Subject().NextPosition(ctx, req.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute marker position: %w", err)
	}

	marker := &models.GradingPeriodMarker{
		SubjectID: req.SubjectID,
		Label:     req.Label,
		Position:  position,
	}
	if err := s.repo.Subject().CreateMarker(ctx, marker); err != nil {
		return nil, fmt.Errorf("failed to create period marker: %w", err)
	}

	if err := s.report.InvalidateCache(ctx, teacherID); err != nil {
		s.logger.Warn("failed to invalidate report cache", "teacher_id", teacherID, "error", err)
	}
	return marker, nil
}

func (s *subjectService) DeletePeriodMarker(ctx context.Context, id uint, subjectID uint, teacherID uint) error {
	if err := s.requireOwnership(ctx, subjectID, teacherID, "update"); err != nil {
		return err
	}
	if err := s.repo.Subject().DeleteMarker(ctx, id); err != nil {
		return fmt.Errorf("failed to delete period marker: %w", err)
	}

	if err := s.report.InvalidateCache(ctx, teacherID); err != nil {
		s.logger.Warn("failed to invalidate report cache", "teacher_id", teacherID, "error", err)
	}
	return nil
}

// ===== HELPERS =====

func (s *subjectService) requireOwnership(ctx context.Context, subjectID, teacherID uint, action string) error {
	owned, err := s.repo.Subject().IsOwner(ctx, subjectID, teacherID)
	if err != nil {
		return fmt.Errorf("failed to check subject ownership: %w", err)
	}
	if !owned {
		return NewPermissionError(teacherID, subjectID, "subject", action, "not owner")
	}
	return nil
}

// validateWeights enforces the edit-boundary invariant: every weight key must
// reference a category the teacher owns, and the weights of the referenced
// active categories must sum to 1.0. The aggregation engine relies on this and
// never re-checks it.
func (s *subjectService) validateWeights(ctx context.Context, weights map[uint]float64, teacherID uint) error {
	categories, err := s.repo.Category().ListForTeacher(ctx, teacherID)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	byID := make(map[uint]*models.GradeCategory, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	var activeSum float64
	for id, w := range weights {
		category, ok := byID[id]
		if !ok {
			return NewValidationError("weights", fmt.Sprintf("references unknown category %d", id), id)
		}
		if w < 0 || w > 1 {
			return NewValidationError("weights", "each weight must be between 0 and 1", w)
		}
		if category.IsActive {
			activeSum += w
		}
	}

	if math.Abs(activeSum-1.0) > weightSumTolerance {
		return ErrWeightSumInvalid
	}
	return nil
}

// resolveCategory returns the requested category after an ownership check, or
// the teacher's default category when none is requested.
func (s *subjectService) resolveCategory(ctx context.Context, categoryID *uint, teacherID uint) (uint, error) {
	if categoryID != nil {
		owned, err := s.repo.Category().IsOwner(ctx, *categoryID, teacherID)
		if err != nil {
			return 0, fmt.Errorf("failed to check category ownership: %w", err)
		}
		if !owned {
			return 0, ErrCategoryNotFound
		}
		return *categoryID, nil
	}

	categories, err := s.repo.Category().ListForTeacher(ctx, teacherID)
	if err != nil {
		return 0, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, c := range categories {
		if c.IsDefault {
			return c.ID, nil
		}
	}
	return 0, NewValidationError("category_id", "no category given and no default category exists", nil)
}
