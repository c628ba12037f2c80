package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
)

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) StudentService {
	return &studentService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *studentService) Create(ctx context.Context, req *CreateStudentRequest, teacherID uint) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	student := &models.Student{
		TeacherID: teacherID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := s.repo.Student().Create(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	for _, subjectID := range req.SubjectIDs {
		owned, err := s.repo.Subject().IsOwner(ctx, subjectID, teacherID)
		if err != nil {
			return nil, fmt.Errorf("failed to check subject ownership: %w", err)
		}
		if !owned {
			return nil, NewPermissionError(teacherID, subjectID, "subject", "enroll", "not owner")
		}
		if err := s.repo.Student().Enroll(ctx, student.ID, subjectID); err != nil {
			return nil, fmt.Errorf("failed to enroll in subject %d: %w", subjectID, err)
		}
	}

	s.logger.Info("Student created", "student_id", student.ID, "teacher_id", teacherID)
	return student, nil
}

func (s *studentService) GetByID(ctx context.Context, id uint, teacherID uint) (*models.Student, error) {
	student, err := s.getOwned(ctx, id, teacherID, "read")
	if err != nil {
		return nil, err
	}
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req *UpdateStudentRequest, teacherID uint) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	student, err := s.getOwned(ctx, id, teacherID, "update")
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}

	if err := s.repo.Student().Update(ctx, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}
	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id uint, teacherID uint) error {
	if _, err := s.getOwned(ctx, id, teacherID, "delete"); err != nil {
		return err
	}

	// The repository removes the student's grades and enrollments in the
	// same transaction.
	if err := s.repo.Student().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	s.logger.Info("Student deleted", "student_id", id, "teacher_id", teacherID)
	return nil
}

func (s *studentService) List(ctx context.Context, teacherID uint, filters repositories.StudentFilters) ([]*models.Student, int64, error) {
	return s.repo.Student().List(ctx, teacherID, filters)
}

// ===== ENROLLMENT =====

func (s *studentService) Enroll(ctx context.Context, studentID, subjectID uint, teacherID uint) error {
	if _, err := s.getOwned(ctx, studentID, teacherID, "enroll"); err != nil {
		return err
	}
	owned, err := s.repo.Subject().IsOwner(ctx, subjectID, teacherID)
	if err != nil {
		return fmt.Errorf("failed to check subject ownership: %w", err)
	}
	if !owned {
		return NewPermissionError(teacherID, subjectID, "subject", "enroll", "not owner")
	}
	return s.repo.Student().Enroll(ctx, studentID, subjectID)
}

func (s *studentService) Unenroll(ctx context.Context, studentID, subjectID uint, teacherID uint) error {
	if _, err := s.getOwned(ctx, studentID, teacherID, "unenroll"); err != nil {
		return err
	}
	return s.repo.Student().Unenroll(ctx, studentID, subjectID)
}

// ===== REPORT COMMENTS =====

func (s *studentService) UpsertComment(ctx context.Context, req *UpsertCommentRequest, teacherID uint) error {
	if err := s.validator.Validate(req); err != nil {
		return err
	}
	if _, err := s.getOwned(ctx, req.StudentID, teacherID, "comment"); err != nil {
		return err
	}

	comment := &models.ReportComment{
		TeacherID: teacherID,
		StudentID: req.StudentID,
		Period:    req.Period,
		Comment:   req.Comment,
	}
	if err := s.repo.Comment().Upsert(ctx, comment); err != nil {
		return fmt.Errorf("failed to save report comment: %w", err)
	}
	return nil
}

func (s *studentService) getOwned(ctx context.Context, id, teacherID uint, action string) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student.TeacherID != teacherID {
		return nil, NewPermissionError(teacherID, id, "student", action, "not owner")
	}
	return student, nil
}
