package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
)

type categoryService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *utils.Validator
}

func NewCategoryService(repo repositories.Repository, logger *slog.Logger, validator *utils.Validator) CategoryService {
	return &categoryService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *categoryService) Create(ctx context.Context, req *CreateCategoryRequest, teacherID uint) (*models.GradeCategory, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category := &models.GradeCategory{
		TeacherID: teacherID,
		Name:      req.Name,
		IsActive:  true,
		IsDefault: req.IsDefault,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if req.IsDefault {
		if err := s.repo.Category().ClearDefault(ctx, teacherID); err != nil {
			return nil, fmt.Errorf("failed to clear default category: %w", err)
		}
	}
	if err := s.repo.Category().Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info("Category created", "category_id", category.ID, "teacher_id", teacherID)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id uint, req *UpdateCategoryRequest, teacherID uint) (*models.GradeCategory, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	category, err := s.getOwned(ctx, id, teacherID, "update")
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.IsDefault != nil {
		if *req.IsDefault && !category.IsDefault {
			if err := s.repo.Category().ClearDefault(ctx, teacherID); err != nil {
				return nil, fmt.Errorf("failed to clear default category: %w", err)
			}
		}
		category.IsDefault = *req.IsDefault
	}

	if err := s.repo.Category().Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint, teacherID uint) error {
	if _, err := s.getOwned(ctx, id, teacherID, "delete"); err != nil {
		return err
	}

	count, err := s.repo.Category().LessonCount(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count category lessons: %w", err)
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	if err := s.repo.Category().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.logger.Info("Category deleted", "category_id", id, "teacher_id", teacherID)
	return nil
}

func (s *categoryService) List(ctx context.Context, teacherID uint) ([]models.GradeCategory, error) {
	return s.repo.Category().ListForTeacher(ctx, teacherID)
}

func (s *categoryService) getOwned(ctx context.Context, id, teacherID uint, action string) (*models.GradeCategory, error) {
	category, err := s.repo.Category().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category.TeacherID != teacherID {
		return nil, NewPermissionError(teacherID, id, "category", action, "not owner")
	}
	return category, nil
}
