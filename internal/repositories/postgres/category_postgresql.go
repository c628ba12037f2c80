package postgres

import (
	"context"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"gorm.io/gorm"
)

type CategoryPostgreSQL struct {
	db *gorm.DB
}

func NewCategoryPostgreSQL(db *gorm.DB) repositories.CategoryRepository {
	return &CategoryPostgreSQL{db: db}
}

func (c *CategoryPostgreSQL) Create(ctx context.Context, category *models.GradeCategory) error {
	return c.db.WithContext(ctx).Create(category).Error
}

func (c *CategoryPostgreSQL) GetByID(ctx context.Context, id uint) (*models.GradeCategory, error) {
	var category models.GradeCategory
	if err := c.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *CategoryPostgreSQL) Update(ctx context.Context, category *models.GradeCategory) error {
	return c.db.WithContext(ctx).Save(category).Error
}

func (c *CategoryPostgreSQL) Delete(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Delete(&models.GradeCategory{}, id).Error
}

func (c *CategoryPostgreSQL) ListForTeacher(ctx context.Context, teacherID uint) ([]models.GradeCategory, error) {
	var categories []models.GradeCategory
	err := c.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (c *CategoryPostgreSQL) LessonCount(ctx context.Context, categoryID uint) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Lesson{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (c *CategoryPostgreSQL) ClearDefault(ctx context.Context, teacherID uint) error {
	return c.db.WithContext(ctx).Model(&models.GradeCategory{}).
		Where("teacher_id = ? AND is_default = true", teacherID).
		Update("is_default", false).Error
}

func (c *CategoryPostgreSQL) IsOwner(ctx context.Context, categoryID, teacherID uint) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.GradeCategory{}).
		Where("id = ? AND teacher_id = ?", categoryID, teacherID).
		Count(&count).Error
	return count > 0, err
}
