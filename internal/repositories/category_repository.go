package repositories

import (
	"context"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.GradeCategory) error
	GetByID(ctx context.Context, id uint) (*models.GradeCategory, error)
	Update(ctx context.Context, category *models.GradeCategory) error
	Delete(ctx context.Context, id uint) error

	ListForTeacher(ctx context.Context, teacherID uint) ([]models.GradeCategory, error)
	// LessonCount reports how many lessons are assigned to a category;
	// deletion is refused while it is nonzero.
	LessonCount(ctx context.Context, categoryID uint) (int64, error)
	// ClearDefault drops the default flag from every category of a teacher;
	// called before promoting a new default so at most one ever carries it.
	ClearDefault(ctx context.Context, teacherID uint) error

	IsOwner(ctx context.Context, categoryID, teacherID uint) (bool, error)
}
