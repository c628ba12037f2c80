package postgres

import (
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"gorm.io/gorm"
)

type gormRepository struct {
	user     repositories.UserRepository
	student  repositories.StudentRepository
	category repositories.CategoryRepository
	subject  repositories.SubjectRepository
	grade    repositories.GradeRepository
	comment  repositories.CommentRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &gormRepository{
		user:     NewUserPostgreSQL(db),
		student:  NewStudentPostgreSQL(db),
		category: NewCategoryPostgreSQL(db),
		subject:  NewSubjectPostgreSQL(db),
		grade:    NewGradePostgreSQL(db),
		comment:  NewCommentPostgreSQL(db),
	}
}

func (r *gormRepository) User() repositories.UserRepository         { return r.user }
func (r *gormRepository) Student() repositories.StudentRepository   { return r.student }
func (r *gormRepository) Category() repositories.CategoryRepository { return r.category }
func (r *gormRepository) Subject() repositories.SubjectRepository   { return r.subject }
func (r *gormRepository) Grade() repositories.GradeRepository       { return r.grade }
func (r *gormRepository) Comment() repositories.CommentRepository   { return r.comment }

// AutoMigrate creates or updates the relational schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.GradeCategory{},
		&models.Subject{},
		&models.Lesson{},
		&models.GradingPeriodMarker{},
		&models.Grade{},
		&models.ReportComment{},
	)
}
