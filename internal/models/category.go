package models

import (
	"time"

	"gorm.io/gorm"
)

// GradeCategory is a class of assessment ("Test", "Lesson", "Quiz") that
// lessons are assigned to. Subject weight maps are keyed by category id.
// Inactive categories contribute zero weight to any average. At most one
// category per teacher may be the default for new lessons; that invariant is
// enforced at the editing boundary, not inside the aggregation engine.
type GradeCategory struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	TeacherID uint   `json:"teacher_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
	IsDefault bool   `json:"is_default" gorm:"default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Teacher User `json:"-" gorm:"foreignKey:TeacherID"`
}

func (GradeCategory) TableName() string {
	return "grade_categories"
}
