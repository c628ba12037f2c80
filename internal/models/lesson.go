package models

import (
	"time"

	"gorm.io/gorm"
)

// Lesson is a single gradable unit inside a subject, assigned to exactly one
// grade category. Lessons are ordered within their subject by Position;
// grading period markers live in the same ordering space, so the position of
// a lesson relative to the markers decides which period it belongs to.
type Lesson struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	SubjectID  uint    `json:"subject_id" gorm:"not null;index"`
	CategoryID uint    `json:"category_id" gorm:"not null;index"`
	Name       string  `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	MaxPoints  float64 `json:"max_points" gorm:"not null" validate:"required,gt=0"`
	Position   int     `json:"position" gorm:"not null;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Subject  Subject       `json:"-" gorm:"foreignKey:SubjectID"`
	Category GradeCategory `json:"category" gorm:"foreignKey:CategoryID"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// GradingPeriodMarker delimits grading periods inside a subject. Markers are
// interleaved with lessons in the shared Position ordering: lessons before
// the first marker belong to period 1, lessons between the first and second
// marker to period 2, and so on.
type GradingPeriodMarker struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	SubjectID uint   `json:"subject_id" gorm:"not null;index"`
	Label     string `json:"label" gorm:"size:100"`
	Position  int    `json:"position" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Subject Subject `json:"-" gorm:"foreignKey:SubjectID"`
}

func (GradingPeriodMarker) TableName() string {
	return "grading_period_markers"
}
