package models

import (
	"time"
)

// Grade is one student's result on one lesson. Exactly one row exists per
// student/lesson pair; grade entry upserts it.
//
// Percentage is stored independently rather than derived from points on
// read, so that override entry (letter grades, fractions) survives without
// re-derivation. MaxPoints is a denormalized copy of the lesson's maximum at
// entry time.
//
// Skipped is the single authoritative skip signal. The legacy encoding
// (percentage 0 with errors equal to max points) is still written alongside
// it for old exports, but nothing in this codebase ever derives skip status
// from it.
type Grade struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	StudentID uint    `json:"student_id" gorm:"not null;uniqueIndex:idx_grades_student_lesson"`
	LessonID  uint    `json:"lesson_id" gorm:"not null;uniqueIndex:idx_grades_student_lesson"`
	Points    float64 `json:"points"`
	MaxPoints float64 `json:"max_points"`
	// Percentage in [0,100]. Values below 1 are not-yet-attempted
	// placeholders and are excluded from averaging; exactly 0 is a real
	// score once points have been entered as zero through an override.
	Percentage float64 `json:"percentage" validate:"min=0,max=100"`
	Errors     float64 `json:"errors"`
	Skipped    bool    `json:"skipped" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student Student `json:"-" gorm:"foreignKey:StudentID"`
	Lesson  Lesson  `json:"-" gorm:"foreignKey:LessonID"`
}

func (Grade) TableName() string {
	return "grades"
}

// NormalizeSkip applies the authoritative skip flag to the legacy encoded
// fields so persisted rows stay consistent for consumers of old exports.
func (g *Grade) NormalizeSkip() {
	if g.Skipped {
		g.Percentage = 0
		g.Errors = g.MaxPoints
	}
}
