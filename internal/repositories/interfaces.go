package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Repository bundles the per-aggregate repositories behind one constructor
// so services receive a single dependency.
type Repository interface {
	User() UserRepository
	Student() StudentRepository
	Category() CategoryRepository
	Subject() SubjectRepository
	Grade() GradeRepository
	Comment() CommentRepository
}

// ===== SHARED FILTER STRUCTS =====

type StudentFilters struct {
	SubjectID *uint  `json:"subject_id"`
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "last_name", "first_name", "created_at"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type SubjectFilters struct {
	StudentID *uint  `json:"student_id"`
	Search    string `json:"search"`
	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

type GradeFilters struct {
	StudentID *uint `json:"student_id"`
	SubjectID *uint `json:"subject_id"`
	LessonID  *uint `json:"lesson_id"`
	Skipped   *bool `json:"skipped"`
	Limit     int   `json:"limit"`
	Offset    int   `json:"offset"`
}

// ===== ERROR HELPERS =====

// IsNotFoundError reports whether err is the driver-level "no rows" result.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
