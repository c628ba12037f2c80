package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is enrolled in zero or more subjects through an explicit enrollment
// list; not every student in a group takes every subject. A grade recorded
// against a lesson is treated as definitive evidence of participation even
// when the enrollment row is missing.
type Student struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	TeacherID uint   `json:"teacher_id" gorm:"not null;index"`
	FirstName string `json:"first_name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" gorm:"size:100" validate:"max=100"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Teacher  User      `json:"-" gorm:"foreignKey:TeacherID"`
	Subjects []Subject `json:"subjects,omitempty" gorm:"many2many:student_subjects"`
}

func (Student) TableName() string {
	return "students"
}

// FullName joins first and last name for display and export.
func (s *Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}

// ReportComment is a per-student, per-period free-text remark printed on the
// report card.
type ReportComment struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	TeacherID uint   `json:"teacher_id" gorm:"not null;index"`
	StudentID uint   `json:"student_id" gorm:"not null;uniqueIndex:idx_report_comments_student_period"`
	Period    string `json:"period" gorm:"size:20;uniqueIndex:idx_report_comments_student_period"`
	Comment   string `json:"comment" gorm:"type:text" validate:"max=2000"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Student Student `json:"-" gorm:"foreignKey:StudentID"`
}

func (ReportComment) TableName() string {
	return "report_comments"
}
