package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// User is a teacher account. Every subject, lesson, category, student and
// grade in the system is owned by exactly one teacher, and the owning teacher
// id is passed explicitly through every service call -- ownership is never
// read from ambient state.
type User struct {
	ID    uint     `json:"id" gorm:"primaryKey"`
	Name  string   `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Email string   `json:"email" gorm:"uniqueIndex;not null;size:200" validate:"required,email"`
	Role  UserRole `json:"role" gorm:"default:teacher" validate:"omitempty,oneof=teacher admin"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
