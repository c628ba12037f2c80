package events

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
)

// EventType represents different types of gradebook events
type EventType string

const (
	// Grade events
	EventGradeRecorded EventType = "grade.recorded"
	EventGradeDeleted  EventType = "grade.deleted"

	// Report events
	EventReportGenerated EventType = "report.generated"

	// Migration events
	EventMigrationCompleted EventType = "migration.completed"
)

// GradebookEvent is the base event structure for all gradebook events
type GradebookEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Grade event payloads

type GradeRecordedEvent struct {
	TeacherID  uint    `json:"teacher_id"`
	StudentID  uint    `json:"student_id"`
	SubjectID  uint    `json:"subject_id"`
	LessonID   uint    `json:"lesson_id"`
	Percentage float64 `json:"percentage"`
	Skipped    bool    `json:"skipped"`
}

type GradeDeletedEvent struct {
	TeacherID uint `json:"teacher_id"`
	StudentID uint `json:"student_id"`
	LessonID  uint `json:"lesson_id"`
}

// Report event payload

type ReportGeneratedEvent struct {
	TeacherID    uint    `json:"teacher_id"`
	StudentID    uint    `json:"student_id"`
	Period       string  `json:"period"`
	SubjectCount int     `json:"subject_count"`
	OverallGPA   float64 `json:"overall_gpa"`
}

// Migration event payload

type MigrationCompletedEvent struct {
	TeacherID uint `json:"teacher_id"`
	Subjects  int  `json:"subjects"`
	Students  int  `json:"students"`
	Grades    int  `json:"grades"`
}

// Event factory functions

func NewGradeRecordedEvent(teacherID, studentID, subjectID, lessonID uint, percentage float64, skipped bool) *GradebookEvent {
	return &GradebookEvent{
		ID:        watermill.NewUUID(),
		Type:      EventGradeRecorded,
		Timestamp: time.Now(),
		Source:    "gradeflow-backend",
		Version:   "1.0",
		Data: GradeRecordedEvent{
			TeacherID:  teacherID,
			StudentID:  studentID,
			SubjectID:  subjectID,
			LessonID:   lessonID,
			Percentage: percentage,
			Skipped:    skipped,
		},
	}
}

func NewGradeDeletedEvent(teacherID, studentID, lessonID uint) *GradebookEvent {
	return &GradebookEvent{
		ID:        watermill.NewUUID(),
		Type:      EventGradeDeleted,
		Timestamp: time.Now(),
		Source:    "gradeflow-backend",
		Version:   "1.0",
		Data: GradeDeletedEvent{
			TeacherID: teacherID,
			StudentID: studentID,
			LessonID:  lessonID,
		},
	}
}

func NewReportGeneratedEvent(teacherID, studentID uint, period string, subjectCount int, overallGPA float64) *GradebookEvent {
	return &GradebookEvent{
		ID:        watermill.NewUUID(),
		Type:      EventReportGenerated,
		Timestamp: time.Now(),
		Source:    "gradeflow-backend",
		Version:   "1.0",
		Data: ReportGeneratedEvent{
			TeacherID:    teacherID,
			StudentID:    studentID,
			Period:       period,
			SubjectCount: subjectCount,
			OverallGPA:   overallGPA,
		},
	}
}

func NewMigrationCompletedEvent(teacherID uint, subjects, students, grades int) *GradebookEvent {
	return &GradebookEvent{
		ID:        watermill.NewUUID(),
		Type:      EventMigrationCompleted,
		Timestamp: time.Now(),
		Source:    "gradeflow-backend",
		Version:   "1.0",
		Data: MigrationCompletedEvent{
			TeacherID: teacherID,
			Subjects:  subjects,
			Students:  students,
			Grades:    grades,
		},
	}
}
