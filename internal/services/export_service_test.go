package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/gradebook"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/xuri/excelize/v2"
)

// fixedCardReportService serves one prebuilt report card so the spreadsheet
// rendering can be checked in isolation.
type fixedCardReportService struct {
	stubReportService
	card *gradebook.ReportCard
}

func (s *fixedCardReportService) ReportCard(ctx context.Context, teacherID, studentID uint, period string) (*gradebook.ReportCard, error) {
	return s.card, nil
}

// TestExportService_ReportCardXLSX tests the report card spreadsheet layout
func TestExportService_ReportCardXLSX(t *testing.T) {
	card := &gradebook.ReportCard{
		StudentID:   5,
		StudentName: "Mary Yoder",
		Period:      "2",
		Subjects: []gradebook.SubjectResult{
			{SubjectID: 10, SubjectName: "Arithmetic", Average: 91.25, LetterGrade: "A-"},
			{SubjectID: 11, SubjectName: "Reading", Average: 84.0, LetterGrade: "B"},
		},
		OverallGPA: 87.625,
		Comments:   "Good progress this quarter.",
	}

	service := NewExportService(newMockRepository(), &fixedCardReportService{card: card}, testLogger())

	data, err := service.ReportCardXLSX(context.Background(), 1, 5, "2")
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if !assert.NoError(t, err) {
		return
	}
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Report Card", cell)
		assert.NoError(t, err)
		return v
	}

	assert.Equal(t, "Mary Yoder", get("B1"))
	assert.Equal(t, "2", get("B2"))

	// One row per subject under the header row.
	assert.Equal(t, "Arithmetic", get("A5"))
	assert.Equal(t, "A-", get("C5"))
	assert.Equal(t, "Reading", get("A6"))
	assert.Equal(t, "B", get("C6"))

	assert.Equal(t, "Overall", get("A8"))
	assert.Equal(t, "Good progress this quarter.", get("B10"))
}

// TestExportService_ReportCardXLSX_NoReport tests export of a student without
// a computable report
func TestExportService_ReportCardXLSX_NoReport(t *testing.T) {
	service := NewExportService(newMockRepository(), &fixedCardReportService{card: nil}, testLogger())

	data, err := service.ReportCardXLSX(context.Background(), 1, 5, "")
	assert.ErrorIs(t, err, ErrReportUnavailable)
	assert.True(t, IsNotFound(err))
	assert.Nil(t, data)
}

// TestExportService_GradebookXLSX tests the per-subject grade grid
func TestExportService_GradebookXLSX(t *testing.T) {
	subjectID := uint(10)
	subject := &models.Subject{
		ID:        subjectID,
		TeacherID: 1,
		Name:      "Arithmetic 5",
		Lessons: []models.Lesson{
			{ID: 100, SubjectID: subjectID, Name: "Lesson 1", MaxPoints: 20, Position: 1},
			{ID: 101, SubjectID: subjectID, Name: "Lesson 2", MaxPoints: 20, Position: 2},
		},
	}
	students := []*models.Student{
		{ID: 5, TeacherID: 1, FirstName: "Mary", LastName: "Yoder"},
	}
	grades := []*models.Grade{
		{StudentID: 5, LessonID: 100, MaxPoints: 20, Percentage: 90},
		{StudentID: 5, LessonID: 101, MaxPoints: 20, Skipped: true, Errors: 20},
	}

	repo := newMockRepository()
	repo.subjectRepo.On("IsOwner", mock.Anything, subjectID, uint(1)).Return(true, nil)
	repo.subjectRepo.On("GetByIDWithDetails", mock.Anything, subjectID).Return(subject, nil)
	repo.studentRepo.On("List", mock.Anything, uint(1), mock.AnythingOfType("repositories.StudentFilters")).
		Return(students, int64(1), nil)
	repo.gradeRepo.On("List", mock.Anything, uint(1), mock.AnythingOfType("repositories.GradeFilters")).
		Return(grades, int64(2), nil)

	service := NewExportService(repo, &stubReportService{}, testLogger())

	data, err := service.GradebookXLSX(context.Background(), 1, subjectID)
	assert.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if !assert.NoError(t, err) {
		return
	}
	defer f.Close()

	get := func(cell string) string {
		v, err := f.GetCellValue("Gradebook", cell)
		assert.NoError(t, err)
		return v
	}

	assert.Equal(t, "Arithmetic 5", get("A1"))
	assert.Equal(t, "Lesson 1", get("B2"))
	assert.Equal(t, "Lesson 2", get("C2"))
	assert.Equal(t, "Mary Yoder", get("A3"))
	assert.Equal(t, "90", get("B3"))
	// Skipped work renders as a marker, not a zero.
	assert.Equal(t, "skip", get("C3"))

	repo.subjectRepo.AssertExpectations(t)
}

// TestExportService_GradebookXLSX_NotOwner tests the ownership gate on export
func TestExportService_GradebookXLSX_NotOwner(t *testing.T) {
	repo := newMockRepository()
	repo.subjectRepo.On("IsOwner", mock.Anything, uint(10), uint(2)).Return(false, nil)

	service := NewExportService(repo, &stubReportService{}, testLogger())

	data, err := service.GradebookXLSX(context.Background(), 2, 10)
	assert.True(t, IsUnauthorized(err))
	assert.Nil(t, data)
}

var _ repositories.Repository = (*MockRepository)(nil)
