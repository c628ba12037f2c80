package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo   repositories.Repository
	report ReportService
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, report ReportService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		report: report,
		logger: logger,
	}
}

// ReportCardXLSX renders one student's report card as a spreadsheet. All
// numbers come from the report service so the export can never disagree with
// the on-screen report.
func (s *exportService) ReportCardXLSX(ctx context.Context, teacherID, studentID uint, period string) ([]byte, error) {
	card, err := s.report.ReportCard(ctx, teacherID, studentID, period)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrReportUnavailable
	}

	f := excelize.NewFile()
	sheetName := "Report Card"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheetName, "A1", "Student")
	f.SetCellValue(sheetName, "B1", card.StudentName)
	f.SetCellValue(sheetName, "A2", "Period")
	if card.Period == "" {
		f.SetCellValue(sheetName, "B2", "All")
	} else {
		f.SetCellValue(sheetName, "B2", card.Period)
	}

	headers := []string{"Subject", "Average", "Letter Grade"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c4", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	row := 5
	for _, subject := range card.Subjects {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), subject.SubjectName)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), subject.Average)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), subject.LetterGrade)
		row++
	}

	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Overall")
	f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), card.OverallGPA)

	if card.Comments != "" {
		row += 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Comments")
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), card.Comments)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

// GradebookXLSX renders the full grade grid of one subject: one row per
// student, one column per lesson in lesson order.
func (s *exportService) GradebookXLSX(ctx context.Context, teacherID, subjectID uint) ([]byte, error) {
	owned, err := s.repo.Subject().IsOwner(ctx, subjectID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to check subject ownership: %w", err)
	}
	if !owned {
		return nil, NewPermissionError(teacherID, subjectID, "subject", "export", "not owner")
	}

	subject, err := s.repo.Subject().GetByIDWithDetails(ctx, subjectID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	students, _, err := s.repo.Student().List(ctx, teacherID, repositories.StudentFilters{SubjectID: &subjectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	grades, _, err := s.repo.Grade().List(ctx, teacherID, repositories.GradeFilters{SubjectID: &subjectID})
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	// Index by student and lesson for grid lookup.
	byCell := make(map[[2]uint]float64, len(grades))
	skippedCell := make(map[[2]uint]bool)
	for _, g := range grades {
		key := [2]uint{g.StudentID, g.LessonID}
		byCell[key] = g.Percentage
		skippedCell[key] = g.Skipped
	}

	f := excelize.NewFile()
	sheetName := "Gradebook"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	f.SetCellValue(sheetName, "A1", subject.DisplayName())

	// Lesson columns can exceed 26, so use coordinate conversion instead of
	// letter arithmetic.
	headerCell, _ := excelize.CoordinatesToCellName(1, 2)
	f.SetCellValue(sheetName, headerCell, "Student")
	for i, lesson := range subject.Lessons {
		cell, err := excelize.CoordinatesToCellName(i+2, 2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		f.SetCellValue(sheetName, cell, lesson.Name)
	}

	for rowIndex, student := range students {
		nameCell, err := excelize.CoordinatesToCellName(1, rowIndex+3)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		f.SetCellValue(sheetName, nameCell, student.FullName())

		for colIndex, lesson := range subject.Lessons {
			cell, err := excelize.CoordinatesToCellName(colIndex+2, rowIndex+3)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell name: %w", err)
			}
			key := [2]uint{student.ID, lesson.ID}
			if skippedCell[key] {
				f.SetCellValue(sheetName, cell, "skip")
				continue
			}
			if pct, ok := byCell[key]; ok {
				f.SetCellValue(sheetName, cell, pct)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
