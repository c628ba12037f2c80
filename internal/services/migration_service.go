package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/events"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
)

type migrationService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewMigrationService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger) MigrationService {
	return &migrationService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// legacyData is the decoded key-value dump grouped by record kind.
type legacyData struct {
	categories []models.LegacyCategory
	subjects   []models.LegacySubject
	lessons    []models.LegacyLesson
	students   []models.LegacyStudent
	grades     []models.LegacyGrade
}

// ImportKVDump migrates one teacher's data out of the legacy key-value dump.
// Ordering matters: categories before subjects (weights are re-keyed from
// category names to ids), subjects before lessons, everything before grades.
// Grades referencing rows the dump never defined are dropped with a warning
// rather than failing the whole import.
func (s *migrationService) ImportKVDump(ctx context.Context, r io.Reader, teacherID uint) (*MigrationSummary, error) {
	data, err := s.decode(r)
	if err != nil {
		return nil, err
	}

	summary := &MigrationSummary{}

	// Categories. Legacy lessons and subject weights reference categories by
	// name, so both name and id maps are kept.
	categoryByName := make(map[string]uint)
	for _, lc := range data.categories {
		category := &models.GradeCategory{
			TeacherID: teacherID,
			Name:      lc.Name,
			IsActive:  lc.Active,
			IsDefault: lc.IsDefault,
		}
		if err := s.repo.Category().Create(ctx, category); err != nil {
			return nil, fmt.Errorf("failed to migrate category %q: %w", lc.Name, err)
		}
		categoryByName[lc.Name] = category.ID
		summary.Categories++
	}

	// Subjects, with weights re-keyed from category name to category id.
	subjectIDs := make(map[uint]uint)
	for _, ls := range data.subjects {
		subject := &models.Subject{
			TeacherID:      teacherID,
			Name:           ls.Name,
			ReportCardName: ls.ReportCardName,
		}
		weights := make(map[uint]float64, len(ls.Weights))
		for name, w := range ls.Weights {
			id, ok := categoryByName[name]
			if !ok {
				s.logger.Warn("subject weight references unknown category, dropping",
					"subject", ls.Name, "category", name)
				continue
			}
			weights[id] = w
		}
		if err := subject.SetWeightMap(weights); err != nil {
			return nil, fmt.Errorf("failed to encode weights for %q: %w", ls.Name, err)
		}
		if err := s.repo.Subject().Create(ctx, subject); err != nil {
			return nil, fmt.Errorf("failed to migrate subject %q: %w", ls.Name, err)
		}
		subjectIDs[ls.ID] = subject.ID
		summary.Subjects++
	}

	// Lessons and period markers share the legacy ordering space; preserve it
	// as the Position column.
	sort.SliceStable(data.lessons, func(i, j int) bool {
		return data.lessons[i].Order < data.lessons[j].Order
	})
	lessonIDs := make(map[uint]uint)
	for _, ll := range data.lessons {
		subjectID, ok := subjectIDs[ll.SubjectID]
		if !ok {
			s.logger.Warn("lesson references unknown subject, dropping",
				"lesson", ll.Name, "legacy_subject_id", ll.SubjectID)
			summary.SkippedRecords++
			continue
		}

		if ll.IsPeriodMarker {
			marker := &models.GradingPeriodMarker{
				SubjectID: subjectID,
				Label:     ll.Name,
				Position:  ll.Order,
			}
			if err := s.repo.Subject().CreateMarker(ctx, marker); err != nil {
				return nil, fmt.Errorf("failed to migrate period marker: %w", err)
			}
			summary.PeriodMarkers++
			continue
		}

		categoryID, ok := categoryByName[ll.Category]
		if !ok {
			s.logger.Warn("lesson references unknown category, dropping",
				"lesson", ll.Name, "category", ll.Category)
			summary.SkippedRecords++
			continue
		}

		lesson := &models.Lesson{
			SubjectID:  subjectID,
			CategoryID: categoryID,
			Name:       ll.Name,
			MaxPoints:  ll.MaxPoints,
			Position:   ll.Order,
		}
		if err := s.repo.Subject().CreateLesson(ctx, lesson); err != nil {
			return nil, fmt.Errorf("failed to migrate lesson %q: %w", ll.Name, err)
		}
		lessonIDs[ll.ID] = lesson.ID
		summary.Lessons++
	}

	// Students with their enrollments.
	studentIDs := make(map[uint]uint)
	for _, lst := range data.students {
		first, last := splitName(lst.Name)
		student := &models.Student{
			TeacherID: teacherID,
			FirstName: first,
			LastName:  last,
		}
		if err := s.repo.Student().Create(ctx, student); err != nil {
			return nil, fmt.Errorf("failed to migrate student %q: %w", lst.Name, err)
		}
		for _, legacySubjectID := range lst.Subjects {
			subjectID, ok := subjectIDs[legacySubjectID]
			if !ok {
				continue
			}
			if err := s.repo.Student().Enroll(ctx, student.ID, subjectID); err != nil {
				return nil, fmt.Errorf("failed to migrate enrollment: %w", err)
			}
		}
		studentIDs[lst.ID] = student.ID
		summary.Students++
	}

	// Grades last. The legacy magic-value skip encoding is decoded exactly
	// once, here, into the authoritative Skipped flag.
	var grades []models.Grade
	for _, lg := range data.grades {
		studentID, ok := studentIDs[lg.StudentID]
		if !ok {
			summary.SkippedRecords++
			continue
		}
		lessonID, ok := lessonIDs[lg.LessonID]
		if !ok {
			summary.SkippedRecords++
			continue
		}

		grade := models.Grade{
			StudentID:  studentID,
			LessonID:   lessonID,
			Points:     lg.Points,
			MaxPoints:  lg.MaxPoints,
			Percentage: lg.Percentage,
			Errors:     lg.Errors,
			Skipped:    lg.WasSkipped(),
		}
		if grade.Skipped {
			summary.SkipsNormalized++
		}
		grade.NormalizeSkip()
		grades = append(grades, grade)
	}
	if err := s.repo.Grade().BulkInsert(ctx, grades); err != nil {
		return nil, fmt.Errorf("failed to migrate grades: %w", err)
	}
	summary.Grades = len(grades)

	s.logger.Info("Key-value migration completed",
		"teacher_id", teacherID,
		"subjects", summary.Subjects,
		"students", summary.Students,
		"grades", summary.Grades,
		"skips_normalized", summary.SkipsNormalized,
		"skipped_records", summary.SkippedRecords)

	event := events.NewMigrationCompletedEvent(teacherID, summary.Subjects, summary.Students, summary.Grades)
	if err := s.publisher.PublishGradebookEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish migration event", "error", err)
	}

	return summary, nil
}

func (s *migrationService) decode(r io.Reader) (*legacyData, error) {
	var dump models.KVDump
	if err := json.NewDecoder(r).Decode(&dump); err != nil {
		return nil, fmt.Errorf("failed to decode key-value dump: %w", err)
	}

	data := &legacyData{}
	for _, record := range dump.Records {
		kind, _, found := strings.Cut(record.Key, ":")
		if !found {
			s.logger.Warn("malformed record key, dropping", "key", record.Key)
			continue
		}

		var err error
		switch kind {
		case "category":
			var v models.LegacyCategory
			if err = json.Unmarshal(record.Value, &v); err == nil {
				data.categories = append(data.categories, v)
			}
		case "subject":
			var v models.LegacySubject
			if err = json.Unmarshal(record.Value, &v); err == nil {
				data.subjects = append(data.subjects, v)
			}
		case "lesson":
			var v models.LegacyLesson
			if err = json.Unmarshal(record.Value, &v); err == nil {
				data.lessons = append(data.lessons, v)
			}
		case "student":
			var v models.LegacyStudent
			if err = json.Unmarshal(record.Value, &v); err == nil {
				data.students = append(data.students, v)
			}
		case "grade":
			var v models.LegacyGrade
			if err = json.Unmarshal(record.Value, &v); err == nil {
				data.grades = append(data.grades, v)
			}
		default:
			s.logger.Warn("unknown record kind, dropping", "key", record.Key)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode record %q: %w", record.Key, err)
		}
	}
	return data, nil
}

// splitName breaks a legacy single-field name into first and last at the
// first space.
func splitName(name string) (string, string) {
	first, last, found := strings.Cut(strings.TrimSpace(name), " ")
	if !found {
		return first, ""
	}
	return first, last
}
