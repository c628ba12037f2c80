package services

import (
	"context"
	"strings"
	"testing"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/events"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// legacyDump is a small but representative key-value export: two categories,
// one subject with name-keyed weights, a period marker stored as a
// pseudo-lesson, a lesson pointing at a subject the dump never defines, and a
// grade carrying the magic-value skip encoding.
const legacyDump = `{
	"records": [
		{"key": "category:1", "value": {"id": 1, "name": "Tests", "active": true, "isDefault": false}},
		{"key": "category:2", "value": {"id": 2, "name": "Homework", "active": true, "isDefault": true}},
		{"key": "subject:1", "value": {"id": 1, "name": "Arithmetic 5", "reportCardName": "Arithmetic", "weights": {"Tests": 0.6, "Homework": 0.3, "Projects": 0.1}}},
		{"key": "lesson:1", "value": {"id": 1, "subjectId": 1, "category": "Tests", "name": "Lesson 1", "maxPoints": 20, "order": 1}},
		{"key": "lesson:2", "value": {"id": 2, "subjectId": 1, "category": "Homework", "name": "Lesson 2", "maxPoints": 20, "order": 2}},
		{"key": "lesson:3", "value": {"id": 3, "subjectId": 1, "name": "End of Quarter 1", "order": 3, "isPeriodMarker": true}},
		{"key": "lesson:4", "value": {"id": 4, "subjectId": 99, "category": "Tests", "name": "Orphan", "maxPoints": 10, "order": 4}},
		{"key": "student:1", "value": {"id": 1, "name": "Mary Yoder", "subjects": [1]}},
		{"key": "grade:1", "value": {"studentId": 1, "lessonId": 1, "points": 18, "maxPoints": 20, "percentage": 90, "errors": 2}},
		{"key": "grade:2", "value": {"studentId": 1, "lessonId": 2, "points": 0, "maxPoints": 20, "percentage": 0, "errors": 20}},
		{"key": "grade:3", "value": {"studentId": 1, "lessonId": 999, "points": 5, "maxPoints": 10, "percentage": 50, "errors": 5}}
	]
}`

// TestMigrationService_ImportKVDump tests the one-off legacy import
func TestMigrationService_ImportKVDump(t *testing.T) {
	repo := newMockRepository()

	// Creates assign ids the way the database would; captures let the
	// re-keying and normalization be inspected afterwards.
	var categories []*models.GradeCategory
	repo.categoryRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.GradeCategory")).
		Run(func(args mock.Arguments) {
			c := args.Get(1).(*models.GradeCategory)
			c.ID = uint(len(categories) + 101)
			categories = append(categories, c)
		}).Return(nil)

	var subjects []*models.Subject
	repo.subjectRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Subject")).
		Run(func(args mock.Arguments) {
			s := args.Get(1).(*models.Subject)
			s.ID = uint(len(subjects) + 201)
			subjects = append(subjects, s)
		}).Return(nil)

	var lessons []*models.Lesson
	repo.subjectRepo.On("CreateLesson", mock.Anything, mock.AnythingOfType("*models.Lesson")).
		Run(func(args mock.Arguments) {
			l := args.Get(1).(*models.Lesson)
			l.ID = uint(len(lessons) + 301)
			lessons = append(lessons, l)
		}).Return(nil)

	var markers []*models.GradingPeriodMarker
	repo.subjectRepo.On("CreateMarker", mock.Anything, mock.AnythingOfType("*models.GradingPeriodMarker")).
		Run(func(args mock.Arguments) {
			m := args.Get(1).(*models.GradingPeriodMarker)
			m.ID = uint(len(markers) + 401)
			markers = append(markers, m)
		}).Return(nil)

	var students []*models.Student
	repo.studentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Student")).
		Run(func(args mock.Arguments) {
			s := args.Get(1).(*models.Student)
			s.ID = uint(len(students) + 501)
			students = append(students, s)
		}).Return(nil)
	repo.studentRepo.On("Enroll", mock.Anything, uint(501), uint(201)).Return(nil)

	var inserted []models.Grade
	repo.gradeRepo.On("BulkInsert", mock.Anything, mock.AnythingOfType("[]models.Grade")).
		Run(func(args mock.Arguments) {
			inserted = args.Get(1).([]models.Grade)
		}).Return(nil)

	publisher := events.NewMockEventPublisher(testLogger())
	service := NewMigrationService(repo, publisher, testLogger())

	summary, err := service.ImportKVDump(context.Background(), strings.NewReader(legacyDump), 1)
	assert.NoError(t, err)

	t.Run("summary counts", func(t *testing.T) {
		assert.Equal(t, 2, summary.Categories)
		assert.Equal(t, 1, summary.Subjects)
		assert.Equal(t, 2, summary.Lessons)
		assert.Equal(t, 1, summary.PeriodMarkers)
		assert.Equal(t, 1, summary.Students)
		assert.Equal(t, 2, summary.Grades)
		assert.Equal(t, 1, summary.SkipsNormalized)
		// The orphaned lesson and the grade pointing at lesson 999.
		assert.Equal(t, 2, summary.SkippedRecords)
	})

	t.Run("weights re-keyed from category names to ids", func(t *testing.T) {
		if !assert.Len(t, subjects, 1) {
			return
		}
		weights := subjects[0].WeightMap()
		assert.Equal(t, 0.6, weights[101]) // Tests
		assert.Equal(t, 0.3, weights[102]) // Homework
		// "Projects" matches no category and is dropped rather than kept
		// under a dangling key.
		assert.Len(t, weights, 2)
		assert.Equal(t, uint(1), subjects[0].TeacherID)
	})

	t.Run("marker keeps its slot in the lesson ordering", func(t *testing.T) {
		if !assert.Len(t, markers, 1) {
			return
		}
		assert.Equal(t, "End of Quarter 1", markers[0].Label)
		assert.Equal(t, 3, markers[0].Position)
		assert.Equal(t, uint(201), markers[0].SubjectID)
	})

	t.Run("student name split at first space", func(t *testing.T) {
		if !assert.Len(t, students, 1) {
			return
		}
		assert.Equal(t, "Mary", students[0].FirstName)
		assert.Equal(t, "Yoder", students[0].LastName)
	})

	t.Run("magic-value skip decoded into the authoritative flag", func(t *testing.T) {
		if !assert.Len(t, inserted, 2) {
			return
		}
		assert.False(t, inserted[0].Skipped)
		assert.Equal(t, 90.0, inserted[0].Percentage)

		assert.True(t, inserted[1].Skipped)
		assert.Equal(t, 0.0, inserted[1].Percentage)
		assert.Equal(t, inserted[1].MaxPoints, inserted[1].Errors)
	})

	t.Run("completion event published", func(t *testing.T) {
		published := publisher.GetPublishedEvents()
		if !assert.Len(t, published, 1) {
			return
		}
		event := published[0]
		assert.Equal(t, events.EventMigrationCompleted, event.Type)
		assert.Equal(t, "gradeflow-backend", event.Source)
		assert.Equal(t, "1.0", event.Version)
		assert.NotEmpty(t, event.ID)
	})

	repo.categoryRepo.AssertExpectations(t)
	repo.subjectRepo.AssertExpectations(t)
	repo.studentRepo.AssertExpectations(t)
	repo.gradeRepo.AssertExpectations(t)
}

// TestMigrationService_ImportKVDump_BadRecord tests that a corrupt record
// value aborts the import instead of half-writing it
func TestMigrationService_ImportKVDump_BadRecord(t *testing.T) {
	repo := newMockRepository()
	service := NewMigrationService(repo, events.NewMockEventPublisher(testLogger()), testLogger())

	dump := `{"records": [{"key": "category:1", "value": "not an object"}]}`
	summary, err := service.ImportKVDump(context.Background(), strings.NewReader(dump), 1)
	assert.Error(t, err)
	assert.Nil(t, summary)
}

// TestMigrationService_ImportKVDump_UnknownKinds tests that unrecognized
// record kinds are dropped without failing the import
func TestMigrationService_ImportKVDump_UnknownKinds(t *testing.T) {
	repo := newMockRepository()
	repo.gradeRepo.On("BulkInsert", mock.Anything, mock.AnythingOfType("[]models.Grade")).Return(nil)

	service := NewMigrationService(repo, events.NewMockEventPublisher(testLogger()), testLogger())

	dump := `{"records": [
		{"key": "settings:theme", "value": {"dark": true}},
		{"key": "malformed", "value": {}}
	]}`
	summary, err := service.ImportKVDump(context.Background(), strings.NewReader(dump), 1)
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.Categories)
	assert.Equal(t, 0, summary.Grades)
}
