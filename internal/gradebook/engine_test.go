package gradebook

import (
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
)

const (
	catLesson uint = 1
	catTest   uint = 2
	catQuiz   uint = 3
)

func testEngine() *Engine {
	return NewEngine(slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

func category(id uint, name string, active bool) models.GradeCategory {
	return models.GradeCategory{ID: id, TeacherID: 1, Name: name, IsActive: active}
}

func lesson(id, subjectID, categoryID uint, position int) models.Lesson {
	names := map[uint]string{catLesson: "Lesson", catTest: "Test", catQuiz: "Quiz"}
	active := categoryID != catQuiz // quiz category is the inactive one in fixtures
	return models.Lesson{
		ID:         id,
		SubjectID:  subjectID,
		CategoryID: categoryID,
		Name:       "L",
		MaxPoints:  100,
		Position:   position,
		Category:   category(categoryID, names[categoryID], active),
	}
}

func subject(id uint, name, reportName string, weights map[uint]float64, lessons ...models.Lesson) models.Subject {
	s := models.Subject{ID: id, TeacherID: 1, Name: name, ReportCardName: reportName, Lessons: lessons}
	if weights != nil {
		if err := s.SetWeightMap(weights); err != nil {
			panic(err)
		}
	}
	return s
}

func grade(studentID, lessonID uint, percentage float64) models.Grade {
	return models.Grade{
		ID:         studentID*1000 + lessonID,
		StudentID:  studentID,
		LessonID:   lessonID,
		Points:     percentage,
		MaxPoints:  100,
		Percentage: percentage,
	}
}

func skipped(studentID, lessonID uint) models.Grade {
	g := grade(studentID, lessonID, 0)
	g.Skipped = true
	g.Errors = g.MaxPoints
	return g
}

// mathSubject is the fixture of the end-to-end scenario: weights
// {Lesson: 0.34, Test: 0.66}, two lesson-category lessons and one test.
func mathSubject() models.Subject {
	return subject(10, "Mathematics", "",
		map[uint]float64{catLesson: 0.34, catTest: 0.66},
		lesson(101, 10, catLesson, 1),
		lesson(102, 10, catLesson, 2),
		lesson(103, 10, catTest, 3),
	)
}

func TestComputeSubjectAverage_WeightedScenario(t *testing.T) {
	e := testEngine()
	subjects := []models.Subject{mathSubject()}
	grades := []models.Grade{
		grade(1, 101, 80),
		grade(1, 102, 90),
		grade(1, 103, 70),
	}

	result := e.ComputeSubjectAverage(1, 10, subjects, grades)
	require.NotNil(t, result)

	// 85*0.34 + 70*0.66 = 28.9 + 46.2 = 75.1
	assert.InDelta(t, 75.1, result.Average, 1e-9)
	assert.Equal(t, "C", result.LetterGrade)
	assert.Equal(t, "Mathematics", result.SubjectName)
	assert.Len(t, result.Grades, 3)
}

func TestComputeSubjectAverage_WeightConservation(t *testing.T) {
	// Weights summing to exactly 1.0 with a grade in every category must
	// produce the direct weighted sum with no normalization artifact.
	e := testEngine()
	subjects := []models.Subject{subject(10, "Science", "",
		map[uint]float64{catLesson: 0.25, catTest: 0.75},
		lesson(101, 10, catLesson, 1),
		lesson(102, 10, catTest, 2),
	)}
	grades := []models.Grade{
		grade(1, 101, 60),
		grade(1, 102, 100),
	}

	result := e.ComputeSubjectAverage(1, 10, subjects, grades)
	require.NotNil(t, result)
	assert.InDelta(t, 60*0.25+100*0.75, result.Average, 1e-9)

	breakdown := e.SubjectCalculationBreakdown(1, 10, subjects, grades)
	require.NotNil(t, breakdown)
	assert.InDelta(t, 1.0, breakdown.TotalWeight, 1e-9)
}

func TestComputeSubjectAverage_EvenSplitFallback(t *testing.T) {
	// No weights defined at all: present categories split 1/N evenly.
	e := testEngine()
	subjects := []models.Subject{subject(10, "History", "", nil,
		lesson(101, 10, catLesson, 1),
		lesson(102, 10, catTest, 2),
	)}
	grades := []models.Grade{
		grade(1, 101, 100),
		grade(1, 102, 50),
	}

	result := e.ComputeSubjectAverage(1, 10, subjects, grades)
	require.NotNil(t, result)
	assert.InDelta(t, 75.0, result.Average, 1e-9)
	assert.Equal(t, "C", result.LetterGrade)
}

func TestComputeSubjectAverage_ResidualSplitForUnmatchedCategory(t *testing.T) {
	// One category has an explicit weight, the other none: the unmatched
	// category takes the unassigned residual, keyed by id, never by position.
	e := testEngine()
	subjects := []models.Subject{subject(10, "Geography", "",
		map[uint]float64{catTest: 0.6},
		lesson(101, 10, catLesson, 1),
		lesson(102, 10, catTest, 2),
	)}
	grades := []models.Grade{
		grade(1, 101, 100),
		grade(1, 102, 50),
	}

	result := e.ComputeSubjectAverage(1, 10, subjects, grades)
	require.NotNil(t, result)
	// Test keeps 0.6, Lesson takes the 0.4 residual: 100*0.4 + 50*0.6 = 70.
	assert.InDelta(t, 70.0, result.Average, 1e-9)

	breakdown := e.SubjectCalculationBreakdown(1, 10, subjects, grades)
	require.NotNil(t, breakdown)
	for _, c := range breakdown.Categories {
		switch c.CategoryID {
		case catTest:
			assert.True(t, c.WeightExplicit)
			assert.InDelta(t, 0.6, c.Weight, 1e-9)
		case catLesson:
			assert.False(t, c.WeightExplicit)
			assert.InDelta(t, 0.4, c.Weight, 1e-9)
		}
	}
}

func TestComputeSubjectAverage_SkipExclusion(t *testing.T) {
	e := testEngine()
	subjects := []models.Subject{mathSubject()}
	grades := []models.Grade{
		grade(1, 101, 80),
		grade(1, 102, 90),
		skipped(1, 103),
	}

	result := e.ComputeSubjectAverage(1, 10, subjects, grades)
	require.NotNil(t, result)
	// Only the Lesson category remains; its explicit 0.34 weight applies
	// and normalization divides it back out: average is plain 85.
	assert.InDelta(t, 85.0, result.Average, 1e-9)
	assert.Len(t, result.Grades, 2, "skipped grades stay out of the filtered list")
}

func TestComputeSubjectAverage_PlaceholderExclusion(t *testing.T) {
	e := testEngine()
	subjects := []models.Subject{subject(10, "Reading", "", nil,
		lesson(101, 10, catLesson, 1),
		lesson(102, 10, catLesson, 2),
		lesson(103, 10, catLesson, 3),
	)}

	t.Run("fractional percentage is a placeholder, not a zero", func(t *testing.T) {
		grades := []models.Grade{
			grade(1, 101, 80),
			grade(1, 102, 0.5),
		}
		result := e.ComputeSubjectAverage(1, 10, subjects, grades)
		require.NotNil(t, result)
		assert.InDelta(t, 80.0, result.Average, 1e-9)
	})

	t.Run("exact zero is a real score", func(t *testing.T) {
		grades := []models.Grade{
			grade(1, 101, 80),
			grade(1, 102, 0),
		}
		result := e.ComputeSubjectAverage(1, 10, subjects, grades)
		require.NotNil(t, result)
		assert.InDelta(t, 40.0, result.Average, 1e-9)
	})

	t.Run("only placeholders resolves to zero average", func(t *testing.T) {
		grades := []models.Grade{grade(1, 101, 0.5)}
		result := e.ComputeSubjectAverage(1, 10, subjects, grades)
		require.NotNil(t, result, "a placeholder is still a recorded grade")
		assert.Zero(t, result.Average)
		assert.Equal(t, "F", result.LetterGrade)
	})
}

func TestComputeSubjectAverage_Absence(t *testing.T) {
	e := testEngine()
	subjects := []models.Subject{mathSubject()}

	t.Run("unknown subject", func(t *testing.T) {
		assert.Nil(t, e.ComputeSubjectAverage(1, 999, subjects, nil))
	})

	t.Run("no grades at all", func(t *testing.T) {
		assert.Nil(t, e.ComputeSubjectAverage(1, 10, subjects, nil))
	})

	t.Run("only skipped grades", func(t *testing.T) {
		grades := []models.Grade{skipped(1, 101)}
		assert.Nil(t, e.ComputeSubjectAverage(1, 10, subjects, grades))
	})

	t.Run("grades belong to another student", func(t *testing.T) {
		grades := []models.Grade{grade(2, 101, 90)}
		assert.Nil(t, e.ComputeSubjectAverage(1, 10, subjects, grades))
	})
}

func TestComputeSubjectAverage_OrphanedGradeExcluded(t *testing.T) {
	e := testEngine()
	subjects := []models.Subject{mathSubject()}
	grades := []models.Grade{
		grade(1, 101, 80),
		grade(1, 102, 90),
		grade(1, 9999, 10), // lesson deleted since entry
	}

	result := e.ComputeSubjectAverage(1, 10, subjects, grades)
	require.NotNil(t, result)
	assert.InDelta(t, 85.0, result.Average, 1e-9)
	assert.Len(t, result.Grades, 2)
}

func TestComputeSubjectAverage_NaNPercentageCoercedToZero(t *testing.T) {
	e := testEngine()
	subjects := []models.Subject{subject(10, "Art", "", nil,
		lesson(101, 10, catLesson, 1),
		lesson(102, 10, catLesson, 2),
	)}
	grades := []models.Grade{
		grade(1, 101, 90),
		grade(1, 102, math.NaN()),
	}

	result := e.ComputeSubjectAverage(1, 10, subjects, grades)
	require.NotNil(t, result)
	assert.InDelta(t, 45.0, result.Average, 1e-9)
}

func TestComputeSubjectAverage_InactiveCategoryWeighsZero(t *testing.T) {
	e := testEngine()
	subjects := []models.Subject{subject(10, "Music", "",
		map[uint]float64{catLesson: 0.5, catQuiz: 0.5},
		lesson(101, 10, catLesson, 1),
		lesson(102, 10, catQuiz, 2), // quiz category is inactive in fixtures
	)}
	grades := []models.Grade{
		grade(1, 101, 80),
		grade(1, 102, 20),
	}

	result := e.ComputeSubjectAverage(1, 10, subjects, grades)
	require.NotNil(t, result)
	assert.InDelta(t, 80.0, result.Average, 1e-9, "inactive category must not influence the average")
}

func TestComputeSubjectAverage_Idempotence(t *testing.T) {
	e := testEngine()
	subjects := []models.Subject{mathSubject()}
	grades := []models.Grade{
		grade(1, 101, 80),
		grade(1, 102, 90),
		grade(1, 103, 70),
	}

	first := e.ComputeSubjectAverage(1, 10, subjects, grades)
	second := e.ComputeSubjectAverage(1, 10, subjects, grades)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, first, second)
	assert.Equal(t, math.Float64bits(first.Average), math.Float64bits(second.Average))
}

func TestComputeSubjectAverageForPeriod(t *testing.T) {
	e := testEngine()
	s := subject(10, "Spelling", "", nil,
		lesson(101, 10, catLesson, 1),
		lesson(102, 10, catLesson, 2),
		lesson(103, 10, catLesson, 4),
	)
	s.PeriodMarkers = []models.GradingPeriodMarker{
		{ID: 1, SubjectID: 10, Label: "Six Weeks 1", Position: 3},
	}
	subjects := []models.Subject{s}
	grades := []models.Grade{
		grade(1, 101, 100),
		grade(1, 102, 90),
		grade(1, 103, 40),
	}

	t.Run("first period stops at the marker", func(t *testing.T) {
		result := e.ComputeSubjectAverageForPeriod(1, 10, 1, subjects, grades)
		require.NotNil(t, result)
		assert.InDelta(t, 95.0, result.Average, 1e-9)
	})

	t.Run("second period covers trailing lessons", func(t *testing.T) {
		result := e.ComputeSubjectAverageForPeriod(1, 10, 2, subjects, grades)
		require.NotNil(t, result)
		assert.InDelta(t, 40.0, result.Average, 1e-9)
	})

	t.Run("period past the markers has no lessons", func(t *testing.T) {
		assert.Nil(t, e.ComputeSubjectAverageForPeriod(1, 10, 3, subjects, grades))
	})

	t.Run("PeriodAll covers everything", func(t *testing.T) {
		result := e.ComputeSubjectAverageForPeriod(1, 10, PeriodAll, subjects, grades)
		require.NotNil(t, result)
		assert.InDelta(t, (100.0+90+40)/3, result.Average, 1e-9)
	})
}

func TestSubjectCalculationBreakdown_MatchesAverage(t *testing.T) {
	e := testEngine()
	subjects := []models.Subject{mathSubject()}
	grades := []models.Grade{
		grade(1, 101, 80),
		grade(1, 102, 90),
		grade(1, 103, 70),
	}

	result := e.ComputeSubjectAverage(1, 10, subjects, grades)
	breakdown := e.SubjectCalculationBreakdown(1, 10, subjects, grades)
	require.NotNil(t, result)
	require.NotNil(t, breakdown)

	assert.Equal(t, math.Float64bits(result.Average), math.Float64bits(breakdown.Average),
		"breakdown and average must be bit-identical projections of one pass")
	assert.Equal(t, result.LetterGrade, breakdown.LetterGrade)

	var contributions float64
	for _, c := range breakdown.Categories {
		contributions += c.Contribution
	}
	assert.InDelta(t, result.Average, contributions, 1e-9)
}

func TestGenerateReportCard(t *testing.T) {
	e := testEngine()
	students := []models.Student{
		{ID: 1, TeacherID: 1, FirstName: "Ada", LastName: "Byron"},
		{ID: 2, TeacherID: 1, FirstName: "Blaise"},
	}
	reading := subject(20, "Reading", "Reading & Phonics", nil,
		lesson(201, 20, catLesson, 1),
	)
	subjects := []models.Subject{mathSubject(), reading}
	grades := []models.Grade{
		grade(1, 101, 80),
		grade(1, 102, 90),
		grade(1, 103, 70),
		grade(1, 201, 92),
		skipped(2, 201),
	}
	comments := map[uint]string{1: "Strong term."}

	t.Run("full card", func(t *testing.T) {
		card := e.GenerateReportCard(1, "1", comments, students, subjects, grades)
		require.NotNil(t, card)
		assert.Equal(t, uint(1), card.StudentID)
		assert.Equal(t, "Ada Byron", card.StudentName)
		assert.Equal(t, "1", card.Period)
		assert.Equal(t, "Strong term.", card.Comments)
		require.Len(t, card.Subjects, 2)

		// Report-card display name wins when set.
		assert.Equal(t, "Mathematics", card.Subjects[0].SubjectName)
		assert.Equal(t, "Reading & Phonics", card.Subjects[1].SubjectName)

		// Overall GPA is the unweighted mean of the subject averages.
		assert.InDelta(t, (75.1+92.0)/2, card.OverallGPA, 1e-9)
	})

	t.Run("subject without qualifying grades never appears", func(t *testing.T) {
		card := e.GenerateReportCard(2, "", nil, students, subjects, grades)
		assert.Nil(t, card, "only a skipped grade recorded: no report available")
	})

	t.Run("unknown student", func(t *testing.T) {
		assert.Nil(t, e.GenerateReportCard(99, "", nil, students, subjects, grades))
	})

	t.Run("non-numeric period token passes through unfiltered", func(t *testing.T) {
		card := e.GenerateReportCard(1, "fall-term", comments, students, subjects, grades)
		require.NotNil(t, card)
		assert.Equal(t, "fall-term", card.Period)
		require.Len(t, card.Subjects, 2)
	})
}
