package gradebook

import (
	"log/slog"
	"math"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
)

// Engine is the single implementation of grade aggregation in this codebase.
// The dashboard, grade-entry preview, report cards and exports all call into
// it; none of them carry their own grouping or weighting logic.
//
// Every method is a pure projection of the entity snapshot passed in: the
// engine holds no mutable state, performs no I/O besides anomaly logging, and
// is safe for concurrent use. Callers are responsible for passing a
// consistent snapshot (subjects with lessons and markers loaded, plus the
// grade set from the same read).
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// PeriodAll disables grading-period restriction.
const PeriodAll = 0

// SubjectResult is one student's computed standing in one subject.
type SubjectResult struct {
	SubjectID   uint           `json:"subject_id"`
	SubjectName string         `json:"subject_name"`
	Grades      []models.Grade `json:"grades"`
	Average     float64        `json:"average"`
	LetterGrade string         `json:"letter_grade"`
}

// ReportCard is the computed report for one student over one period.
// OverallGPA is a 0-100 percentage, the unweighted mean of the subject
// averages; the name is kept for compatibility with the report templates.
type ReportCard struct {
	StudentID   uint            `json:"student_id"`
	StudentName string          `json:"student_name"`
	Period      string          `json:"period"`
	Subjects    []SubjectResult `json:"subjects"`
	OverallGPA  float64         `json:"overall_gpa"`
	Comments    string          `json:"comments"`
}

// ComputeSubjectAverage computes the weighted average and letter grade for
// one student in one subject across all lessons. It returns nil when the
// subject is unknown or the student has no non-skipped grade in it; absence
// is an expected state, not an error.
func (e *Engine) ComputeSubjectAverage(studentID, subjectID uint, subjects []models.Subject, grades []models.Grade) *SubjectResult {
	return e.ComputeSubjectAverageForPeriod(studentID, subjectID, PeriodAll, subjects, grades)
}

// ComputeSubjectAverageForPeriod is ComputeSubjectAverage restricted to the
// lessons of one grading period. PeriodAll removes the restriction.
func (e *Engine) ComputeSubjectAverageForPeriod(studentID, subjectID uint, period int, subjects []models.Subject, grades []models.Grade) *SubjectResult {
	agg := e.aggregate(studentID, subjectID, period, subjects, grades)
	if agg == nil {
		return nil
	}
	return &SubjectResult{
		SubjectID:   agg.subject.ID,
		SubjectName: agg.subject.DisplayName(),
		Grades:      agg.grades,
		Average:     agg.average,
		LetterGrade: LetterGrade(agg.average),
	}
}

// GenerateReportCard computes a full report card for one student. Subjects
// are discovered from grade evidence rather than the enrollment list: a
// recorded grade proves participation even when the enrollment row is
// missing. Subjects without a computable average are dropped; a report with
// zero subjects is nil, meaning "no report available".
func (e *Engine) GenerateReportCard(studentID uint, period string, comments map[uint]string, students []models.Student, subjects []models.Subject, grades []models.Grade) *ReportCard {
	student := findStudent(students, studentID)
	if student == nil {
		return nil
	}

	periodNum := ParsePeriod(period)
	lessons := indexLessons(subjects)

	var results []SubjectResult
	for _, subjectID := range e.subjectsWithEvidence(studentID, subjects, grades, lessons) {
		result := e.ComputeSubjectAverageForPeriod(studentID, subjectID, periodNum, subjects, grades)
		if result != nil {
			results = append(results, *result)
		}
	}
	if len(results) == 0 {
		return nil
	}

	var sum float64
	for _, r := range results {
		sum += r.Average
	}

	return &ReportCard{
		StudentID:   studentID,
		StudentName: student.FullName(),
		Period:      period,
		Subjects:    results,
		OverallGPA:  sum / float64(len(results)),
		Comments:    comments[studentID],
	}
}

// ===== SHARED AGGREGATION CORE =====

// bucket accumulates one category's included grades. Buckets are ordered by
// the category's first appearance in the subject's lesson ordering so every
// projection of the same snapshot iterates identically.
type bucket struct {
	categoryID   uint
	categoryName string
	inactive     bool
	sum          float64
	count        int

	average  float64
	weight   float64
	explicit bool
}

type aggregation struct {
	subject *models.Subject
	grades  []models.Grade
	buckets []*bucket
	average float64
}

// aggregate runs the one shared grouping/weighting pipeline. Both the plain
// average and the calculation breakdown are projections of its output, which
// keeps them numerically identical by construction.
func (e *Engine) aggregate(studentID, subjectID uint, period int, subjects []models.Subject, grades []models.Grade) *aggregation {
	subject := findSubject(subjects, subjectID)
	if subject == nil {
		return nil
	}

	lessons := indexLessons(subjects)
	allowed := lessonsInPeriod(subject, period)

	var filtered []models.Grade
	buckets := make(map[uint]*bucket)
	var order []uint

	for _, g := range grades {
		if g.StudentID != studentID || g.Skipped {
			continue
		}
		lesson, ok := lessons[g.LessonID]
		if !ok {
			// Orphaned grade: its lesson was deleted. Excluded from the
			// computation so one bad row cannot sink the whole report.
			e.logger.Warn("grade references unknown lesson, excluding from aggregation",
				"grade_id", g.ID,
				"student_id", g.StudentID,
				"lesson_id", g.LessonID)
			continue
		}
		if lesson.SubjectID != subject.ID {
			continue
		}
		if allowed != nil {
			if _, in := allowed[lesson.ID]; !in {
				continue
			}
		}

		filtered = append(filtered, g)

		pct := g.Percentage
		if math.IsNaN(pct) {
			pct = 0
		}
		// Stored percentages between 0 and 1 are not-yet-attempted
		// placeholders, not true zeros. An exact 0 is a real score and
		// drags the category down.
		if pct > 0 && pct < 1 {
			continue
		}

		b, ok := buckets[lesson.CategoryID]
		if !ok {
			b = &bucket{
				categoryID:   lesson.CategoryID,
				categoryName: lesson.Category.Name,
				inactive:     lesson.Category.ID != 0 && !lesson.Category.IsActive,
			}
			buckets[lesson.CategoryID] = b
			order = append(order, lesson.CategoryID)
		}
		b.sum += pct
		b.count++
	}

	if len(filtered) == 0 {
		return nil
	}

	ordered := make([]*bucket, 0, len(order))
	for _, id := range order {
		b := buckets[id]
		b.average = b.sum / float64(b.count)
		ordered = append(ordered, b)
	}

	resolveWeights(ordered, subject.WeightMap())

	var weighted, totalWeight float64
	for _, b := range ordered {
		weighted += b.average * b.weight
		totalWeight += b.weight
	}

	average := 0.0
	if totalWeight > 0 {
		average = weighted / totalWeight
	}

	return &aggregation{
		subject: subject,
		grades:  filtered,
		buckets: ordered,
		average: average,
	}
}

// resolveWeights assigns a weight to every category bucket, keyed strictly by
// category id. Categories with an explicit entry in the subject's weight map
// use it; inactive categories weigh zero; when nothing matches at all the
// present categories split evenly; otherwise unmatched categories split the
// unassigned residual evenly. Positional matching between category order and
// weight order is deliberately not supported.
func resolveWeights(buckets []*bucket, weights map[uint]float64) {
	var matchedSum float64
	matched := 0
	active := 0

	for _, b := range buckets {
		if b.inactive {
			continue
		}
		active++
		if w, ok := weights[b.categoryID]; ok {
			b.weight = w
			b.explicit = true
			matchedSum += w
			matched++
		}
	}

	if active == 0 {
		return
	}

	if matched == 0 {
		share := 1.0 / float64(active)
		for _, b := range buckets {
			if !b.inactive {
				b.weight = share
			}
		}
		return
	}

	unmatched := active - matched
	if unmatched == 0 {
		return
	}
	residual := 1.0 - matchedSum
	if residual < 0 {
		residual = 0
	}
	share := residual / float64(unmatched)
	for _, b := range buckets {
		if !b.inactive && !b.explicit {
			b.weight = share
		}
	}
}

// subjectsWithEvidence returns the ids of subjects the student has at least
// one non-skipped grade in, ordered by the subjects slice for determinism.
func (e *Engine) subjectsWithEvidence(studentID uint, subjects []models.Subject, grades []models.Grade, lessons map[uint]*models.Lesson) []uint {
	seen := make(map[uint]bool)
	for _, g := range grades {
		if g.StudentID != studentID || g.Skipped {
			continue
		}
		if lesson, ok := lessons[g.LessonID]; ok {
			seen[lesson.SubjectID] = true
		}
	}

	var ids []uint
	for _, s := range subjects {
		if seen[s.ID] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// ===== SNAPSHOT LOOKUP HELPERS =====

func findSubject(subjects []models.Subject, id uint) *models.Subject {
	for i := range subjects {
		if subjects[i].ID == id {
			return &subjects[i]
		}
	}
	return nil
}

func findStudent(students []models.Student, id uint) *models.Student {
	for i := range students {
		if students[i].ID == id {
			return &students[i]
		}
	}
	return nil
}

// indexLessons maps lesson id to lesson across every subject in the snapshot.
func indexLessons(subjects []models.Subject) map[uint]*models.Lesson {
	index := make(map[uint]*models.Lesson)
	for i := range subjects {
		for j := range subjects[i].Lessons {
			lesson := &subjects[i].Lessons[j]
			index[lesson.ID] = lesson
		}
	}
	return index
}
