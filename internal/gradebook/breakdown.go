package gradebook

import (
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
)

// CategoryBreakdown exposes one category's intermediate values from the
// aggregation pipeline: its simple average, the weight that was resolved for
// it, and the share it contributed to the final average.
type CategoryBreakdown struct {
	CategoryID     uint    `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	GradeCount     int     `json:"grade_count"`
	Average        float64 `json:"average"`
	Weight         float64 `json:"weight"`
	WeightExplicit bool    `json:"weight_explicit"`
	Contribution   float64 `json:"contribution"`
}

// CalculationBreakdown is the audit view of a subject average: the same
// numbers ComputeSubjectAverage produces, with the per-category intermediate
// steps exposed for display.
type CalculationBreakdown struct {
	SubjectID   uint                `json:"subject_id"`
	SubjectName string              `json:"subject_name"`
	Categories  []CategoryBreakdown `json:"categories"`
	TotalWeight float64             `json:"total_weight"`
	Average     float64             `json:"average"`
	LetterGrade string              `json:"letter_grade"`
}

// SubjectCalculationBreakdown explains how a student's subject average was
// computed. It is a projection of the exact same aggregation pass that
// ComputeSubjectAverage runs, so the two can never drift apart. Returns nil
// under the same absence conditions as ComputeSubjectAverage.
func (e *Engine) SubjectCalculationBreakdown(studentID, subjectID uint, subjects []models.Subject, grades []models.Grade) *CalculationBreakdown {
	return e.SubjectCalculationBreakdownForPeriod(studentID, subjectID, PeriodAll, subjects, grades)
}

// SubjectCalculationBreakdownForPeriod is SubjectCalculationBreakdown
// restricted to the lessons of one grading period.
func (e *Engine) SubjectCalculationBreakdownForPeriod(studentID, subjectID uint, period int, subjects []models.Subject, grades []models.Grade) *CalculationBreakdown {
	agg := e.aggregate(studentID, subjectID, period, subjects, grades)
	if agg == nil {
		return nil
	}

	var totalWeight float64
	for _, b := range agg.buckets {
		totalWeight += b.weight
	}

	categories := make([]CategoryBreakdown, 0, len(agg.buckets))
	for _, b := range agg.buckets {
		contribution := 0.0
		if totalWeight > 0 {
			contribution = b.average * b.weight / totalWeight
		}
		categories = append(categories, CategoryBreakdown{
			CategoryID:     b.categoryID,
			CategoryName:   b.categoryName,
			GradeCount:     b.count,
			Average:        b.average,
			Weight:         b.weight,
			WeightExplicit: b.explicit,
			Contribution:   contribution,
		})
	}

	return &CalculationBreakdown{
		SubjectID:   agg.subject.ID,
		SubjectName: agg.subject.DisplayName(),
		Categories:  categories,
		TotalWeight: totalWeight,
		Average:     agg.average,
		LetterGrade: LetterGrade(agg.average),
	}
}
