package models

import "encoding/json"

// Legacy key-value dump types for the one-off migration out of the original
// browser key-value store. Records are ("kind:id" -> JSON blob) pairs; the
// migration reads the dump once, normalizes it, and writes relational rows.

type KVRecord struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type KVDump struct {
	Records []KVRecord `json:"records"`
}

type LegacySubject struct {
	ID             uint               `json:"id"`
	Name           string             `json:"name"`
	ReportCardName string             `json:"reportCardName"`
	// Keyed by category name in the legacy store; the migration re-keys
	// weights by category id.
	Weights map[string]float64 `json:"weights"`
}

type LegacyCategory struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
	IsDefault bool   `json:"isDefault"`
}

type LegacyLesson struct {
	ID        uint    `json:"id"`
	SubjectID uint    `json:"subjectId"`
	Category  string  `json:"category"`
	Name      string  `json:"name"`
	MaxPoints float64 `json:"maxPoints"`
	Order     int     `json:"order"`
	// Markers were stored as pseudo-lessons in the legacy ordering space.
	IsPeriodMarker bool `json:"isPeriodMarker"`
}

type LegacyStudent struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Subjects []uint `json:"subjects"`
}

// LegacyGrade has no explicit skip flag; skipped work was encoded as
// percentage 0 with errors equal to max points. The migration is the only
// place allowed to interpret that encoding.
type LegacyGrade struct {
	StudentID  uint    `json:"studentId"`
	LessonID   uint    `json:"lessonId"`
	Points     float64 `json:"points"`
	MaxPoints  float64 `json:"maxPoints"`
	Percentage float64 `json:"percentage"`
	Errors     float64 `json:"errors"`
}

// WasSkipped decodes the legacy magic-value skip encoding.
func (g *LegacyGrade) WasSkipped() bool {
	return g.Percentage == 0 && g.MaxPoints > 0 && g.Errors == g.MaxPoints
}
