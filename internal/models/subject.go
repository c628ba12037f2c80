package models

import (
	"encoding/json"
	"strconv"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subject is a course a student can be enrolled in. It owns an ordered
// collection of lessons and period markers and carries the category weight
// map used by the aggregation engine.
//
// Weights is a JSONB object mapping category id (stringified, JSON keys are
// strings) to a fraction in [0,1]. The weights of active categories must sum
// to 1.0 whenever a subject is created or edited; that rule is enforced by
// SubjectService, never re-checked inside the engine.
type Subject struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	TeacherID      uint           `json:"teacher_id" gorm:"not null;index"`
	Name           string         `json:"name" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	ReportCardName string         `json:"report_card_name" gorm:"size:200" validate:"max=200"`
	Weights        datatypes.JSON `json:"weights" gorm:"type:jsonb"` // map[categoryID]weight

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Teacher       User                  `json:"-" gorm:"foreignKey:TeacherID"`
	Lessons       []Lesson              `json:"lessons,omitempty" gorm:"foreignKey:SubjectID"`
	PeriodMarkers []GradingPeriodMarker `json:"period_markers,omitempty" gorm:"foreignKey:SubjectID"`
	Students      []Student             `json:"students,omitempty" gorm:"many2many:student_subjects"`
}

func (Subject) TableName() string {
	return "subjects"
}

// DisplayName returns the report-card name when one is set, otherwise the
// plain subject name.
func (s *Subject) DisplayName() string {
	if s.ReportCardName != "" {
		return s.ReportCardName
	}
	return s.Name
}

// WeightMap decodes the JSONB weight column into a category-id keyed map.
// A missing or malformed column decodes to an empty map; the engine treats
// that as "no weights defined" and falls back to an even split.
func (s *Subject) WeightMap() map[uint]float64 {
	weights := make(map[uint]float64)
	if len(s.Weights) == 0 {
		return weights
	}

	var raw map[string]float64
	if err := json.Unmarshal(s.Weights, &raw); err != nil {
		return weights
	}
	for key, w := range raw {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		weights[uint(id)] = w
	}
	return weights
}

// SetWeightMap encodes a category-id keyed weight map into the JSONB column.
func (s *Subject) SetWeightMap(weights map[uint]float64) error {
	raw := make(map[string]float64, len(weights))
	for id, w := range weights {
		raw[strconv.FormatUint(uint64(id), 10)] = w
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	s.Weights = data
	return nil
}
