package gradebook

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLetterGrade(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		expected   string
	}{
		{"exact A cutoff", 93, "A"},
		{"just under A", 92.999, "A-"},
		{"exact A- cutoff", 90, "A-"},
		{"B plus", 87, "B+"},
		{"B", 84.5, "B"},
		{"B minus", 80, "B-"},
		{"C plus", 77, "C+"},
		{"C", 75.1, "C"},
		{"C minus", 70, "C-"},
		{"D plus", 67, "D+"},
		{"D", 63, "D"},
		{"D minus", 60, "D-"},
		{"just under D minus", 59.9, "F"},
		{"zero", 0, "F"},
		{"over 100 stays A", 104, "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LetterGrade(tt.percentage))
		})
	}
}

func TestLetterGrade_NaN(t *testing.T) {
	assert.Equal(t, "N/A", LetterGrade(math.NaN()))
}
