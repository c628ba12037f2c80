package services

import (
	"context"
	"testing"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// TestSubjectService_Create_WeightValidation tests the edit-boundary rule
// that active category weights must sum to 1.0
func TestSubjectService_Create_WeightValidation(t *testing.T) {
	categories := []models.GradeCategory{
		{ID: 1, TeacherID: 1, Name: "Tests", IsActive: true},
		{ID: 2, TeacherID: 1, Name: "Homework", IsActive: true},
		{ID: 3, TeacherID: 1, Name: "Projects", IsActive: false},
	}

	tests := []struct {
		name        string
		weights     map[uint]float64
		expectSaved bool
		check       func(*testing.T, error)
	}{
		{
			name:        "active weights summing to one",
			weights:     map[uint]float64{1: 0.6, 2: 0.4},
			expectSaved: true,
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "active weights summing below one",
			weights: map[uint]float64{1: 0.6, 2: 0.3},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrWeightSumInvalid)
				assert.True(t, IsValidation(err))
			},
		},
		{
			name:    "active weights summing above one",
			weights: map[uint]float64{1: 0.7, 2: 0.4},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrWeightSumInvalid)
			},
		},
		{
			name:        "tolerance absorbs float drift",
			weights:     map[uint]float64{1: 0.1 + 0.2, 2: 0.7},
			expectSaved: true,
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:        "inactive category weight excluded from the sum",
			weights:     map[uint]float64{1: 0.6, 2: 0.4, 3: 0.5},
			expectSaved: true,
			check: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:    "unknown category reference",
			weights: map[uint]float64{1: 0.6, 9: 0.4},
			check: func(t *testing.T, err error) {
				assert.True(t, IsValidation(err))
				assert.NotErrorIs(t, err, ErrWeightSumInvalid)
			},
		},
		{
			name:    "weight outside the unit interval",
			weights: map[uint]float64{1: 1.4, 2: -0.4},
			check: func(t *testing.T, err error) {
				assert.True(t, IsValidation(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.categoryRepo.On("ListForTeacher", mock.Anything, uint(1)).Return(categories, nil)
			if tt.expectSaved {
				repo.subjectRepo.On("Create", mock.Anything, mock.MatchedBy(func(s *models.Subject) bool {
					return s.TeacherID == 1 && s.Name == "Arithmetic 5"
				})).Run(func(args mock.Arguments) {
					args.Get(1).(*models.Subject).ID = 10
				}).Return(nil)
			}

			service := NewSubjectService(repo, &stubReportService{}, testLogger(), utils.NewValidator())

			subject, err := service.Create(context.Background(), &CreateSubjectRequest{
				Name:    "Arithmetic 5",
				Weights: tt.weights,
			}, 1)
			tt.check(t, err)

			if tt.expectSaved {
				assert.NotNil(t, subject)
				assert.Equal(t, tt.weights, subject.WeightMap())
			} else {
				assert.Nil(t, subject)
			}

			repo.subjectRepo.AssertExpectations(t)
		})
	}
}

// TestSubjectService_Update_WeightValidation tests weight replacement on an
// existing subject
func TestSubjectService_Update_WeightValidation(t *testing.T) {
	categories := []models.GradeCategory{
		{ID: 1, TeacherID: 1, Name: "Tests", IsActive: true},
		{ID: 2, TeacherID: 1, Name: "Homework", IsActive: true},
	}

	newSubject := func() *models.Subject {
		s := &models.Subject{ID: 10, TeacherID: 1, Name: "Arithmetic 5"}
		if err := s.SetWeightMap(map[uint]float64{1: 0.5, 2: 0.5}); err != nil {
			t.Fatalf("failed to seed weights: %v", err)
		}
		return s
	}

	t.Run("valid replacement invalidates cached reports", func(t *testing.T) {
		repo := newMockRepository()
		repo.subjectRepo.On("IsOwner", mock.Anything, uint(10), uint(1)).Return(true, nil)
		repo.subjectRepo.On("GetByID", mock.Anything, uint(10)).Return(newSubject(), nil)
		repo.categoryRepo.On("ListForTeacher", mock.Anything, uint(1)).Return(categories, nil)
		repo.subjectRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Subject")).Return(nil)

		report := &stubReportService{}
		service := NewSubjectService(repo, report, testLogger(), utils.NewValidator())

		updated, err := service.Update(context.Background(), 10, &UpdateSubjectRequest{
			Weights: map[uint]float64{1: 0.8, 2: 0.2},
		}, 1)
		assert.NoError(t, err)
		assert.Equal(t, map[uint]float64{1: 0.8, 2: 0.2}, updated.WeightMap())
		assert.Equal(t, []uint{1}, report.invalidations)
		repo.subjectRepo.AssertExpectations(t)
	})

	t.Run("invalid sum leaves the subject untouched", func(t *testing.T) {
		repo := newMockRepository()
		repo.subjectRepo.On("IsOwner", mock.Anything, uint(10), uint(1)).Return(true, nil)
		repo.subjectRepo.On("GetByID", mock.Anything, uint(10)).Return(newSubject(), nil)
		repo.categoryRepo.On("ListForTeacher", mock.Anything, uint(1)).Return(categories, nil)

		report := &stubReportService{}
		service := NewSubjectService(repo, report, testLogger(), utils.NewValidator())

		updated, err := service.Update(context.Background(), 10, &UpdateSubjectRequest{
			Weights: map[uint]float64{1: 0.8, 2: 0.8},
		}, 1)
		assert.ErrorIs(t, err, ErrWeightSumInvalid)
		assert.Nil(t, updated)
		assert.Empty(t, report.invalidations)
		// The Update mock never had an expectation set, so reaching it would
		// have failed the test.
		repo.subjectRepo.AssertExpectations(t)
	})

	t.Run("owned by another teacher", func(t *testing.T) {
		repo := newMockRepository()
		repo.subjectRepo.On("IsOwner", mock.Anything, uint(10), uint(2)).Return(false, nil)

		service := NewSubjectService(repo, &stubReportService{}, testLogger(), utils.NewValidator())

		updated, err := service.Update(context.Background(), 10, &UpdateSubjectRequest{}, 2)
		assert.True(t, IsUnauthorized(err))
		assert.Nil(t, updated)
	})
}
