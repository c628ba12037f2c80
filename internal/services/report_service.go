package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/cache"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/events"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/gradebook"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/models"
	"github.com/Jaime-Bergen/gradeflowapp-sub000/internal/repositories"
)

// reportCacheTTL bounds staleness for cached report cards; writes invalidate
// eagerly, the TTL only covers invalidation failures.
const reportCacheTTL = 10 * time.Minute

type reportService struct {
	repo      repositories.Repository
	engine    *gradebook.Engine
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewReportService(
	repo repositories.Repository,
	engine *gradebook.Engine,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
) ReportService {
	return &reportService{
		repo:      repo,
		engine:    engine,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
	}
}

// snapshot is one consistent read of everything the engine needs.
type snapshot struct {
	students []models.Student
	subjects []models.Subject
	grades   []models.Grade
}

func (s *reportService) SubjectAverage(ctx context.Context, teacherID, studentID, subjectID uint, period string) (*gradebook.SubjectResult, error) {
	if err := s.requireAccess(ctx, teacherID, studentID, subjectID); err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	result := s.engine.ComputeSubjectAverageForPeriod(studentID, subjectID, gradebook.ParsePeriod(period), snap.subjects, snap.grades)
	return result, nil
}

func (s *reportService) Breakdown(ctx context.Context, teacherID, studentID, subjectID uint, period string) (*gradebook.CalculationBreakdown, error) {
	if err := s.requireAccess(ctx, teacherID, studentID, subjectID); err != nil {
		return nil, err
	}

	snap, err := s.loadSnapshot(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	breakdown := s.engine.SubjectCalculationBreakdownForPeriod(studentID, subjectID, gradebook.ParsePeriod(period), snap.subjects, snap.grades)
	return breakdown, nil
}

func (s *reportService) ReportCard(ctx context.Context, teacherID, studentID uint, period string) (*gradebook.ReportCard, error) {
	owned, err := s.repo.Student().IsOwner(ctx, studentID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to check student ownership: %w", err)
	}
	if !owned {
		return nil, NewPermissionError(teacherID, studentID, "student", "report", "not owner")
	}

	key := reportCardKey(teacherID, studentID, period)
	var cached gradebook.ReportCard
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("report cache read failed", "key", key, "error", err)
	}

	snap, err := s.loadSnapshot(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	comments, err := s.repo.Comment().GetForPeriod(ctx, teacherID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to load report comments: %w", err)
	}

	card := s.engine.GenerateReportCard(studentID, period, comments, snap.students, snap.subjects, snap.grades)
	if card == nil {
		return nil, nil
	}

	if err := s.cache.Set(ctx, key, card, reportCacheTTL); err != nil {
		s.logger.Warn("report cache write failed", "key", key, "error", err)
	}

	event := events.NewReportGeneratedEvent(teacherID, studentID, period, len(card.Subjects), card.OverallGPA)
	if err := s.publisher.PublishGradebookEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish report event", "error", err)
	}

	return card, nil
}

// Dashboard computes the overview of every student's standing in every
// subject with grade evidence, from one snapshot read.
func (s *reportService) Dashboard(ctx context.Context, teacherID uint) (*DashboardSummary, error) {
	snap, err := s.loadSnapshot(ctx, teacherID)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		TeacherID: teacherID,
		Students:  make([]DashboardStudent, 0, len(snap.students)),
	}

	for i := range snap.students {
		student := &snap.students[i]
		row := DashboardStudent{
			StudentID:   student.ID,
			StudentName: student.FullName(),
		}

		var sum float64
		for j := range snap.subjects {
			result := s.engine.ComputeSubjectAverage(student.ID, snap.subjects[j].ID, snap.subjects, snap.grades)
			if result == nil {
				continue
			}
			row.Subjects = append(row.Subjects, *result)
			sum += result.Average
		}
		if len(row.Subjects) > 0 {
			row.OverallGPA = sum / float64(len(row.Subjects))
		}

		summary.Students = append(summary.Students, row)
	}

	return summary, nil
}

func (s *reportService) InvalidateCache(ctx context.Context, teacherID uint) error {
	return s.cache.DeletePattern(ctx, fmt.Sprintf("gradeflow:reports:%d:*", teacherID))
}

// ===== HELPERS =====

func (s *reportService) loadSnapshot(ctx context.Context, teacherID uint) (*snapshot, error) {
	students, err := s.repo.Student().ListForTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load students: %w", err)
	}
	subjects, err := s.repo.Subject().SnapshotForTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subject snapshot: %w", err)
	}
	grades, err := s.repo.Grade().SnapshotForTeacher(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("failed to load grade snapshot: %w", err)
	}
	return &snapshot{students: students, subjects: subjects, grades: grades}, nil
}

func (s *reportService) requireAccess(ctx context.Context, teacherID, studentID, subjectID uint) error {
	owned, err := s.repo.Subject().IsOwner(ctx, subjectID, teacherID)
	if err != nil {
		return fmt.Errorf("failed to check subject ownership: %w", err)
	}
	if !owned {
		return NewPermissionError(teacherID, subjectID, "subject", "report", "not owner")
	}

	owned, err = s.repo.Student().IsOwner(ctx, studentID, teacherID)
	if err != nil {
		return fmt.Errorf("failed to check student ownership: %w", err)
	}
	if !owned {
		return NewPermissionError(teacherID, studentID, "student", "report", "not owner")
	}
	return nil
}

func reportCardKey(teacherID, studentID uint, period string) string {
	if period == "" {
		period = "all"
	}
	return fmt.Sprintf("gradeflow:reports:%d:card:%d:%s", teacherID, studentID, period)
}
