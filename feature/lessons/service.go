package lessons

import (
	"context"
	"errors"
	"fmt"
	"io"

	"lesson-reconciler/core/reconcile"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service runs reconciliations and alignments for schools.
type Service struct {
	store   *Store
	roster  *RosterSource
	engine  *reconcile.Engine
	aligner *reconcile.Aligner
	logger  *zap.Logger
	group   singleflight.Group
}

// NewService creates a new lesson service.
func NewService(store *Store, roster *RosterSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		roster:  roster,
		engine:  reconcile.NewEngine(logger),
		aligner: reconcile.NewAligner(store, store, store, logger),
		logger:  logger,
	}
}

// Compare reconciles the school's stored lessons against its roster.
// Concurrent calls for the same school share one run. The shared run ignores
// caller cancellation; a cancelled caller stops waiting and gets ctx.Err().
func (s *Service) Compare(ctx context.Context, schoolID string) (*reconcile.ComparisonResult, error) {
	runCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(schoolID, func() (any, error) {
		return s.engine.Run(runCtx, schoolID, s.store, s.roster)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			s.logger.Debug("Reconciliation shared with concurrent caller", zap.String("school_id", schoolID))
		}
		return res.Val.(*reconcile.ComparisonResult), nil
	}
}

// CheckConflicts loads the lesson and checks whether aligning it to ext is safe.
func (s *Service) CheckConflicts(ctx context.Context, schoolID, lessonID string, ext reconcile.ExternalLesson) (reconcile.ConflictReport, error) {
	lesson, err := s.store.GetLesson(ctx, schoolID, lessonID)
	if err != nil {
		return reconcile.ConflictReport{}, err
	}
	return s.aligner.CheckConflicts(ctx, schoolID, *lesson, ext), nil
}

// Align loads the lesson, checks it for conflicts and aligns it to ext when safe.
func (s *Service) Align(ctx context.Context, schoolID, lessonID string, ext reconcile.ExternalLesson) (reconcile.AlignResult, error) {
	lesson, err := s.store.GetLesson(ctx, schoolID, lessonID)
	if err != nil {
		return reconcile.AlignResult{}, err
	}

	report := s.aligner.CheckConflicts(ctx, schoolID, *lesson, ext)
	if !report.Success {
		s.logger.Info("Alignment refused",
			zap.String("school_id", schoolID),
			zap.String("lesson_id", lessonID),
			zap.String("reason", report.Message))
		return reconcile.AlignResult{Success: false, Message: report.Message}, nil
	}

	return s.aligner.Align(ctx, schoolID, *lesson, ext), nil
}

// AlignMismatched aligns every mismatched pair of a comparison. Pairs that fail the
// conflict check are skipped and reported.
func (s *Service) AlignMismatched(ctx context.Context, schoolID string, result *reconcile.ComparisonResult) []reconcile.AlignResult {
	results := make([]reconcile.AlignResult, 0, len(result.Mismatched))
	for _, pair := range result.Mismatched {
		report := s.aligner.CheckConflicts(ctx, schoolID, pair.Internal, pair.External)
		if !report.Success {
			results = append(results, reconcile.AlignResult{Success: false, Message: report.Message})
			continue
		}
		results = append(results, s.aligner.Align(ctx, schoolID, pair.Internal, pair.External))
	}
	return results
}

// UploadRoster stores a roster export for the school and returns its row count.
func (s *Service) UploadRoster(ctx context.Context, schoolID string, body io.Reader) (int, error) {
	return s.roster.UploadRoster(ctx, schoolID, body)
}

// ListRosters returns the schools that have a roster export.
func (s *Service) ListRosters(ctx context.Context) ([]string, error) {
	return s.roster.ListRosters(ctx)
}

// IsNotFound reports whether err means a missing lesson or roster.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrLessonNotFound) || errors.Is(err, ErrRosterNotFound)
}

// LessonLabel describes a lesson for logs and prompts.
func LessonLabel(l reconcile.InternalLesson) string {
	return fmt.Sprintf("%s (%s, %d min)", l.StudentName, l.ID, l.Duration)
}
