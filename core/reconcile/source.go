package reconcile

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// InternalSource returns the stored lessons of a school.
type InternalSource interface {
	FetchLessons(ctx context.Context, schoolID string) ([]InternalLesson, error)
}

// ExternalSource returns the roster rows of a school.
type ExternalSource interface {
	FetchRoster(ctx context.Context, schoolID string) ([]ExternalLesson, error)
}

// Resolver maps free-text names to identifiers scoped to a school.
// Lookups are case-insensitive. A missing name yields found=false, not an error.
type Resolver interface {
	// ResolveTeacher only considers teachers active in the school.
	ResolveTeacher(ctx context.Context, schoolID, name string) (id string, found bool, err error)
	ResolveSubject(ctx context.Context, schoolID, name string) (id string, found bool, err error)
}

// ScheduleReader lists a teacher's lessons on a weekday.
type ScheduleReader interface {
	LessonsForTeacherOnDay(ctx context.Context, schoolID, teacherID string, day int) ([]InternalLesson, error)
}

// LessonUpdate is the field set alignment may write.
// Day of week, start time and end date are never written.
type LessonUpdate struct {
	StudentName string
	Duration    int
	TeacherID   string
	SubjectID   string
	// StartDate is an ISO date; nil clears the column.
	StartDate *string
}

// Writer persists alignment updates and reads lessons back.
type Writer interface {
	UpdateLesson(ctx context.Context, schoolID, lessonID string, update LessonUpdate) error
	GetLesson(ctx context.Context, schoolID, lessonID string) (*InternalLesson, error)
}

// Fetch loads both sources concurrently and returns once both complete.
func Fetch(ctx context.Context, schoolID string, internal InternalSource, external ExternalSource) ([]InternalLesson, []ExternalLesson, error) {
	var (
		internalLessons []InternalLesson
		externalLessons []ExternalLesson
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		lessons, err := internal.FetchLessons(gctx, schoolID)
		if err != nil {
			return fmt.Errorf("failed to fetch internal lessons: %w", err)
		}
		internalLessons = lessons
		return nil
	})

	g.Go(func() error {
		rows, err := external.FetchRoster(gctx, schoolID)
		if err != nil {
			return fmt.Errorf("failed to fetch roster: %w", err)
		}
		externalLessons = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return internalLessons, externalLessons, nil
}
