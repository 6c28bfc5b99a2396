package reconcile

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// ConflictReport is the outcome of checking whether a pair may be aligned.
type ConflictReport struct {
	// Success is true when alignment may proceed.
	Success bool `json:"success"`

	// Message explains a refusal.
	Message string `json:"message,omitempty"`

	// ConflictsWith is the lesson the aligned lesson would collide with.
	ConflictsWith *InternalLesson `json:"conflicts_with,omitempty"`

	// TeacherID and SubjectID are the resolved identifiers of the roster names.
	TeacherID string `json:"teacher_id,omitempty"`
	SubjectID string `json:"subject_id,omitempty"`
}

// Aligner checks and applies alignments of a stored lesson to its roster row.
// Each call stands alone: no transaction spans a check and the write that follows it.
type Aligner struct {
	resolver Resolver
	schedule ScheduleReader
	writer   Writer
	logger   *zap.Logger
}

// NewAligner creates an Aligner over the given store collaborators.
func NewAligner(resolver Resolver, schedule ScheduleReader, writer Writer, logger *zap.Logger) *Aligner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aligner{
		resolver: resolver,
		schedule: schedule,
		writer:   writer,
		logger:   logger,
	}
}

// CheckConflicts reports whether aligning in to ex would create a scheduling collision.
//
// When the teacher changes, no overlap check runs: leaving a teacher cannot collide
// with that teacher's schedule, and the new teacher's schedule is not consulted.
// When the teacher stays and the duration changes, the lesson's new interval is
// tested against the teacher's other lessons on the same day.
func (a *Aligner) CheckConflicts(ctx context.Context, schoolID string, in InternalLesson, ex ExternalLesson) ConflictReport {
	teacherID, subjectID, msg := a.resolveIDs(ctx, schoolID, ex)
	if msg != "" {
		return ConflictReport{Success: false, Message: msg}
	}

	report := ConflictReport{Success: true, TeacherID: teacherID, SubjectID: subjectID}

	if in.TeacherID == nil || *in.TeacherID != teacherID {
		return report
	}
	if in.Duration == ex.Duration {
		return report
	}
	if in.DayOfWeek == nil || in.StartTime == nil {
		return report
	}
	start, ok := parseClock(*in.StartTime)
	if !ok {
		a.logger.Warn("Lesson start time is not HH:MM, skipping overlap check",
			zap.String("lesson_id", in.ID),
			zap.String("start_time", *in.StartTime),
		)
		return report
	}
	end := start + ex.Duration

	others, err := a.schedule.LessonsForTeacherOnDay(ctx, schoolID, teacherID, *in.DayOfWeek)
	if err != nil {
		a.logger.Error("Failed to load teacher schedule", zap.String("teacher_id", teacherID), zap.Error(err))
		return ConflictReport{Success: false, Message: fmt.Sprintf("Failed to load teacher schedule: %v", err)}
	}

	for _, other := range others {
		if other.ID == in.ID || other.StartTime == nil {
			continue
		}
		otherStart, ok := parseClock(*other.StartTime)
		if !ok {
			continue
		}
		otherEnd := otherStart + other.Duration
		if start < otherEnd && otherStart < end {
			collided := other
			return ConflictReport{
				Success: false,
				Message: fmt.Sprintf("Changing duration to %d minutes would overlap with %s's lesson at %s",
					ex.Duration, other.StudentName, *other.StartTime),
				ConflictsWith: &collided,
				TeacherID:     teacherID,
				SubjectID:     subjectID,
			}
		}
	}

	return report
}

// resolveIDs returns a non-empty message naming the first name that could not be resolved.
func (a *Aligner) resolveIDs(ctx context.Context, schoolID string, ex ExternalLesson) (teacherID, subjectID, msg string) {
	teacherID, found, err := a.resolver.ResolveTeacher(ctx, schoolID, strings.TrimSpace(ex.TeacherName))
	if err != nil {
		return "", "", fmt.Sprintf("Failed to look up teacher %q: %v", ex.TeacherName, err)
	}
	if !found {
		return "", "", fmt.Sprintf("Teacher %q not found in this school", ex.TeacherName)
	}

	subjectID, found, err = a.resolver.ResolveSubject(ctx, schoolID, strings.TrimSpace(ex.SubjectName))
	if err != nil {
		return "", "", fmt.Sprintf("Failed to look up subject %q: %v", ex.SubjectName, err)
	}
	if !found {
		return "", "", fmt.Sprintf("Subject %q not found in this school", ex.SubjectName)
	}

	return teacherID, subjectID, ""
}

// parseClock converts "HH:MM" (or "HH:MM:SS") to minutes after midnight.
func parseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}
