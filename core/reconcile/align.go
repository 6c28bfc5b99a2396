package reconcile

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// AlignResult is the outcome of writing roster values onto a stored lesson.
type AlignResult struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Lesson  *InternalLesson `json:"lesson,omitempty"`
}

// Align writes the roster's student name, duration, teacher, subject and start date
// onto the stored lesson and returns the lesson as stored afterwards.
// Callers are expected to have run CheckConflicts first.
//
// Alignment fails without writing when the teacher or subject cannot be resolved
// or when the roster start date is set but is not a recognised date. A failed
// store write is reported the same way.
func (a *Aligner) Align(ctx context.Context, schoolID string, in InternalLesson, ex ExternalLesson) AlignResult {
	teacherID, subjectID, msg := a.resolveIDs(ctx, schoolID, ex)
	if msg != "" {
		return AlignResult{Success: false, Message: msg}
	}

	update := LessonUpdate{
		StudentName: strings.TrimSpace(ex.StudentName),
		Duration:    ex.Duration,
		TeacherID:   teacherID,
		SubjectID:   subjectID,
	}

	date, ok := NormalizeDate(ex.StartDate)
	if !ok {
		return AlignResult{Success: false, Message: fmt.Sprintf("Start date %q is not a recognised date", ex.StartDate)}
	}
	if date != DateUnset {
		update.StartDate = &date
	}

	if err := a.writer.UpdateLesson(ctx, schoolID, in.ID, update); err != nil {
		a.logger.Error("Failed to align lesson", zap.String("lesson_id", in.ID), zap.Error(err))
		return AlignResult{Success: false, Message: fmt.Sprintf("Failed to update lesson: %v", err)}
	}

	updated, err := a.writer.GetLesson(ctx, schoolID, in.ID)
	if err != nil {
		a.logger.Error("Failed to reload aligned lesson", zap.String("lesson_id", in.ID), zap.Error(err))
		return AlignResult{Success: false, Message: fmt.Sprintf("Lesson updated but could not be reloaded: %v", err)}
	}

	a.logger.Info("Aligned lesson with roster",
		zap.String("school_id", schoolID),
		zap.String("lesson_id", in.ID),
		zap.Int("source_row", ex.SourceRow),
	)

	return AlignResult{Success: true, Lesson: updated}
}
