package lessons

import "errors"

var (
	// ErrLessonNotFound is returned when a lesson does not exist in the school.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrRosterNotFound is returned when a school has no roster export.
	ErrRosterNotFound = errors.New("roster not found")
	// ErrInvalidRoster is returned when a roster export lacks a required column.
	ErrInvalidRoster = errors.New("invalid roster")
)
