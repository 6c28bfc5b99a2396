package reconcile

// ExternalLesson is one row of a school's externally maintained roster.
type ExternalLesson struct {
	// StudentName is the student's name as typed into the roster.
	StudentName string `json:"student_name"`

	// Duration is the lesson length in minutes.
	Duration int `json:"duration"`

	// TeacherName is the teacher's display name.
	TeacherName string `json:"teacher_name"`

	// SubjectName is the subject's display name.
	SubjectName string `json:"subject_name"`

	// StartDate is free text; it is not validated at the roster boundary.
	StartDate string `json:"start_date"`

	// SourceRow is the roster row number, kept for operator reference.
	// Zero when the source does not track rows.
	SourceRow int `json:"source_row,omitempty"`
}

// InternalLesson is a lesson as stored by the application.
// Nullable columns are pointers.
type InternalLesson struct {
	// ID is the lesson identifier in the store.
	ID string `json:"id"`

	// StudentName is the student's name.
	StudentName string `json:"student_name"`

	// Duration is the lesson length in minutes.
	Duration int `json:"duration"`

	// TeacherID is the assigned teacher, nil when unassigned.
	TeacherID *string `json:"teacher_id"`

	// TeacherName is the resolved teacher name, nil when unassigned.
	TeacherName *string `json:"teacher_name"`

	// DayOfWeek is 0 (Monday) through 4 (Friday), nil when unscheduled.
	DayOfWeek *int `json:"day_of_week"`

	// StartTime is "HH:MM", nil when unscheduled.
	StartTime *string `json:"start_time"`

	// SubjectID is the subject identifier.
	SubjectID string `json:"subject_id"`

	// SubjectName is the resolved subject name.
	SubjectName string `json:"subject_name"`

	// StartDate is an ISO date, nil when open.
	StartDate *string `json:"start_date"`

	// EndDate is an ISO date, nil when open.
	EndDate *string `json:"end_date"`
}

// Round identifies which matching pass produced a pair.
type Round string

const (
	// RoundExact pairs satisfied the exact predicate.
	RoundExact Round = "exact"
	// RoundPartial pairs satisfied only the partial predicate.
	RoundPartial Round = "partial"
)

// MatchedPair is an internal/external pair with no field differences.
type MatchedPair struct {
	Internal InternalLesson `json:"internal"`
	External ExternalLesson `json:"external"`
	Round    Round          `json:"round"`
}

// MismatchedPair is an internal/external pair with at least one unverified field.
type MismatchedPair struct {
	Internal InternalLesson `json:"internal"`
	External ExternalLesson `json:"external"`
	Round    Round          `json:"round"`

	// Differences holds one human readable line per differing field,
	// e.g. `Duration mismatch: "30" in internal vs "45" in external`.
	Differences []string `json:"differences"`
}

// ComparisonResult partitions every valid record of both sources into exactly one bucket.
type ComparisonResult struct {
	Matched           []MatchedPair    `json:"matched"`
	Mismatched        []MismatchedPair `json:"mismatched"`
	MissingInInternal []ExternalLesson `json:"missing_in_internal"`
	MissingInExternal []InternalLesson `json:"missing_in_external"`
	Summary           Summary          `json:"summary"`
}

// Summary provides aggregate counts for a comparison.
type Summary struct {
	// Matched counts pairs without differences.
	Matched int `json:"matched"`

	// Mismatched counts pairs with differences.
	Mismatched int `json:"mismatched"`

	// MissingInInternal counts roster rows without a stored lesson.
	MissingInInternal int `json:"missing_in_internal"`

	// MissingInExternal counts stored lessons without a roster row.
	MissingInExternal int `json:"missing_in_external"`

	// ExcludedInternal counts stored lessons dropped for lacking a student name.
	ExcludedInternal int `json:"excluded_internal"`

	// ExcludedExternal counts roster rows dropped for lacking a student name.
	ExcludedExternal int `json:"excluded_external"`
}
