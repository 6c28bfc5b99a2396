package reconcile

// internalEntry is an internal lesson with its identity fields normalized once.
type internalEntry struct {
	lesson InternalLesson
	name   string
	date   string
}

// externalEntry is a roster row with its identity fields normalized once.
type externalEntry struct {
	lesson ExternalLesson
	name   string
	date   string
}

// predicate decides whether an internal and an external record may be paired.
type predicate func(in *internalEntry, ex *externalEntry) bool

// exactMatch requires equal names, equal durations and equal subjects.
func exactMatch(in *internalEntry, ex *externalEntry) bool {
	return in.name == ex.name &&
		in.lesson.Duration == ex.lesson.Duration &&
		equalFold(in.lesson.SubjectName, ex.lesson.SubjectName)
}

// partialMatch requires equal names and either equal durations or equal subjects.
// A name alone never pairs two records.
func partialMatch(in *internalEntry, ex *externalEntry) bool {
	if in.name != ex.name {
		return false
	}
	return in.lesson.Duration == ex.lesson.Duration ||
		equalFold(in.lesson.SubjectName, ex.lesson.SubjectName)
}
