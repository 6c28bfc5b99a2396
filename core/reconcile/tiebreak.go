package reconcile

import (
	"strings"

	"lesson-reconciler/core/utils"
)

// breakTie picks one roster candidate for an internal lesson.
// Candidates must be in roster order and non-empty.
//
// A known teacher narrows the pool to candidates taught by the same teacher; a
// single survivor wins outright. Within the pool, the first candidate sharing
// the lesson's start date wins, otherwise the first candidate of the pool.
func breakTie(anchor *internalEntry, candidates []*externalEntry) *externalEntry {
	pool := candidates

	if teacher := anchorTeacher(anchor); teacher != "" {
		var sameTeacher []*externalEntry
		for _, c := range pool {
			if equalFold(c.lesson.TeacherName, teacher) {
				sameTeacher = append(sameTeacher, c)
			}
		}
		switch len(sameTeacher) {
		case 0:
		case 1:
			return sameTeacher[0]
		default:
			pool = sameTeacher
		}
	}

	if anchor.date != DateUnset {
		for _, c := range pool {
			if c.date != DateUnset && c.date == anchor.date {
				return c
			}
		}
	}

	return pool[0]
}

func anchorTeacher(anchor *internalEntry) string {
	return strings.TrimSpace(utils.StringValue(anchor.lesson.TeacherName))
}
