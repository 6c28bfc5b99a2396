package reconcile

import (
	"fmt"
	"strconv"

	"lesson-reconciler/core/utils"
)

// UnassignedTeacher stands in for an internal lesson without a teacher.
const UnassignedTeacher = "Unassigned"

const notSet = "Not set"

// compareFields lists the differences between a paired internal lesson and
// roster row. Field order is fixed: student, duration, subject, teacher, start date.
func compareFields(in *internalEntry, ex *externalEntry) []string {
	diffs := []string{}

	if !equalFold(in.lesson.StudentName, ex.lesson.StudentName) {
		diffs = append(diffs, mismatch("Student name", in.lesson.StudentName, ex.lesson.StudentName))
	}

	if in.lesson.Duration != ex.lesson.Duration {
		diffs = append(diffs, mismatch("Duration", strconv.Itoa(in.lesson.Duration), strconv.Itoa(ex.lesson.Duration)))
	}

	if !equalFold(in.lesson.SubjectName, ex.lesson.SubjectName) {
		diffs = append(diffs, mismatch("Subject", in.lesson.SubjectName, ex.lesson.SubjectName))
	}

	teacher := utils.StringValue(in.lesson.TeacherName)
	if teacher == "" {
		teacher = UnassignedTeacher
	}
	if !equalFold(teacher, ex.lesson.TeacherName) {
		diffs = append(diffs, mismatch("Teacher", teacher, ex.lesson.TeacherName))
	}

	if in.date != ex.date {
		diffs = append(diffs, mismatch("Start date", displayDate(in.date), displayDate(ex.date)))
	}

	return diffs
}

func mismatch(field, internal, external string) string {
	return fmt.Sprintf("%s mismatch: %q in internal vs %q in external", field, internal, external)
}

func displayDate(d string) string {
	if d == DateUnset {
		return notSet
	}
	return d
}
