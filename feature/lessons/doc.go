// Package lessons reconciles a school's stored lessons against its roster export.
//
// Two sources feed the reconcile engine:
//  1. Database: the lessons table, joined with teachers and subjects (Store).
//  2. Storage (S3/MinIO): a CSV roster export per school (RosterSource).
//
// Header cells of the roster are matched loosely, so "Student Name", "Pupil" and
// "student_name" all map to the student column. Durations such as "45 min" are read
// by their leading number.
//
// # Components
//
//   - Store: GORM queries for lessons, name resolution and alignment writes.
//   - RosterSource: reads, validates and stores roster exports.
//   - Service: runs comparisons (shared per school while in flight) and alignments.
//   - Handler: exposes the HTTP endpoints below.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET  /rosters : Schools with a roster export.
//   - GET  /schools/:school/reconcile : Full comparison result.
//   - PUT  /schools/:school/roster : Upload a CSV roster export.
//   - POST /schools/:school/lessons/:lesson/conflicts : Check a roster row against the lesson.
//   - POST /schools/:school/lessons/:lesson/align : Check, then overwrite the lesson.
package lessons
