package lessons

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"unicode"

	"lesson-reconciler/core/reconcile"
	"lesson-reconciler/core/storage"
	"lesson-reconciler/core/utils"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Roster columns.
const (
	columnStudent   = "student"
	columnDuration  = "duration"
	columnTeacher   = "teacher"
	columnSubject   = "subject"
	columnStartDate = "start_date"
)

// headerAliases maps squashed header text to roster columns.
var headerAliases = map[string]string{
	"student":         columnStudent,
	"studentname":     columnStudent,
	"name":            columnStudent,
	"pupil":           columnStudent,
	"learner":         columnStudent,
	"duration":        columnDuration,
	"durationmins":    columnDuration,
	"durationminutes": columnDuration,
	"length":          columnDuration,
	"minutes":         columnDuration,
	"mins":            columnDuration,
	"teacher":         columnTeacher,
	"teachername":     columnTeacher,
	"tutor":           columnTeacher,
	"instructor":      columnTeacher,
	"subject":         columnSubject,
	"subjectname":     columnSubject,
	"instrument":      columnSubject,
	"course":          columnSubject,
	"startdate":       columnStartDate,
	"start":           columnStartDate,
	"datestarted":     columnStartDate,
	"from":            columnStartDate,
}

var requiredRosterColumns = []string{columnStudent, columnDuration, columnTeacher, columnSubject}

// RosterSource reads roster exports from object storage.
// A school's export lives at <prefix>/<school id><extension>.
type RosterSource struct {
	client    storage.Client
	bucket    string
	prefix    string
	extension string
	logger    *zap.Logger
}

// NewRosterSource creates a new roster source.
func NewRosterSource(client storage.Client, bucket, prefix, extension string, logger *zap.Logger) *RosterSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RosterSource{
		client:    client,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		extension: extension,
		logger:    logger,
	}
}

// ObjectName returns the object key of a school's roster export.
func (r *RosterSource) ObjectName(schoolID string) string {
	return path.Join(r.prefix, schoolID+r.extension)
}

// FetchRoster downloads and parses the school's roster export.
func (r *RosterSource) FetchRoster(ctx context.Context, schoolID string) ([]reconcile.ExternalLesson, error) {
	key := r.ObjectName(schoolID)

	obj, err := r.client.GetObject(ctx, r.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrRosterNotFound, key)
		}
		return nil, fmt.Errorf("failed to get roster object: %w", err)
	}
	defer obj.Close()

	lessons, err := r.parse(obj)
	if err != nil {
		// Missing objects only surface on the first read.
		if storage.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrRosterNotFound, key)
		}
		return nil, fmt.Errorf("failed to read roster %s: %w", key, err)
	}

	r.logger.Debug("Roster loaded",
		zap.String("school_id", schoolID),
		zap.String("object", key),
		zap.Int("rows", len(lessons)))
	return lessons, nil
}

// UploadRoster validates a roster export and stores it for the school.
func (r *RosterSource) UploadRoster(ctx context.Context, schoolID string, body io.Reader) (int, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return 0, fmt.Errorf("failed to read roster upload: %w", err)
	}

	lessons, err := r.parse(bytes.NewReader(data))
	if err != nil {
		return 0, err
	}

	key := r.ObjectName(schoolID)
	_, err = r.client.PutObject(ctx, r.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return 0, fmt.Errorf("failed to store roster %s: %w", key, err)
	}

	r.logger.Info("Roster uploaded",
		zap.String("school_id", schoolID),
		zap.String("object", key),
		zap.Int("rows", len(lessons)))
	return len(lessons), nil
}

// ListRosters returns the ids of the schools that have a roster export, sorted.
func (r *RosterSource) ListRosters(ctx context.Context) ([]string, error) {
	prefix := r.prefix
	if prefix != "" {
		prefix += "/"
	}

	var schools []string
	for obj := range r.client.ListObjects(ctx, r.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list rosters: %w", obj.Err)
		}
		name := strings.TrimPrefix(obj.Key, prefix)
		if !strings.HasSuffix(name, r.extension) || strings.Contains(name, "/") {
			continue
		}
		if school := strings.TrimSuffix(name, r.extension); school != "" {
			schools = append(schools, school)
		}
	}
	sort.Strings(schools)
	return schools, nil
}

// parse reads a roster export. Each row keeps its line number in the file as SourceRow.
func (r *RosterSource) parse(in io.Reader) ([]reconcile.ExternalLesson, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidRoster)
	}
	if err != nil {
		return nil, err
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	lessons := []reconcile.ExternalLesson{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if blankRecord(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		cell := func(column string) string {
			idx, ok := columns[column]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		rawDuration := cell(columnDuration)
		duration, ok := utils.ParseMinutes(rawDuration)
		if !ok {
			r.logger.Warn("Roster duration is not a number",
				zap.Int("row", line),
				zap.String("duration", rawDuration))
		}

		lessons = append(lessons, reconcile.ExternalLesson{
			StudentName: cell(columnStudent),
			Duration:    duration,
			TeacherName: cell(columnTeacher),
			SubjectName: cell(columnSubject),
			StartDate:   cell(columnStartDate),
			SourceRow:   line,
		})
	}
	return lessons, nil
}

// mapHeader returns the index of each recognised column. The first occurrence of a column wins.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		column, ok := headerAliases[squash(h)]
		if !ok {
			continue
		}
		if _, seen := columns[column]; !seen {
			columns[column] = i
		}
	}

	var missing []string
	for _, column := range requiredRosterColumns {
		if _, ok := columns[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s", ErrInvalidRoster, strings.Join(missing, ", "))
	}
	return columns, nil
}

// squash lowercases s and drops everything but letters and digits.
func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
