package lessons

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"lesson-reconciler/core/database"
	"lesson-reconciler/core/reconcile"
	"lesson-reconciler/core/utils"
	"lesson-reconciler/feature/lessons/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// requiredColumns lists the columns each table must carry for the store to work.
var requiredColumns = map[string][]string{
	"lessons": {
		"id", "school_id", "student_name", "duration", "teacher_id",
		"day_of_week", "start_time", "subject_id", "start_date", "end_date",
	},
	"teachers":        {"id", "name"},
	"school_teachers": {"school_id", "teacher_id", "active"},
	"subjects":        {"id", "school_id", "name"},
}

// lessonRow is a lesson joined with its teacher and subject names.
type lessonRow struct {
	ID          string
	StudentName string
	Duration    int
	TeacherID   *string
	TeacherName *string
	DayOfWeek   *int
	StartTime   *string
	SubjectID   string
	SubjectName *string
	StartDate   *string
	EndDate     *string
}

func (r lessonRow) toInternal() reconcile.InternalLesson {
	return reconcile.InternalLesson{
		ID:          r.ID,
		StudentName: r.StudentName,
		Duration:    r.Duration,
		TeacherID:   r.TeacherID,
		TeacherName: r.TeacherName,
		DayOfWeek:   r.DayOfWeek,
		StartTime:   r.StartTime,
		SubjectID:   r.SubjectID,
		SubjectName: utils.StringValue(r.SubjectName),
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
}

// Store is the GORM backed lesson store.
// It serves as the internal source, the name resolver, the schedule reader
// and the alignment writer of the reconcile engine.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a new lesson store.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the lesson tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate lesson tables: %w", err)
	}
	return nil
}

// VerifySchema returns the missing columns per table. An empty map means the schema is usable.
func (s *Store) VerifySchema(ctx context.Context) (map[string][]string, error) {
	db := s.db.WithContext(ctx)
	tables := make([]string, 0, len(requiredColumns))
	for table := range requiredColumns {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	missing := make(map[string][]string)
	for _, table := range tables {
		cols, err := database.MissingColumns(db, table, requiredColumns[table])
		if err != nil {
			return nil, fmt.Errorf("failed to inspect table %s: %w", table, err)
		}
		if len(cols) > 0 {
			missing[table] = cols
		}
	}
	return missing, nil
}

func (s *Store) lessonQuery(ctx context.Context, schoolID string) *gorm.DB {
	return s.db.WithContext(ctx).
		Table("lessons").
		Select(`lessons.id, lessons.student_name, lessons.duration, lessons.teacher_id,
			teachers.name AS teacher_name, lessons.day_of_week, lessons.start_time,
			lessons.subject_id, subjects.name AS subject_name, lessons.start_date, lessons.end_date`).
		Joins("LEFT JOIN teachers ON teachers.id = lessons.teacher_id").
		Joins("LEFT JOIN subjects ON subjects.id = lessons.subject_id").
		Where("lessons.school_id = ?", schoolID)
}

// FetchLessons returns every lesson of the school in creation order.
func (s *Store) FetchLessons(ctx context.Context, schoolID string) ([]reconcile.InternalLesson, error) {
	var rows []lessonRow
	err := s.lessonQuery(ctx, schoolID).
		Order("lessons.created_at, lessons.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}

	lessons := make([]reconcile.InternalLesson, len(rows))
	for i, r := range rows {
		lessons[i] = r.toInternal()
	}
	return lessons, nil
}

// GetLesson returns a single lesson of the school.
func (s *Store) GetLesson(ctx context.Context, schoolID, lessonID string) (*reconcile.InternalLesson, error) {
	var rows []lessonRow
	err := s.lessonQuery(ctx, schoolID).
		Where("lessons.id = ?", lessonID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrLessonNotFound, lessonID)
	}

	l := rows[0].toInternal()
	return &l, nil
}

// LessonsForTeacherOnDay returns the teacher's lessons on a weekday, ordered by start time.
func (s *Store) LessonsForTeacherOnDay(ctx context.Context, schoolID, teacherID string, day int) ([]reconcile.InternalLesson, error) {
	var rows []lessonRow
	err := s.lessonQuery(ctx, schoolID).
		Where("lessons.teacher_id = ? AND lessons.day_of_week = ?", teacherID, day).
		Order("lessons.start_time, lessons.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query teacher schedule: %w", err)
	}

	lessons := make([]reconcile.InternalLesson, len(rows))
	for i, r := range rows {
		lessons[i] = r.toInternal()
	}
	return lessons, nil
}

// ResolveTeacher finds an active teacher of the school by case-insensitive name.
// When several teachers share the name the lowest id wins.
func (s *Store) ResolveTeacher(ctx context.Context, schoolID, name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, nil
	}

	var ids []string
	err := s.db.WithContext(ctx).
		Table("teachers").
		Joins("JOIN school_teachers ON school_teachers.teacher_id = teachers.id").
		Where("school_teachers.school_id = ? AND school_teachers.active = ?", schoolID, true).
		Where("LOWER(TRIM(teachers.name)) = LOWER(?)", name).
		Order("teachers.id").
		Limit(2).
		Pluck("teachers.id", &ids).Error
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve teacher: %w", err)
	}

	switch len(ids) {
	case 0:
		return "", false, nil
	case 1:
		return ids[0], true, nil
	default:
		s.logger.Warn("Teacher name is ambiguous, using lowest id",
			zap.String("school_id", schoolID),
			zap.String("teacher", name),
			zap.String("teacher_id", ids[0]))
		return ids[0], true, nil
	}
}

// ResolveSubject finds a subject of the school by case-insensitive name.
func (s *Store) ResolveSubject(ctx context.Context, schoolID, name string) (string, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false, nil
	}

	var ids []string
	err := s.db.WithContext(ctx).
		Table("subjects").
		Where("school_id = ? AND LOWER(TRIM(name)) = LOWER(?)", schoolID, name).
		Order("id").
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve subject: %w", err)
	}
	if len(ids) == 0 {
		return "", false, nil
	}
	return ids[0], true, nil
}

// UpdateLesson writes the aligned fields of a lesson.
func (s *Store) UpdateLesson(ctx context.Context, schoolID, lessonID string, update reconcile.LessonUpdate) error {
	res := s.db.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("id = ? AND school_id = ?", lessonID, schoolID).
		Updates(map[string]any{
			"student_name": update.StudentName,
			"duration":     update.Duration,
			"teacher_id":   update.TeacherID,
			"subject_id":   update.SubjectID,
			"start_date":   update.StartDate,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update lesson: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrLessonNotFound, lessonID)
	}
	return nil
}
