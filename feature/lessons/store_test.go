package lessons

import (
	"context"
	"errors"
	"testing"
	"time"

	"lesson-reconciler/core/database"
	"lesson-reconciler/core/reconcile"
	"lesson-reconciler/feature/lessons/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

// seedSchool creates two teachers and two subjects in school-1, one inactive
// teacher, and two lessons: Alice with Ms. Lee and an unassigned Bob.
func seedSchool(t *testing.T, db *gorm.DB) {
	base := time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create([]models.Teacher{
		{ID: "t-lee", Name: "Ms. Lee"},
		{ID: "t-park", Name: "Mr. Park"},
		{ID: "t-gone", Name: "Mr. Gone"},
		{ID: "t-other", Name: "Ms. Other"},
	}).Error)
	require.NoError(t, db.Create([]models.SchoolTeacher{
		{SchoolID: "school-1", TeacherID: "t-lee", Active: true},
		{SchoolID: "school-1", TeacherID: "t-park", Active: true},
		{SchoolID: "school-1", TeacherID: "t-gone", Active: false},
		{SchoolID: "school-2", TeacherID: "t-other", Active: true},
	}).Error)
	require.NoError(t, db.Create([]models.Subject{
		{ID: "s-piano", SchoolID: "school-1", Name: "Piano"},
		{ID: "s-violin", SchoolID: "school-1", Name: "Violin"},
		{ID: "s-drums", SchoolID: "school-2", Name: "Drums"},
	}).Error)
	require.NoError(t, db.Create([]models.Lesson{
		{
			ID: "l-alice", SchoolID: "school-1", StudentName: "Alice Smith", Duration: 30,
			TeacherID: strPtr("t-lee"), DayOfWeek: intPtr(1), StartTime: strPtr("15:00"),
			SubjectID: "s-piano", StartDate: strPtr("2024-09-02"), CreatedAt: base,
		},
		{
			ID: "l-bob", SchoolID: "school-1", StudentName: "Bob Jones", Duration: 45,
			SubjectID: "s-violin", CreatedAt: base.Add(time.Minute),
		},
		{
			ID: "l-carl", SchoolID: "school-2", StudentName: "Carl", Duration: 30,
			SubjectID: "s-drums", CreatedAt: base,
		},
	}).Error)
}

func TestStore_FetchLessons(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)
	store := NewStore(db, zap.NewNop())

	lessons, err := store.FetchLessons(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, lessons, 2)

	alice := lessons[0]
	assert.Equal(t, "l-alice", alice.ID)
	assert.Equal(t, "Alice Smith", alice.StudentName)
	assert.Equal(t, 30, alice.Duration)
	require.NotNil(t, alice.TeacherName)
	assert.Equal(t, "Ms. Lee", *alice.TeacherName)
	assert.Equal(t, "Piano", alice.SubjectName)
	assert.Equal(t, 1, *alice.DayOfWeek)
	assert.Equal(t, "15:00", *alice.StartTime)
	assert.Equal(t, "2024-09-02", *alice.StartDate)
	assert.Nil(t, alice.EndDate)

	bob := lessons[1]
	assert.Equal(t, "l-bob", bob.ID)
	assert.Nil(t, bob.TeacherID)
	assert.Nil(t, bob.TeacherName)
	assert.Equal(t, "Violin", bob.SubjectName)
	assert.Nil(t, bob.StartDate)
}

func TestStore_FetchLessons_MissingSubjectIsBlank(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Lesson{
		ID: "l-orphan", SchoolID: "school-1", StudentName: "Gil", Duration: 30, SubjectID: "s-gone",
	}).Error)

	lessons, err := NewStore(db, nil).FetchLessons(context.Background(), "school-1")
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "s-gone", lessons[0].SubjectID)
	assert.Equal(t, "", lessons[0].SubjectName)
	assert.Nil(t, lessons[0].TeacherName)
}

func TestStore_FetchLessons_UnknownSchool(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)

	lessons, err := NewStore(db, nil).FetchLessons(context.Background(), "school-9")
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestStore_FetchLessons_QueryError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("connection refused"))

	_, err := NewStore(db, nil).FetchLessons(context.Background(), "school-1")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query lessons")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStore_GetLesson(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)
	store := NewStore(db, nil)

	lesson, err := store.GetLesson(context.Background(), "school-1", "l-alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", lesson.StudentName)

	_, err = store.GetLesson(context.Background(), "school-2", "l-alice")
	assert.ErrorIs(t, err, ErrLessonNotFound)

	_, err = store.GetLesson(context.Background(), "school-1", "l-missing")
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestStore_LessonsForTeacherOnDay(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)
	require.NoError(t, db.Create(&models.Lesson{
		ID: "l-eve", SchoolID: "school-1", StudentName: "Eve", Duration: 30,
		TeacherID: strPtr("t-lee"), DayOfWeek: intPtr(1), StartTime: strPtr("14:00"), SubjectID: "s-piano",
	}).Error)
	require.NoError(t, db.Create(&models.Lesson{
		ID: "l-fay", SchoolID: "school-1", StudentName: "Fay", Duration: 30,
		TeacherID: strPtr("t-lee"), DayOfWeek: intPtr(3), StartTime: strPtr("14:00"), SubjectID: "s-piano",
	}).Error)
	store := NewStore(db, nil)

	lessons, err := store.LessonsForTeacherOnDay(context.Background(), "school-1", "t-lee", 1)
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "l-eve", lessons[0].ID)
	assert.Equal(t, "l-alice", lessons[1].ID)

	lessons, err = store.LessonsForTeacherOnDay(context.Background(), "school-1", "t-park", 1)
	require.NoError(t, err)
	assert.Empty(t, lessons)
}

func TestStore_ResolveTeacher(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)
	store := NewStore(db, nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		school    string
		teacher   string
		wantID    string
		wantFound bool
	}{
		{"Exact", "school-1", "Ms. Lee", "t-lee", true},
		{"Case insensitive", "school-1", "MS. LEE", "t-lee", true},
		{"Surrounding whitespace", "school-1", "  Mr. Park ", "t-park", true},
		{"Inactive membership", "school-1", "Mr. Gone", "", false},
		{"Other school", "school-1", "Ms. Other", "", false},
		{"Unknown", "school-1", "Dr. Who", "", false},
		{"Empty", "school-1", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, found, err := store.ResolveTeacher(ctx, tt.school, tt.teacher)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestStore_ResolveTeacher_AmbiguousNameUsesLowestID(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)
	require.NoError(t, db.Create(&models.Teacher{ID: "t-zz", Name: "ms. lee"}).Error)
	require.NoError(t, db.Create(&models.SchoolTeacher{SchoolID: "school-1", TeacherID: "t-zz", Active: true}).Error)

	core, logs := observer.New(zap.WarnLevel)
	store := NewStore(db, zap.New(core))

	id, found, err := store.ResolveTeacher(context.Background(), "school-1", "Ms. Lee")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "t-lee", id)
	assert.Equal(t, 1, logs.FilterMessage("Teacher name is ambiguous, using lowest id").Len())
}

func TestStore_ResolveSubject(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)
	store := NewStore(db, nil)
	ctx := context.Background()

	id, found, err := store.ResolveSubject(ctx, "school-1", "piano")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "s-piano", id)

	_, found, err = store.ResolveSubject(ctx, "school-1", "Drums")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_UpdateLesson(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)
	store := NewStore(db, nil)
	ctx := context.Background()

	date := "2024-10-01"
	err := store.UpdateLesson(ctx, "school-1", "l-bob", reconcile.LessonUpdate{
		StudentName: "Bob J. Jones",
		Duration:    60,
		TeacherID:   "t-park",
		SubjectID:   "s-piano",
		StartDate:   &date,
	})
	require.NoError(t, err)

	bob, err := store.GetLesson(ctx, "school-1", "l-bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob J. Jones", bob.StudentName)
	assert.Equal(t, 60, bob.Duration)
	assert.Equal(t, "Mr. Park", *bob.TeacherName)
	assert.Equal(t, "Piano", bob.SubjectName)
	assert.Equal(t, "2024-10-01", *bob.StartDate)
	assert.Nil(t, bob.DayOfWeek)
}

func TestStore_UpdateLesson_ClearsStartDateAndKeepsSchedule(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)
	store := NewStore(db, nil)
	ctx := context.Background()

	err := store.UpdateLesson(ctx, "school-1", "l-alice", reconcile.LessonUpdate{
		StudentName: "Alice Smith",
		Duration:    30,
		TeacherID:   "t-lee",
		SubjectID:   "s-piano",
	})
	require.NoError(t, err)

	alice, err := store.GetLesson(ctx, "school-1", "l-alice")
	require.NoError(t, err)
	assert.Nil(t, alice.StartDate)
	assert.Equal(t, 1, *alice.DayOfWeek)
	assert.Equal(t, "15:00", *alice.StartTime)
}

func TestStore_UpdateLesson_NotFound(t *testing.T) {
	db := setupTestDB(t)
	seedSchool(t, db)

	err := NewStore(db, nil).UpdateLesson(context.Background(), "school-2", "l-alice", reconcile.LessonUpdate{
		StudentName: "Alice Smith",
		Duration:    30,
		TeacherID:   "t-lee",
		SubjectID:   "s-piano",
	})
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestStore_UpdateLesson_ExecError(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `lessons`").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	err := NewStore(db, nil).UpdateLesson(context.Background(), "school-1", "l-1", reconcile.LessonUpdate{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_VerifySchema(t *testing.T) {
	db := setupTestDB(t)

	missing, err := NewStore(db, nil).VerifySchema(context.Background())
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestStore_VerifySchema_MissingTables(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Teacher{}))

	missing, err := NewStore(db, nil).VerifySchema(context.Background())
	require.NoError(t, err)
	assert.NotContains(t, missing, "teachers")
	assert.Equal(t, []string{"school_id", "teacher_id", "active"}, missing["school_teachers"])
	assert.Contains(t, missing, "lessons")
	assert.Contains(t, missing, "subjects")
}
