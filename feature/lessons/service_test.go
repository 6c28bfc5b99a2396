package lessons

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"lesson-reconciler/core/reconcile"
	"lesson-reconciler/core/storage/mocks"
	"lesson-reconciler/feature/lessons/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const schoolRoster = "Student,Duration,Teacher,Subject,Start Date\n" +
	"Alice Smith,30,Ms. Lee,Piano,02/09/2024\n" +
	"Bob Jones,45,Mr. Park,Violin,\n" +
	"Dana Cruz,30,Ms. Lee,Piano,\n"

func bobRow() reconcile.ExternalLesson {
	return reconcile.ExternalLesson{StudentName: "Bob Jones", Duration: 45, TeacherName: "Mr. Park", SubjectName: "Violin", SourceRow: 3}
}

// expectRoster serves the school roster for the next n fetches.
func expectRoster(client *mocks.Client, n int) {
	for i := 0; i < n; i++ {
		client.On("GetObject", mock.Anything, "rosters", "rosters/school-1.csv", mock.Anything).
			Return(io.NopCloser(strings.NewReader(schoolRoster)), nil).Once()
	}
}

func newTestService(t *testing.T) (*Service, *mocks.Client, *gorm.DB) {
	db := setupTestDB(t)
	seedSchool(t, db)
	client := new(mocks.Client)
	logger := zap.NewNop()
	svc := NewService(NewStore(db, logger), NewRosterSource(client, "rosters", "rosters", ".csv", logger), logger)
	return svc, client, db
}

func TestService_Compare(t *testing.T) {
	svc, client, _ := newTestService(t)
	expectRoster(client, 1)

	result, err := svc.Compare(context.Background(), "school-1")
	require.NoError(t, err)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, "l-alice", result.Matched[0].Internal.ID)

	require.Len(t, result.Mismatched, 1)
	assert.Equal(t, "l-bob", result.Mismatched[0].Internal.ID)
	assert.Equal(t, reconcile.RoundExact, result.Mismatched[0].Round)
	assert.Equal(t, []string{`Teacher mismatch: "Unassigned" in internal vs "Mr. Park" in external`}, result.Mismatched[0].Differences)

	require.Len(t, result.MissingInInternal, 1)
	assert.Equal(t, "Dana Cruz", result.MissingInInternal[0].StudentName)
	assert.Equal(t, 4, result.MissingInInternal[0].SourceRow)
	assert.Empty(t, result.MissingInExternal)
}

func TestService_Compare_CancelledCallerDoesNotFailSharedRun(t *testing.T) {
	svc, client, _ := newTestService(t)

	started := make(chan struct{})
	release := make(chan struct{})
	var fetchErr error
	client.On("GetObject", mock.Anything, "rosters", "rosters/school-1.csv", mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
			fetchErr = args.Get(0).(context.Context).Err()
		}).
		Return(io.NopCloser(strings.NewReader(schoolRoster)), nil).
		Once()

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := svc.Compare(ctxA, "school-1")
		errA <- err
	}()
	<-started

	type outcome struct {
		result *reconcile.ComparisonResult
		err    error
	}
	doneB := make(chan outcome, 1)
	go func() {
		result, err := svc.Compare(context.Background(), "school-1")
		doneB <- outcome{result, err}
	}()
	// Give the second caller time to join the run in flight.
	time.Sleep(50 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller kept waiting for the shared run")
	}

	close(release)
	select {
	case out := <-doneB:
		require.NoError(t, out.err)
		assert.Len(t, out.result.Matched, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("shared run never completed")
	}
	assert.NoError(t, fetchErr)
	client.AssertNumberOfCalls(t, "GetObject", 1)
}

func TestService_Compare_RosterMissing(t *testing.T) {
	svc, client, _ := newTestService(t)
	client.On("GetObject", mock.Anything, "rosters", "rosters/school-1.csv", mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey"})

	_, err := svc.Compare(context.Background(), "school-1")
	assert.ErrorIs(t, err, ErrRosterNotFound)
	assert.True(t, IsNotFound(err))
}

func TestService_AlignThenCompareMatches(t *testing.T) {
	svc, client, _ := newTestService(t)
	expectRoster(client, 1)
	ctx := context.Background()

	res, err := svc.Align(ctx, "school-1", "l-bob", bobRow())
	require.NoError(t, err)
	require.True(t, res.Success, res.Message)
	require.NotNil(t, res.Lesson.TeacherName)
	assert.Equal(t, "Mr. Park", *res.Lesson.TeacherName)

	result, err := svc.Compare(ctx, "school-1")
	require.NoError(t, err)
	assert.Len(t, result.Matched, 2)
	assert.Empty(t, result.Mismatched)
}

func TestService_Align_RefusesOverlap(t *testing.T) {
	svc, _, db := newTestService(t)
	require.NoError(t, db.Create(&models.Lesson{
		ID: "l-eve", SchoolID: "school-1", StudentName: "Eve Park", Duration: 30,
		TeacherID: strPtr("t-lee"), DayOfWeek: intPtr(1), StartTime: strPtr("15:30"), SubjectID: "s-piano",
	}).Error)
	ctx := context.Background()

	row := reconcile.ExternalLesson{StudentName: "Alice Smith", Duration: 45, TeacherName: "Ms. Lee", SubjectName: "Piano", StartDate: "02/09/2024"}

	report, err := svc.CheckConflicts(ctx, "school-1", "l-alice", row)
	require.NoError(t, err)
	assert.False(t, report.Success)
	require.NotNil(t, report.ConflictsWith)
	assert.Equal(t, "l-eve", report.ConflictsWith.ID)

	res, err := svc.Align(ctx, "school-1", "l-alice", row)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Eve Park")

	alice, err := svc.store.GetLesson(ctx, "school-1", "l-alice")
	require.NoError(t, err)
	assert.Equal(t, 30, alice.Duration)
}

func TestService_LessonNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CheckConflicts(ctx, "school-1", "l-missing", bobRow())
	assert.ErrorIs(t, err, ErrLessonNotFound)

	_, err = svc.Align(ctx, "school-1", "l-carl", bobRow())
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestService_AlignMismatched(t *testing.T) {
	svc, client, _ := newTestService(t)
	expectRoster(client, 2)
	ctx := context.Background()

	result, err := svc.Compare(ctx, "school-1")
	require.NoError(t, err)

	results := svc.AlignMismatched(ctx, "school-1", result)
	require.Len(t, results, 1)
	assert.True(t, results[0].Success, results[0].Message)

	again, err := svc.Compare(ctx, "school-1")
	require.NoError(t, err)
	assert.Empty(t, again.Mismatched)
	assert.Empty(t, svc.AlignMismatched(ctx, "school-1", again))
}
