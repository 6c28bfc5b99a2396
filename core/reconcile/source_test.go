package reconcile

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type funcInternalSource func(ctx context.Context, schoolID string) ([]InternalLesson, error)

func (f funcInternalSource) FetchLessons(ctx context.Context, schoolID string) ([]InternalLesson, error) {
	return f(ctx, schoolID)
}

type funcExternalSource func(ctx context.Context, schoolID string) ([]ExternalLesson, error)

func (f funcExternalSource) FetchRoster(ctx context.Context, schoolID string) ([]ExternalLesson, error) {
	return f(ctx, schoolID)
}

func TestFetch_RunsSourcesConcurrently(t *testing.T) {
	internalStarted := make(chan struct{})
	externalStarted := make(chan struct{})

	internal := funcInternalSource(func(ctx context.Context, schoolID string) ([]InternalLesson, error) {
		close(internalStarted)
		select {
		case <-externalStarted:
		case <-time.After(2 * time.Second):
			return nil, fmt.Errorf("roster fetch never started")
		}
		return []InternalLesson{aliceInternal()}, nil
	})
	external := funcExternalSource(func(ctx context.Context, schoolID string) ([]ExternalLesson, error) {
		close(externalStarted)
		select {
		case <-internalStarted:
		case <-time.After(2 * time.Second):
			return nil, fmt.Errorf("lesson fetch never started")
		}
		return []ExternalLesson{aliceExternal()}, nil
	})

	in, ex, err := Fetch(context.Background(), "school-1", internal, external)
	require.NoError(t, err)
	assert.Len(t, in, 1)
	assert.Len(t, ex, 1)
}

func TestFetch_PassesSchoolID(t *testing.T) {
	var gotInternal, gotExternal string
	internal := funcInternalSource(func(ctx context.Context, schoolID string) ([]InternalLesson, error) {
		gotInternal = schoolID
		return nil, nil
	})
	external := funcExternalSource(func(ctx context.Context, schoolID string) ([]ExternalLesson, error) {
		gotExternal = schoolID
		return nil, nil
	})

	_, _, err := Fetch(context.Background(), "school-9", internal, external)
	require.NoError(t, err)
	assert.Equal(t, "school-9", gotInternal)
	assert.Equal(t, "school-9", gotExternal)
}

func TestRun_FetchFailureAborts(t *testing.T) {
	ok := funcInternalSource(func(ctx context.Context, schoolID string) ([]InternalLesson, error) {
		return []InternalLesson{aliceInternal()}, nil
	})
	okRoster := funcExternalSource(func(ctx context.Context, schoolID string) ([]ExternalLesson, error) {
		return []ExternalLesson{aliceExternal()}, nil
	})
	badStore := funcInternalSource(func(ctx context.Context, schoolID string) ([]InternalLesson, error) {
		return nil, fmt.Errorf("store unavailable")
	})
	badRoster := funcExternalSource(func(ctx context.Context, schoolID string) ([]ExternalLesson, error) {
		return nil, fmt.Errorf("roster unavailable")
	})

	tests := []struct {
		name      string
		internal  InternalSource
		external  ExternalSource
		expectErr string
	}{
		{"Store failure", badStore, okRoster, "store unavailable"},
		{"Roster failure", ok, badRoster, "roster unavailable"},
	}

	engine := NewEngine(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Run(context.Background(), "school-1", tt.internal, tt.external)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectErr)
			assert.Nil(t, result)
		})
	}
}

func TestRun_Compares(t *testing.T) {
	internal := funcInternalSource(func(ctx context.Context, schoolID string) ([]InternalLesson, error) {
		return []InternalLesson{aliceInternal()}, nil
	})
	external := funcExternalSource(func(ctx context.Context, schoolID string) ([]ExternalLesson, error) {
		return []ExternalLesson{aliceExternal()}, nil
	})

	result, err := NewEngine(zap.NewNop()).Run(context.Background(), "school-1", internal, external)
	require.NoError(t, err)
	assert.Len(t, result.Matched, 1)
}
