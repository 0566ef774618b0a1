package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeJobs struct {
	cutoffs []time.Time
	err     error
}

func (f *fakeJobs) CloseExpired(_ *gorm.DB, now time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, now)
	return 2, f.err
}

type fakeTokens struct {
	calls []time.Time
}

func (f *fakeTokens) DeleteExpired(_ *gorm.DB, now time.Time) (int64, error) {
	f.calls = append(f.calls, now)
	return 1, nil
}

func TestJobWorker_RunOnceUsesStartOfDay(t *testing.T) {
	jobs := &fakeJobs{}
	tokens := &fakeTokens{}
	w := NewJobWorker(nil, jobs, tokens, time.Minute)
	fixed := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	w.now = func() time.Time { return fixed }

	w.RunOnce(context.Background())

	assert.Equal(t, []time.Time{time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)}, jobs.cutoffs)
	assert.Equal(t, []time.Time{fixed}, tokens.calls)
}

func TestJobWorker_ErrorDoesNotStopTokenPurge(t *testing.T) {
	jobs := &fakeJobs{err: errors.New("db down")}
	tokens := &fakeTokens{}
	w := NewJobWorker(nil, jobs, tokens, time.Minute)

	w.RunOnce(context.Background())

	assert.Len(t, jobs.cutoffs, 1)
	assert.Len(t, tokens.calls, 1)
}

func TestJobWorker_LoopRunsImmediatelyAndStops(t *testing.T) {
	jobs := &fakeJobs{}
	w := NewJobWorker(nil, jobs, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.loop(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Len(t, jobs.cutoffs, 1)
}

func TestNewJobWorker_DefaultInterval(t *testing.T) {
	w := NewJobWorker(nil, &fakeJobs{}, nil, 0)
	assert.Equal(t, time.Hour, w.interval)
}
