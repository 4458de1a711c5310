package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name string
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return j.name }
func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

func TestScheduler_RunNowExecutesImmediately(t *testing.T) {
	sched := New(zerolog.Nop())
	job := &countingJob{name: "immediate"}

	err := sched.RunNow(job)

	require.NoError(t, err)
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestScheduler_RunNowPropagatesJobError(t *testing.T) {
	sched := New(zerolog.Nop())
	job := &countingJob{name: "failing", err: errors.New("boom")}

	err := sched.RunNow(job)

	assert.Error(t, err)
}

func TestScheduler_AddJobRejectsInvalidSchedule(t *testing.T) {
	sched := New(zerolog.Nop())
	job := &countingJob{name: "bad-schedule"}

	err := sched.AddJob("not a cron expression", job)

	assert.Error(t, err)
}

func TestScheduler_StartRunsRegisteredJobOnSchedule(t *testing.T) {
	sched := New(zerolog.Nop())
	job := &countingJob{name: "every-second"}

	require.NoError(t, sched.AddJob("@every 1s", job))
	sched.Start()
	defer sched.Stop()

	require.Eventually(t, func() bool {
		return job.runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

type fakeSweeper struct {
	removed int64
	err     error
}

func (f *fakeSweeper) SweepExpired(ctx context.Context) (int64, error) {
	return f.removed, f.err
}

func TestCacheSweepJob_ReportsRemovedCount(t *testing.T) {
	sweeper := &fakeSweeper{removed: 7}
	job := NewCacheSweepJob(zerolog.Nop(), sweeper, time.Second)

	err := job.Run()

	require.NoError(t, err)
	assert.Equal(t, "cache_sweep", job.Name())
}

func TestCacheSweepJob_PropagatesSweepError(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("disk full")}
	job := NewCacheSweepJob(zerolog.Nop(), sweeper, time.Second)

	err := job.Run()

	assert.Error(t, err)
}
