package scheduler

import (
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

func TestAddJob_RejectsBadScheduleAndDuplicates(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "tick"}

	assert.Error(t, s.AddJob("not a schedule", job))
	require.NoError(t, s.AddJob("@every 1h", job))
	assert.Error(t, s.AddJob("@every 1h", job))
	assert.Equal(t, []string{"tick"}, s.Jobs())
}

func TestAddJob_AcceptsFiveAndSixFieldSpecs(t *testing.T) {
	s := New(zerolog.Nop())

	assert.NoError(t, s.AddJob("*/5 * * * *", &countingJob{name: "five"}))
	assert.NoError(t, s.AddJob("*/3 * * * * *", &countingJob{name: "six"}))
}

func TestRemoveJob(t *testing.T) {
	s := New(zerolog.Nop())
	require.NoError(t, s.AddJob("@hourly", &countingJob{name: "tick"}))

	assert.True(t, s.RemoveJob("tick"))
	assert.False(t, s.RemoveJob("tick"))
	assert.Empty(t, s.Jobs())
}

func TestRunNow(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "tick", err: errors.New("boom")}

	assert.EqualError(t, s.RunNow(job), "boom")
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestScheduler_RunsJobs(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{name: "tick"}
	require.NoError(t, s.AddJob("@every 1s", job))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() >= 1 }, 5*time.Second, 50*time.Millisecond)
}
