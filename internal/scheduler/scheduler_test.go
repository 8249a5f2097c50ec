package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/stockpick/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	err      error
	runs     int
	deadline bool
}

func (j *stubJob) Name() string     { return j.name }
func (j *stubJob) Schedule() string { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error {
	j.runs++
	_, j.deadline = ctx.Deadline()
	return j.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := New(logger.Nop(), 0)

	require.NoError(t, s.AddJob(&stubJob{name: "b", schedule: "@daily"}))
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "0 0 6 1 * *"}))
	assert.Error(t, s.AddJob(&stubJob{name: "a", schedule: "@daily"}), "duplicate name")
	assert.Error(t, s.AddJob(&stubJob{name: "c", schedule: "not a schedule"}))

	assert.Equal(t, []string{"a", "b"}, s.JobNames())
}

func TestScheduler_RemoveJob(t *testing.T) {
	s := New(logger.Nop(), 0)
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "@daily"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.JobNames())
	assert.Error(t, s.RemoveJob("a"))
}

func TestScheduler_RunNowRecordsHistoryWithoutRetry(t *testing.T) {
	s := New(logger.Nop(), time.Minute)
	failing := &stubJob{name: "fail", schedule: "@daily", err: errors.New("boom")}
	ok := &stubJob{name: "ok", schedule: "@daily"}
	require.NoError(t, s.AddJob(failing))
	require.NoError(t, s.AddJob(ok))

	res, err := s.RunNow(context.Background(), "fail")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "boom", res.Error)
	assert.Equal(t, 1, failing.runs)
	assert.True(t, failing.deadline)

	res, err = s.RunNow(context.Background(), "ok")
	require.NoError(t, err)
	assert.True(t, res.Success)

	stats := s.GetJobStats()
	assert.Equal(t, 1, stats["fail"].TotalRuns)
	assert.Equal(t, 1, stats["fail"].FailureCount)
	assert.Equal(t, "boom", stats["fail"].LastError)
	assert.Equal(t, 1, stats["ok"].SuccessCount)
	assert.NotNil(t, stats["ok"].LastRun)

	_, err = s.RunNow(context.Background(), "missing")
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(logger.Nop(), 0)
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "@yearly"}))

	s.Start()
	stats := s.GetJobStats()
	assert.NotNil(t, stats["a"].NextRun)
	s.Stop()
}

func TestJobHistory_KeepsLatest(t *testing.T) {
	const total = maxHistory + 4
	var h JobHistory
	for i := 0; i < total; i++ {
		h.AddResult(JobResult{Success: i%2 == 0, Error: "x"})
	}
	assert.Len(t, h.Results, maxHistory)

	// only runs total-maxHistory..total-1 are kept
	wantFailures := 0
	for i := total - maxHistory; i < total; i++ {
		if i%2 != 0 {
			wantFailures++
		}
	}
	assert.Equal(t, wantFailures, h.Failures())

	last, ok := h.Last()
	require.True(t, ok)
	assert.False(t, last.Success, "run %d failed", total-1)
}
