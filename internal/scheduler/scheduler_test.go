package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRegistersConfiguredJobs(t *testing.T) {
	refresh := RefresherFunc(func(context.Context) error { return nil })
	extract := ExtractorFunc(func(context.Context) error { return nil })

	s := NewScheduler(Config{RefreshSchedule: "*/5 * * * *", ExtractSchedule: "0 3 * * *"}, refresh, extract, nil)
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Equal(t, 2, s.Jobs())
}

func TestStartSkipsEmptySchedules(t *testing.T) {
	s := NewScheduler(Config{RefreshSchedule: "*/5 * * * *"}, RefresherFunc(func(context.Context) error { return nil }), nil, nil)
	require.NoError(t, s.Start())
	defer s.Stop()
	assert.Equal(t, 1, s.Jobs())
}

func TestStartRejectsBadExpression(t *testing.T) {
	s := NewScheduler(Config{RefreshSchedule: "every five minutes"}, RefresherFunc(func(context.Context) error { return nil }), nil, nil)
	assert.Error(t, s.Start())
}

func TestRunAppliesTimeout(t *testing.T) {
	s := NewScheduler(Config{Location: time.UTC}, nil, nil, nil)

	var deadline time.Time
	var ok bool
	s.run("probe", func(ctx context.Context) error {
		deadline, ok = ctx.Deadline()
		return errors.New("ignored")
	})
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(jobTimeout), deadline, 5*time.Second)
}
