package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_WeeklyDigestSchedule(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	s := New(loc, time.Minute, zerolog.Nop())
	id, err := s.Add("weekly-digest", "0 12 * * Sun", func(context.Context) error { return nil })
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	next := s.Next(id).In(loc)
	assert.Equal(t, time.Sunday, next.Weekday())
	assert.Equal(t, 12, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New(time.UTC, time.Minute, zerolog.Nop())

	_, err := s.Add("broken", "not a cron spec", func(context.Context) error { return nil })

	assert.Error(t, err)
}

func TestScheduler_RunPassesDeadline(t *testing.T) {
	s := New(time.UTC, time.Second, zerolog.Nop())

	var hadDeadline bool
	s.run("digest", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return assert.AnError
	})

	assert.True(t, hadDeadline)
}
