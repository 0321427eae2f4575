package chrono

import (
	"context"
	"testing"
	"time"

	"loginbot/internal/components/telemetry"

	"github.com/stretchr/testify/require"
)

func TestScheduledAt(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	fired := time.Date(2024, 5, 1, 16, 0, 0, 230_000_000, time.UTC)
	scheduled := scheduledAt(fired, shanghai)
	require.Equal(t, shanghai, scheduled.Location())
	require.True(t, scheduled.Equal(time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC)))
	// late activations still land on the midnight they were scheduled for
	require.True(t, IsMidnight(scheduled, shanghai))

	late := scheduledAt(time.Date(2024, 5, 1, 16, 0, 59, 0, time.UTC), shanghai)
	require.True(t, IsMidnight(late, shanghai))
	require.False(t, IsMidnight(scheduledAt(time.Date(2024, 5, 1, 16, 1, 0, 0, time.UTC), shanghai), shanghai))
}

func TestStandardCron(t *testing.T) {
	shanghai, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tel := &telemetry.Recorder{}
	cronner := NewStandardCron(ctx, shanghai, tel)
	require.Error(t, cronner.Cron("not a schedule", func(context.Context, time.Time) {}))

	fired := make(chan time.Time, 4)
	err = cronner.Cron("@every 1s", func(_ context.Context, scheduled time.Time) {
		fired <- scheduled
	})
	require.NoError(t, err)
	cronner.Start()

	select {
	case scheduled := <-fired:
		require.Equal(t, shanghai, scheduled.Location())
		require.Zero(t, scheduled.Second())
		require.Zero(t, scheduled.Nanosecond())
	case <-time.After(5 * time.Second):
		t.Fatal("cron job never fired")
	}
}

func TestStandardCronRecovers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tel := &telemetry.Recorder{}
	cronner := NewStandardCron(ctx, time.UTC, tel)
	err := cronner.Cron("@every 1s", func(context.Context, time.Time) {
		panic("boom")
	})
	require.NoError(t, err)
	cronner.Start()

	require.Eventually(t, func() bool {
		return tel.Has("broken", report_cron)
	}, 5*time.Second, 50*time.Millisecond)
}
