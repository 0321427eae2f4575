package chrono

import (
	"context"
	"fmt"
	"time"

	"loginbot/internal/components/telemetry"

	"github.com/robfig/cron/v3"
)

const report_cron = "cron"

// CronAPI is the interface that anything depending on things to happen on a cron job should use.
type CronAPI interface {
	// Cron registers a callback, it receives the scheduled time of the activation.
	Cron(spec string, callback func(ctx context.Context, scheduled time.Time)) error
}

// StandardCron is the standard implementation of CronAPI using `github.com/robfig/cron/v3`.
//
// Activations never overlap: if a callback is still running when the next one is
// due, the next one is skipped.
type StandardCron struct {
	ctx      context.Context
	cron     *cron.Cron
	location *time.Location
}

// NewStandardCron is the constructor of StandardCron, schedules are evaluated in the given location.
func NewStandardCron(ctx context.Context, location *time.Location, tel telemetry.API) StandardCron {
	logger := cronLogger{tel: tel}
	cronner := cron.New(
		cron.WithLogger(logger),
		cron.WithLocation(location),
		cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		),
	)
	return StandardCron{
		ctx:      ctx,
		cron:     cronner,
		location: location,
	}
}

func (s StandardCron) Cron(spec string, callback func(ctx context.Context, scheduled time.Time)) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	s.cron.Schedule(schedule, cron.FuncJob(func() {
		callback(s.ctx, scheduledAt(time.Now(), s.location))
	}))
	return nil
}

// scheduledAt maps the instant a job actually fired (at or just after its
// minute) back to the minute it was scheduled for.
func scheduledAt(fired time.Time, location *time.Location) time.Time {
	return fired.In(location).Truncate(time.Minute)
}

// Start runs the scheduler until the context given to NewStandardCron is cancelled,
// then waits for running jobs to finish.
func (s StandardCron) Start() {
	s.cron.Start()
	go func() {
		<-s.ctx.Done()
		<-s.cron.Stop().Done()
	}()
}

type cronLogger struct {
	tel telemetry.API
}

func (l cronLogger) formatParams(keysAndValues []any) []any {
	params := []any{}
	for i := 0; i < len(keysAndValues)/2; i++ {
		idx := i * 2
		key := keysAndValues[idx]
		value := keysAndValues[idx+1]
		params = append(params, fmt.Sprintf("%v: %v", key, value))
	}
	return params
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(
		fmt.Sprintf("cron: %s", msg),
		l.formatParams(keysAndValues)...,
	)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	params := append([]any{fmt.Errorf("%s: %w", msg, err)}, l.formatParams(keysAndValues)...)
	l.tel.ReportBroken(report_cron, params...)
}
