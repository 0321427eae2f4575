// Package dispatch decides, on every trigger, which slice of the account
// list to log into and keeps the cursor of the day's pass up to date.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"loginbot/internal/components/assert"
	"loginbot/internal/components/chrono"
	"loginbot/internal/components/telemetry"
	"loginbot/internal/config"
	"loginbot/internal/cursor"
	"loginbot/internal/notify"
	"loginbot/internal/panel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_dispatcher_config = "dispatcher.config"
	report_dispatcher_cursor = "dispatcher.cursor"
	report_dispatcher_run    = "dispatcher.run"
	report_dispatcher_failed = "dispatcher.failed-logins"
)

var tracer = telemetry.Tracer("loginbot.dispatch")

type State int

const (
	// StateDayReset means the cursor was reset for a new day, nothing was processed.
	StateDayReset State = iota
	// StateAlreadyComplete means today's pass had already finished.
	StateAlreadyComplete
	// StateConfigError means the accounts or the notification target could not be loaded.
	StateConfigError
	// StateAdvanced means a slice was processed and accounts remain.
	StateAdvanced
	// StateCompleted means the last slice was processed.
	StateCompleted
	// StateInterrupted means the context was cancelled mid slice, the cursor was left alone.
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateDayReset:
		return "day_reset"
	case StateAlreadyComplete:
		return "already_complete"
	case StateConfigError:
		return "config_error"
	case StateAdvanced:
		return "advanced"
	case StateCompleted:
		return "completed"
	case StateInterrupted:
		return "interrupted"
	default:
		return "invalid"
	}
}

// Report describes what a single Run did.
type Report struct {
	State      State
	BatchIndex int
	Start      int
	End        int
	Total      int
	Results    []panel.Result
	Err        error
}

// Engine logs into accounts one after another.
//
// note: fault injection point
type Engine interface {
	LoginAll(ctx context.Context, accounts []panel.Account, onResult func(ctx context.Context, res panel.Result)) []panel.Result
}

// NotifierFactory builds the notifier for the target of an invocation,
// it must return a usable notifier even for an invalid target.
type NotifierFactory func(ctx context.Context, target notify.Target) notify.Notifier

type Options struct {
	BatchSize int
	Engine    Engine
	Tracker   cursor.Tracker
	Source    config.Source
	Notifiers NotifierFactory
	Formatter notify.Formatter
	Time      chrono.TimeAPI
}

type Dispatcher struct {
	batchSize int
	engine    Engine
	tracker   cursor.Tracker
	source    config.Source
	notifiers NotifierFactory
	formatter notify.Formatter
	time      chrono.TimeAPI

	tel telemetry.API
}

func NewDispatcher(tel telemetry.API, opts Options) *Dispatcher {
	assert.NotNil(tel)
	assert.NotNil(opts.Engine)
	assert.NotNil(opts.Source)
	assert.NotNil(opts.Time)
	assert.True("tracker has a store", opts.Tracker.Valid())
	assert.Positive("batch size", opts.BatchSize)

	notifiers := opts.Notifiers
	if notifiers == nil {
		notifiers = func(context.Context, notify.Target) notify.Notifier {
			return notify.Nop{}
		}
	}

	return &Dispatcher{
		batchSize: opts.BatchSize,
		engine:    opts.Engine,
		tracker:   opts.Tracker,
		source:    opts.Source,
		notifiers: notifiers,
		formatter: opts.Formatter,
		time:      opts.Time,
		tel:       telemetry.NewScopedAPI("dispatch", tel),
	}
}

// Plan is the slice a given cursor points at.
type Plan struct {
	BatchIndex int
	Start      int
	End        int
	Total      int
	// Rewound is set when the cursor pointed past the end of the list.
	Rewound bool
}

// SliceCount is the number of slices a pass over total accounts takes.
func SliceCount(batchSize, total int) int {
	return (total + batchSize - 1) / batchSize
}

// PlanSlice computes the slice [Start, End) of a list of total accounts
// for the given batch index. An index past the end of the list (the list
// shrank since the cursor was written, or the stored index is garbage)
// starts over from the first slice.
func PlanSlice(batchIndex, batchSize, total int) Plan {
	plan := Plan{BatchIndex: batchIndex, Total: total}
	if batchIndex < 0 {
		plan.BatchIndex = 0
	}
	// compared before multiplying so a huge index cannot overflow
	if plan.BatchIndex > 0 && plan.BatchIndex >= SliceCount(batchSize, total) {
		plan.BatchIndex = 0
		plan.Rewound = true
	}
	plan.Start = plan.BatchIndex * batchSize
	plan.End = min(plan.Start+batchSize, total)
	return plan
}

func (p Plan) Last() bool {
	return p.End >= p.Total
}

func (d *Dispatcher) Location() *time.Location {
	return d.time.Location()
}

// RunNow is Run with the current time.
func (d *Dispatcher) RunNow(ctx context.Context) Report {
	return d.Run(ctx, d.time.Now())
}

// Reset forces the transition normally taken at midnight.
func (d *Dispatcher) Reset(ctx context.Context) {
	d.tracker.Reset(ctx)

	payload, _ := d.source.Load()
	notifier := d.notifiers(ctx, payload.Target)
	notifier.Notify(ctx, d.formatter.DayReset())
}

// Status returns the cursor and the slice the next Run would process at the given time.
func (d *Dispatcher) Status(ctx context.Context, now time.Time) (cursor.Cursor, Plan, bool, error) {
	cur := d.tracker.Load(ctx)
	payload, err := d.source.Load()
	if err != nil {
		return cur, Plan{}, false, err
	}
	today := chrono.DateString(now, d.Location())
	plan := PlanSlice(cur.BatchIndex, d.batchSize, len(payload.Accounts))
	return cur, plan, cur.CompletedOn(today), nil
}

// Run performs one invocation for a trigger at the given time.
func (d *Dispatcher) Run(ctx context.Context, now time.Time) Report {
	ctx, span := tracer.Start(ctx, "dispatcher:Run", trace.WithAttributes(
		attribute.String("trigger", now.Format(time.RFC3339)),
	))
	defer span.End()

	report := d.run(ctx, now)
	span.SetAttributes(
		attribute.String("state", report.State.String()),
		attribute.Int("start", report.Start),
		attribute.Int("end", report.End),
		attribute.Int("total", report.Total),
	)
	if report.Err != nil {
		span.RecordError(report.Err)
		span.SetStatus(codes.Error, report.State.String())
	}
	d.tel.ReportDebug(
		"finished run",
		report.State.String(),
		fmt.Sprintf("[%d, %d) of %d", report.Start, report.End, report.Total),
	)
	return report
}

func (d *Dispatcher) run(ctx context.Context, now time.Time) Report {
	loc := d.Location()

	if chrono.IsMidnight(now, loc) {
		d.Reset(ctx)
		return Report{State: StateDayReset}
	}

	payload, err := d.source.Load()
	notifier := d.notifiers(ctx, payload.Target)
	if err != nil {
		d.tel.ReportBroken(report_dispatcher_config, err)
		notifier.Notify(ctx, d.formatter.ConfigWarning())
		return Report{State: StateConfigError, Err: err}
	}

	cur := d.tracker.Load(ctx)
	today := chrono.DateString(now, loc)
	if cur.CompletedOn(today) {
		return Report{State: StateAlreadyComplete, Total: len(payload.Accounts)}
	}

	plan := PlanSlice(cur.BatchIndex, d.batchSize, len(payload.Accounts))
	if plan.Rewound {
		d.tel.ReportWarning(
			report_dispatcher_cursor,
			fmt.Errorf("batch index %d is past the end of %d accounts, starting over", cur.BatchIndex, plan.Total),
		)
		d.tracker.Rewind(ctx)
	}

	report := Report{
		BatchIndex: plan.BatchIndex,
		Start:      plan.Start,
		End:        plan.End,
		Total:      plan.Total,
	}

	slice := payload.Accounts[plan.Start:plan.End]
	report.Results = d.engine.LoginAll(ctx, slice, func(ctx context.Context, res panel.Result) {
		notifier.Notify(ctx, d.formatter.AccountLine(res))
	})
	if len(report.Results) < len(slice) {
		report.State = StateInterrupted
		report.Err = fmt.Errorf("interrupted after %d of %d accounts: %w", len(report.Results), len(slice), context.Cause(ctx))
		d.tel.ReportWarning(report_dispatcher_run, report.Err)
		return report
	}

	// the slice is done, its bookkeeping must not be lost to a cancellation
	// that arrived during the last delay.
	ctx = context.WithoutCancel(ctx)

	failed := 0
	for _, res := range report.Results {
		if !res.Success() {
			failed++
		}
	}
	d.tel.ReportCount(report_dispatcher_failed, int64(failed))

	batch := notify.Batch{
		Index: plan.BatchIndex,
		Start: plan.Start,
		End:   plan.End,
		Total: plan.Total,
	}
	notifier.Notify(ctx, d.formatter.Summary(batch, report.Results))

	if !plan.Last() {
		d.tracker.Advance(ctx, plan.BatchIndex+1)
		notifier.Notify(ctx, d.formatter.Progress(batch))
		report.State = StateAdvanced
		return report
	}

	notifier.Notify(ctx, d.formatter.Complete())
	d.tracker.Complete(ctx, today)
	report.State = StateCompleted
	return report
}
