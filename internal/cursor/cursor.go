package cursor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"loginbot/internal/components/assert"
	"loginbot/internal/components/telemetry"
)

const (
	KeyBatchIndex       = "batch_index"
	KeyLastFinishedDate = "last_finished_date"
)

const (
	report_tracker_load  = "tracker.load"
	report_tracker_write = "tracker.write"
)

// Cursor is the resumable position within a day's pass over the accounts.
type Cursor struct {
	BatchIndex int
	// LastFinishedDate is a YYYY-MM-DD date, empty when the pass hasn't finished.
	LastFinishedDate string
}

// CompletedOn returns true if a full pass already finished on the given date.
func (c Cursor) CompletedOn(date string) bool {
	return c.BatchIndex == 0 && c.LastFinishedDate != "" && c.LastFinishedDate == date
}

// Tracker reads and writes the cursor through a Store.
//
// Store failures never propagate: reads fall back to the zero cursor and
// failed writes are only reported.
type Tracker struct {
	store Store
	tel   telemetry.API
}

func NewTracker(store Store, tel telemetry.API) Tracker {
	assert.NotNil(store)
	assert.NotNil(tel)
	return Tracker{
		store: store,
		tel:   telemetry.NewScopedAPI("cursor", tel),
	}
}

// Valid returns false for a zero Tracker, use NewTracker.
func (t Tracker) Valid() bool {
	return t.store != nil && t.tel != nil
}

func (t Tracker) Load(ctx context.Context) Cursor {
	var cur Cursor

	raw, found, err := t.store.Get(ctx, KeyBatchIndex)
	if err != nil {
		t.tel.ReportWarning(report_tracker_load, KeyBatchIndex, err)
	} else if found {
		index, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || index < 0 {
			t.tel.ReportWarning(report_tracker_load, fmt.Errorf("invalid %s %q", KeyBatchIndex, raw))
		} else {
			cur.BatchIndex = index
		}
	}

	date, found, err := t.store.Get(ctx, KeyLastFinishedDate)
	if err != nil {
		t.tel.ReportWarning(report_tracker_load, KeyLastFinishedDate, err)
	} else if found {
		cur.LastFinishedDate = strings.TrimSpace(date)
	}

	return cur
}

func (t Tracker) put(ctx context.Context, key, value string) {
	err := t.store.Put(ctx, key, value)
	if err != nil {
		t.tel.ReportBroken(report_tracker_write, key, err)
	}
}

// Reset starts a new day: the index goes back to 0 and the finished marker is cleared.
func (t Tracker) Reset(ctx context.Context) {
	t.put(ctx, KeyBatchIndex, "0")
	err := t.store.Delete(ctx, KeyLastFinishedDate)
	if err != nil {
		t.tel.ReportBroken(report_tracker_write, KeyLastFinishedDate, err)
	}
}

// Rewind moves the index back to 0 without touching the finished marker.
func (t Tracker) Rewind(ctx context.Context) {
	t.put(ctx, KeyBatchIndex, "0")
}

// Advance persists the index of the next slice.
func (t Tracker) Advance(ctx context.Context, next int) {
	t.put(ctx, KeyBatchIndex, strconv.Itoa(next))
}

// Complete marks the pass as finished on the given date.
func (t Tracker) Complete(ctx context.Context, date string) {
	t.put(ctx, KeyBatchIndex, "0")
	t.put(ctx, KeyLastFinishedDate, date)
}
