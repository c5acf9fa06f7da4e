package clicks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/events"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
)

type mockClickLog struct {
	insertFn func(ctx context.Context, ev events.ClickReceived, linkID string, at time.Time) (bool, error)
	marked   []string
}

func (m *mockClickLog) Insert(ctx context.Context, ev events.ClickReceived, linkID string, at time.Time) (bool, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, ev, linkID, at)
	}
	return false, nil
}

func (m *mockClickLog) MarkCounted(_ context.Context, eventID string) error {
	m.marked = append(m.marked, eventID)
	return nil
}

// dedupClickLog keeps one entry per event id, like the unique index on
// click_events.
type dedupClickLog struct {
	counted map[string]bool
}

func (d *dedupClickLog) Insert(_ context.Context, ev events.ClickReceived, _ string, _ time.Time) (bool, error) {
	if d.counted == nil {
		d.counted = make(map[string]bool)
	}
	counted, ok := d.counted[ev.EventID]
	if !ok {
		d.counted[ev.EventID] = false
	}
	return counted, nil
}

func (d *dedupClickLog) MarkCounted(_ context.Context, eventID string) error {
	d.counted[eventID] = true
	return nil
}

type incCall struct {
	linkID string
	at     time.Time
}

type mockStatsRepo struct {
	incs       []incCall
	failIncs   int
	getDailyFn func(ctx context.Context, linkID string, from, to time.Time) ([]DailyCount, error)
}

func (m *mockStatsRepo) IncDaily(_ context.Context, linkID string, at time.Time) error {
	if m.failIncs > 0 {
		m.failIncs--
		return errors.New("mongo timeout")
	}
	m.incs = append(m.incs, incCall{linkID: linkID, at: at})
	return nil
}

func (m *mockStatsRepo) GetDaily(ctx context.Context, linkID string, from, to time.Time) ([]DailyCount, error) {
	if m.getDailyFn != nil {
		return m.getDailyFn(ctx, linkID, from, to)
	}
	return nil, nil
}

func TestRecord_CountsByLinkAndClickTime(t *testing.T) {
	stats := &mockStatsRepo{}
	logRepo := &mockClickLog{}
	svc := NewService(logRepo, stats)

	ev := events.ClickReceived{
		EventID:    "e1",
		NodeID:     "ws-node",
		ReceivedAt: "2024-01-02T00:00:05Z",
		Click:      trigger.ClickEvent{ID: "42-2024-01-01T23:59:59Z", LinkID: float64(42), Timestamp: "2024-01-01T23:59:59Z"},
	}
	if err := svc.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(stats.incs) != 1 {
		t.Fatalf("expected 1 increment, got %d", len(stats.incs))
	}
	if stats.incs[0].linkID != "42" {
		t.Fatalf("expected link 42, got %q", stats.incs[0].linkID)
	}
	if got := stats.incs[0].at.Format(time.DateOnly); got != "2024-01-01" {
		t.Fatalf("expected click day 2024-01-01, got %s", got)
	}
	if len(logRepo.marked) != 1 || logRepo.marked[0] != "e1" {
		t.Fatalf("expected e1 marked counted, got %v", logRepo.marked)
	}
}

func TestRecord_FallsBackToReceivedAt(t *testing.T) {
	var gotAt time.Time
	logRepo := &mockClickLog{insertFn: func(_ context.Context, _ events.ClickReceived, _ string, at time.Time) (bool, error) {
		gotAt = at
		return false, nil
	}}
	svc := NewService(logRepo, &mockStatsRepo{})

	ev := events.ClickReceived{EventID: "e1", ReceivedAt: "2024-03-03T10:00:00Z", Click: trigger.ClickEvent{LinkID: int64(1), Timestamp: "not a time"}}
	if err := svc.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !gotAt.Equal(time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected click time %s", gotAt)
	}
}

func TestRecord_DuplicateIsNotCounted(t *testing.T) {
	stats := &mockStatsRepo{}
	logRepo := &mockClickLog{insertFn: func(context.Context, events.ClickReceived, string, time.Time) (bool, error) {
		return true, nil
	}}
	svc := NewService(logRepo, stats)

	if err := svc.Record(context.Background(), events.ClickReceived{EventID: "e1", Click: trigger.ClickEvent{LinkID: int64(1)}}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(stats.incs) != 0 {
		t.Fatalf("duplicate delivery must not be counted")
	}
}

func TestRecord_RedeliveryAfterFailedIncrement(t *testing.T) {
	stats := &mockStatsRepo{failIncs: 1}
	svc := NewService(&dedupClickLog{}, stats)
	ev := events.ClickReceived{EventID: "e1", ReceivedAt: "2024-01-01T00:00:00Z", Click: trigger.ClickEvent{LinkID: int64(7)}}

	if err := svc.Record(context.Background(), ev); err == nil {
		t.Fatal("expected the failed increment to surface")
	}
	for i := 0; i < 2; i++ {
		if err := svc.Record(context.Background(), ev); err != nil {
			t.Fatalf("redelivery %d: %v", i+1, err)
		}
	}

	if len(stats.incs) != 1 {
		t.Fatalf("click counted %d times across redeliveries, want 1", len(stats.incs))
	}
}

func TestRecord_MissingLinkID(t *testing.T) {
	stats := &mockStatsRepo{}
	svc := NewService(&mockClickLog{}, stats)

	err := svc.Record(context.Background(), events.ClickReceived{EventID: "e1", Click: trigger.ClickEvent{ID: "-"}})
	if !errors.Is(err, ErrMissingLinkID) {
		t.Fatalf("expected ErrMissingLinkID, got %v", err)
	}
	if len(stats.incs) != 0 {
		t.Fatalf("click without link must not be counted")
	}
}

func TestRecord_LogError(t *testing.T) {
	boom := errors.New("mongo down")
	svc := NewService(&mockClickLog{insertFn: func(context.Context, events.ClickReceived, string, time.Time) (bool, error) {
		return false, boom
	}}, &mockStatsRepo{})

	if err := svc.Record(context.Background(), events.ClickReceived{}); !errors.Is(err, boom) {
		t.Fatalf("expected log error, got %v", err)
	}
}

func TestDailyStats_InvalidRange(t *testing.T) {
	svc := NewService(&mockClickLog{}, &mockStatsRepo{})
	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	if _, err := svc.DailyStats(context.Background(), 1, from, from.AddDate(0, 0, -1)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := svc.DailyStats(context.Background(), 0, from, from); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for link 0, got %v", err)
	}
}

func TestDailyStats_RangeCap(t *testing.T) {
	called := false
	svc := NewService(&mockClickLog{}, &mockStatsRepo{getDailyFn: func(context.Context, string, time.Time, time.Time) ([]DailyCount, error) {
		called = true
		return nil, nil
	}})
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	counts, err := svc.DailyStats(context.Background(), 1, from, from.AddDate(0, 0, MaxStatsDays-1))
	if err != nil {
		t.Fatalf("DailyStats at the cap: %v", err)
	}
	if len(counts) != MaxStatsDays {
		t.Fatalf("expected %d days, got %d", MaxStatsDays, len(counts))
	}

	called = false
	if _, err := svc.DailyStats(context.Background(), 1, from, from.AddDate(0, 0, MaxStatsDays)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange past the cap, got %v", err)
	}
	if _, err := svc.DailyStats(context.Background(), 1, time.Time{}, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for an unbounded range, got %v", err)
	}
	if called {
		t.Fatal("repository must not be queried for a rejected range")
	}
}

func TestDailyStats_GapFilling(t *testing.T) {
	var gotLink string
	stats := &mockStatsRepo{getDailyFn: func(_ context.Context, linkID string, _, _ time.Time) ([]DailyCount, error) {
		gotLink = linkID
		return []DailyCount{
			{Date: "2024-01-01", Count: 3},
			{Date: "2024-01-03", Count: 1},
		}, nil
	}}
	svc := NewService(&mockClickLog{}, stats)

	from := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 4, 1, 0, 0, 0, time.UTC)
	counts, err := svc.DailyStats(context.Background(), 42, from, to)
	if err != nil {
		t.Fatalf("DailyStats: %v", err)
	}
	if gotLink != "42" {
		t.Fatalf("expected link 42, got %q", gotLink)
	}

	want := []DailyCount{
		{Date: "2024-01-01", Count: 3},
		{Date: "2024-01-02", Count: 0},
		{Date: "2024-01-03", Count: 1},
		{Date: "2024-01-04", Count: 0},
	}
	if len(counts) != len(want) {
		t.Fatalf("expected %d days, got %d", len(want), len(counts))
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("day %d: expected %+v, got %+v", i, want[i], counts[i])
		}
	}
}
