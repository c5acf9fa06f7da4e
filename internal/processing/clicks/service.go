package clicks

import (
	"context"
	"strconv"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/events"
	"github.com/IgorGrieder/linkly-connector/internal/linkly"
)

type Service struct {
	log   ClickLog
	stats StatsRepository
	now   func() time.Time
}

func NewService(log ClickLog, stats StatsRepository) *Service {
	return &Service{log: log, stats: stats, now: time.Now}
}

// Record stores one ClickReceived and bumps the daily counter of its link.
// Redelivered events are stored once. A redelivery of an event whose
// increment failed finishes the increment; a failure between the increment
// and MarkCounted can count the click twice.
func (s *Service) Record(ctx context.Context, ev events.ClickReceived) error {
	linkID := linkly.FormatID(linkly.Normalize(ev.Click.LinkID))
	at := s.clickedAt(ev)

	counted, err := s.log.Insert(ctx, ev, linkID, at)
	if err != nil {
		return err
	}
	if counted {
		return nil
	}
	if linkID == "" {
		return ErrMissingLinkID
	}
	if err := s.stats.IncDaily(ctx, linkID, at); err != nil {
		return err
	}
	return s.log.MarkCounted(ctx, ev.EventID)
}

// MaxStatsDays bounds the number of days one DailyStats call returns.
const MaxStatsDays = 366

// DailyStats returns one entry per day in [from, to], zero-filled.
func (s *Service) DailyStats(ctx context.Context, linkID int64, from, to time.Time) ([]DailyCount, error) {
	from = from.UTC()
	to = to.UTC()
	if linkID <= 0 || to.Before(from) {
		return nil, ErrInvalidRange
	}
	if dateOnly(to).Sub(dateOnly(from)) >= MaxStatsDays*24*time.Hour {
		return nil, ErrInvalidRange
	}

	counts, err := s.stats.GetDaily(ctx, strconv.FormatInt(linkID, 10), from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]int64, len(counts))
	for _, c := range counts {
		byDate[c.Date] = c.Count
	}

	out := make([]DailyCount, 0, int(to.Sub(from).Hours()/24)+1)
	for day := dateOnly(from); !day.After(dateOnly(to)); day = day.AddDate(0, 0, 1) {
		ds := day.Format(time.DateOnly)
		out = append(out, DailyCount{Date: ds, Count: byDate[ds]})
	}
	return out, nil
}

// clickedAt prefers the Linkly timestamp, then the intake time.
func (s *Service) clickedAt(ev events.ClickReceived) time.Time {
	if ts, ok := ev.Click.Timestamp.(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			return t.UTC()
		}
	}
	if t, err := time.Parse(time.RFC3339Nano, ev.ReceivedAt); err == nil {
		return t.UTC()
	}
	return s.now().UTC()
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
