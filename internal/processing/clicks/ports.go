package clicks

import (
	"context"
	"errors"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/events"
)

var (
	ErrInvalidRange  = errors.New("invalid date range")
	ErrMissingLinkID = errors.New("click has no link id")
)

// ClickLog stores received clicks. Insert stores the event unless its id is
// already present and reports whether the stored event was already counted.
// MarkCounted flags the event once its daily counter was incremented.
type ClickLog interface {
	Insert(ctx context.Context, ev events.ClickReceived, linkID string, clickedAt time.Time) (counted bool, err error)
	MarkCounted(ctx context.Context, eventID string) error
}

type StatsRepository interface {
	IncDaily(ctx context.Context, linkID string, at time.Time) error
	GetDaily(ctx context.Context, linkID string, from, to time.Time) ([]DailyCount, error)
}
