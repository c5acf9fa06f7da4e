package events

import (
	"context"

	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"go.uber.org/zap"
)

// LogPublisher writes clicks to the log. Used when Kafka is disabled.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Emit(_ context.Context, nodeID string, click trigger.ClickEvent) error {
	p.log.Info("click received",
		zap.String("node", nodeID),
		zap.String("click_id", click.ID),
		zap.Any("click", click),
	)
	return nil
}
