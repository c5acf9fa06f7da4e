package mongo

import (
	"context"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/events"
	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/db"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ClickRepository is the click log, one document per ClickReceived event.
type ClickRepository struct {
	coll *mongo.Collection
}

type clickDoc struct {
	EventID    string             `bson:"eventId"`
	NodeID     string             `bson:"nodeId"`
	LinkID     string             `bson:"linkId,omitempty"`
	ClickedAt  time.Time          `bson:"clickedAt"`
	ReceivedAt string             `bson:"receivedAt"`
	Click      trigger.ClickEvent `bson:"click"`
	StoredAt   time.Time          `bson:"storedAt"`
	Counted    bool               `bson:"counted"`
}

func NewClickRepository(ctx context.Context, m *db.Mongo) (*ClickRepository, error) {
	repo := &ClickRepository{coll: m.Collection("click_events")}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_event_id"),
		},
		{
			Keys:    bson.D{{Key: "linkId", Value: 1}, {Key: "clickedAt", Value: -1}},
			Options: options.Index().SetName("link_clicked_desc"),
		},
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// Insert logs the event once. For an event logged earlier it returns the
// stored counted flag.
func (r *ClickRepository) Insert(ctx context.Context, ev events.ClickReceived, linkID string, clickedAt time.Time) (bool, error) {
	_, err := r.coll.InsertOne(ctx, clickDoc{
		EventID:    ev.EventID,
		NodeID:     ev.NodeID,
		LinkID:     linkID,
		ClickedAt:  clickedAt.UTC(),
		ReceivedAt: ev.ReceivedAt,
		Click:      ev.Click,
		StoredAt:   time.Now().UTC(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return r.counted(ctx, ev.EventID)
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (r *ClickRepository) counted(ctx context.Context, eventID string) (bool, error) {
	var doc struct {
		Counted bool `bson:"counted"`
	}
	err := r.coll.FindOne(ctx,
		bson.M{"eventId": eventID},
		options.FindOne().SetProjection(bson.M{"counted": 1}),
	).Decode(&doc)
	if err != nil {
		return false, err
	}
	return doc.Counted, nil
}

func (r *ClickRepository) MarkCounted(ctx context.Context, eventID string) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"eventId": eventID},
		bson.M{"$set": bson.M{"counted": true}},
	)
	return err
}
