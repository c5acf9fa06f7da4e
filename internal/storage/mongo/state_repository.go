package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/db"
	"github.com/IgorGrieder/linkly-connector/internal/processing/trigger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StateRepository stores node state in node_static_data keyed by node id.
type StateRepository struct {
	coll *mongo.Collection
}

type nodeStateDoc struct {
	NodeID    string    `bson:"_id"`
	WebhookID string    `bson:"webhookId,omitempty"`
	LinkID    *int64    `bson:"linkId,omitempty"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func NewStateRepository(m *db.Mongo) *StateRepository {
	return &StateRepository{coll: m.Collection("node_static_data")}
}

func (r *StateRepository) Load(ctx context.Context, nodeID string) (trigger.NodeState, error) {
	var doc nodeStateDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": nodeID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return trigger.NodeState{}, nil
	}
	if err != nil {
		return trigger.NodeState{}, fmt.Errorf("load node state %s: %w", nodeID, err)
	}
	return trigger.NodeState{WebhookID: doc.WebhookID, LinkID: doc.LinkID}, nil
}

func (r *StateRepository) Save(ctx context.Context, nodeID string, st trigger.NodeState) error {
	if st.IsZero() {
		if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": nodeID}); err != nil {
			return fmt.Errorf("clear node state %s: %w", nodeID, err)
		}
		return nil
	}

	doc := nodeStateDoc{
		NodeID:    nodeID,
		WebhookID: st.WebhookID,
		LinkID:    st.LinkID,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": nodeID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save node state %s: %w", nodeID, err)
	}
	return nil
}
