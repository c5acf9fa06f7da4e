package mongo

import (
	"context"
	"time"

	"github.com/IgorGrieder/linkly-connector/internal/infrastructure/db"
	"github.com/IgorGrieder/linkly-connector/internal/processing/clicks"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ClickStatsRepository struct {
	coll *mongo.Collection
}

type clickDailyDoc struct {
	LinkID string `bson:"linkId"`
	Date   string `bson:"date"` // YYYY-MM-DD (UTC)
	Count  int64  `bson:"count"`
}

func NewClickStatsRepository(ctx context.Context, m *db.Mongo) (*ClickStatsRepository, error) {
	repo := &ClickStatsRepository{coll: m.Collection("clicks_daily")}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "linkId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_link_date"),
		},
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *ClickStatsRepository) IncDaily(ctx context.Context, linkID string, at time.Time) error {
	date := dateString(at)

	_, err := r.coll.UpdateOne(
		ctx,
		bson.M{"linkId": linkID, "date": date},
		bson.M{
			"$inc":         bson.M{"count": 1},
			"$setOnInsert": bson.M{"linkId": linkID, "date": date},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (r *ClickStatsRepository) GetDaily(ctx context.Context, linkID string, from, to time.Time) ([]clicks.DailyCount, error) {
	cur, err := r.coll.Find(
		ctx,
		bson.M{
			"linkId": linkID,
			"date": bson.M{
				"$gte": dateString(from),
				"$lte": dateString(to),
			},
		},
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []clicks.DailyCount
	for cur.Next(ctx) {
		var doc clickDailyDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, clicks.DailyCount{Date: doc.Date, Count: doc.Count})
	}
	return out, cur.Err()
}

func dateString(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
