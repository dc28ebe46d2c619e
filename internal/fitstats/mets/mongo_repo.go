package mets

import (
	"context"
	"fmt"

	"github.com/2beens/fitstats/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

type MongoRepo struct {
	collection *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		collection: db.Collection(MongoCollection),
	}
}

// ListActivityMets reads all reference documents in insertion order.
func (r *MongoRepo) ListActivityMets(ctx context.Context) (_ []ActivityMets, undecodable int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.mets.mongo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	cursor, err := r.collection.Find(
		ctx,
		bson.D{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("find: %w", err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			log.Warnf("close activity mets cursor: %s", err)
		}
	}()

	docs := make([]ActivityMets, 0)
	for cursor.Next(ctx) {
		var doc ActivityMets
		if err := cursor.Decode(&doc); err != nil {
			log.Warnf("decode activity mets document [%v]: %s", cursor.Current.Lookup("_id"), err)
			undecodable++
			continue
		}
		docs = append(docs, doc)
	}

	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor: %w", err)
	}

	span.SetAttributes(attribute.Int("documents", len(docs)))

	return docs, undecodable, nil
}
