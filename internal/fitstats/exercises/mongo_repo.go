package exercises

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/fitstats/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
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

// EnsureIndexes creates the index used by the date window queries.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	name, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "username", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("create exercises index: %w", err)
	}
	log.Debugf("exercises index ready: %s", name)
	return nil
}

func (r *MongoRepo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.mongo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exercise.ID = ""
	res, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("unexpected inserted id type")
	}
	exercise.ID = oid.Hex()

	span.SetAttributes(attribute.String("exercise.id", exercise.ID))

	return &exercise, nil
}

func (r *MongoRepo) ListAll(ctx context.Context, params ListParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.mongo.listall")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	setListParamsAttributes(span, params)

	cursor, err := r.collection.Find(
		ctx,
		listFilter(params),
		options.Find().SetSort(bson.D{{Key: "date", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}

	exercises := make([]Exercise, 0)
	if err := cursor.All(ctx, &exercises); err != nil {
		return nil, fmt.Errorf("cursor all: %w", err)
	}

	span.SetAttributes(attribute.Int("count", len(exercises)))

	return exercises, nil
}

func listFilter(params ListParams) bson.M {
	filter := bson.M{}
	if params.Username != "" {
		filter["username"] = params.Username
	}

	dateFilter := bson.M{}
	if params.From != nil {
		dateFilter["$gte"] = *params.From
	}
	if params.To != nil {
		dateFilter["$lt"] = *params.To
	}
	if len(dateFilter) > 0 {
		filter["date"] = dateFilter
	}

	return filter
}
