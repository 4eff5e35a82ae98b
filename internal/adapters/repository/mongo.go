package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sgmproject/sgm/internal/domain/model"
)

// Default document-store configuration.
const (
	defaultDatabase         = "gdelt_db"
	defaultScoresCollection = "sgm_scores"
	defaultEventsCollection = "acled_events"
	defaultMongoTimeout     = 10 * time.Second
)

// MongoOption applies a configuration option to the MongoStore.
type MongoOption func(*MongoStore)

// WithDatabase sets the database name.
func WithDatabase(name string) MongoOption {
	return func(s *MongoStore) {
		if name != "" {
			s.database = name
		}
	}
}

// WithScoresCollection sets the country-score collection name.
func WithScoresCollection(name string) MongoOption {
	return func(s *MongoStore) {
		if name != "" {
			s.scoresCollection = name
		}
	}
}

// WithEventsCollection sets the ACLED event collection name.
func WithEventsCollection(name string) MongoOption {
	return func(s *MongoStore) {
		if name != "" {
			s.eventsCollection = name
		}
	}
}

// WithTimeout sets the per-operation timeout.
func WithTimeout(d time.Duration) MongoOption {
	return func(s *MongoStore) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// MongoStore implements Store on a MongoDB database. Country scores
// are keyed by their upper-cased code, ACLED events by their upstream
// event id; both writes are bulk upserts so reruns overwrite instead
// of duplicating.
type MongoStore struct {
	client           *mongo.Client
	database         string
	scoresCollection string
	eventsCollection string
	timeout          time.Duration
}

// NewMongoStore connects to the database at uri and verifies the
// connection with a ping before returning.
func NewMongoStore(ctx context.Context, uri string, opts ...MongoOption) (*MongoStore, error) {
	s := &MongoStore{
		database:         defaultDatabase,
		scoresCollection: defaultScoresCollection,
		eventsCollection: defaultEventsCollection,
		timeout:          defaultMongoTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	connectCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	client, err := mongo.Connect(connectCtx, mongoopts.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(s.timeout))
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *MongoStore) scores() *mongo.Collection {
	return s.client.Database(s.database).Collection(s.scoresCollection)
}

func (s *MongoStore) events() *mongo.Collection {
	return s.client.Database(s.database).Collection(s.eventsCollection)
}

// UpsertMany replaces each score document keyed by code in one
// unordered bulk write. Each replace is atomic; the batch as a whole
// is not, which is acceptable because a rerun converges the set.
func (s *MongoStore) UpsertMany(ctx context.Context, scores []model.CountryScore) (int, error) {
	if len(scores) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(scores))
	for _, score := range scores {
		score.Code = strings.ToUpper(score.Code)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "code", Value: score.Code}}).
			SetReplacement(score).
			SetUpsert(true))
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.scores().BulkWrite(opCtx, models, mongoopts.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("bulk upsert scores: %w", err)
	}
	return bulkWrittenCount(res), nil
}

// bulkWrittenCount reports documents written by an upsert batch:
// inserts plus overwrites. Matched already includes every modified
// document, so ModifiedCount must not be added on top.
func bulkWrittenCount(res *mongo.BulkWriteResult) int {
	return int(res.UpsertedCount + res.MatchedCount)
}

// GetAll returns up to limit scores ordered by code, with the details
// projection applied server-side when includeDetails is false.
func (s *MongoStore) GetAll(ctx context.Context, limit int, includeDetails bool) ([]model.CountryScore, error) {
	findOpts := mongoopts.Find().
		SetSort(bson.D{{Key: "code", Value: 1}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}
	projection := bson.D{{Key: "_id", Value: 0}}
	if !includeDetails {
		projection = append(projection,
			bson.E{Key: "description", Value: 0},
			bson.E{Key: "event_count", Value: 0},
			bson.E{Key: "avg_tone", Value: 0})
	}
	findOpts.SetProjection(projection)

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	cur, err := s.scores().Find(opCtx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find scores: %w", err)
	}
	var out []model.CountryScore
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	return out, nil
}

// GetByCode matches case-insensitively. Codes are persisted
// upper-cased, so the lookup just uppercases the input.
func (s *MongoStore) GetByCode(ctx context.Context, code string) (model.CountryScore, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var score model.CountryScore
	err := s.scores().FindOne(opCtx,
		bson.D{{Key: "code", Value: strings.ToUpper(strings.TrimSpace(code))}},
		mongoopts.FindOne().SetProjection(bson.D{{Key: "_id", Value: 0}}),
	).Decode(&score)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.CountryScore{}, ErrNotFound
	}
	if err != nil {
		return model.CountryScore{}, fmt.Errorf("find score %q: %w", code, err)
	}
	return score, nil
}

// UpsertACLEDEvents bulk-upserts events keyed by their upstream id.
func (s *MongoStore) UpsertACLEDEvents(ctx context.Context, events []model.ACLEDEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}
	models := make([]mongo.WriteModel, 0, len(events))
	for _, ev := range events {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "id", Value: ev.EventID}}).
			SetReplacement(ev).
			SetUpsert(true))
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	res, err := s.events().BulkWrite(opCtx, models, mongoopts.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("bulk upsert events: %w", err)
	}
	return bulkWrittenCount(res), nil
}

// RecentACLEDEvents returns up to limit events, newest first.
func (s *MongoStore) RecentACLEDEvents(ctx context.Context, limit int) ([]model.ACLEDEvent, error) {
	findOpts := mongoopts.Find().
		SetSort(bson.D{{Key: "event_date", Value: -1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})
	if limit > 0 {
		findOpts.SetLimit(int64(limit))
	}

	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	cur, err := s.events().Find(opCtx, bson.D{}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("find events: %w", err)
	}
	var out []model.ACLEDEvent
	if err := cur.All(opCtx, &out); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	return out, nil
}

// Count returns the number of persisted country scores.
func (s *MongoStore) Count(ctx context.Context) (int, error) {
	opCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	n, err := s.scores().CountDocuments(opCtx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count scores: %w", err)
	}
	return int(n), nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}
	return nil
}
