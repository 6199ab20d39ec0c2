package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventsRepo interface {
	InsertEvent(ctx context.Context, event *Event) (*Event, error)
	ReplaceEvent(ctx context.Context, event *Event) (*Event, error)
	FindEventBySlug(ctx context.Context, slug string) (*Event, bool, error)
	EventExists(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListEvents(ctx context.Context, offset, limit int) ([]*Event, int64, error)
	ListSimilarEvents(ctx context.Context, event *Event, limit int) ([]*Event, error)
}

func eventIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("slug_unique"),
		},
		{
			Keys:    bson.D{{Key: "tags", Value: 1}},
			Options: options.Index().SetName("tags_idx"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_at_idx"),
		},
	}
}

func (e *Event) BeforeCreate() {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
}

func (mdb *MongodbRepo) InsertEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	event.BeforeCreate()
	if _, err := col.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &ConflictError{Slug: event.Slug}
		}
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return event, nil
}

func (mdb *MongodbRepo) ReplaceEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	event.UpdatedAt = time.Now().UTC()
	res, err := col.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &ConflictError{Slug: event.Slug}
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return event, nil
}

func (mdb *MongodbRepo) FindEventBySlug(ctx context.Context, slug string) (*Event, bool, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, false, fmt.Errorf("error getting collection: %w", err)
	}

	var event Event
	err = col.FindOne(ctx, bson.M{"slug": slug}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("error finding event by slug: %w", err)
	}
	return &event, true, nil
}

func (mdb *MongodbRepo) EventExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return false, fmt.Errorf("error getting collection: %w", err)
	}

	n, err := col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking event: %w", err)
	}
	return n > 0, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, offset, limit int) ([]*Event, int64, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, 0, fmt.Errorf("error getting collection: %w", err)
	}

	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("error counting events: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error finding events: %w", err)
	}

	events, err := decodeEvents(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListSimilarEvents returns events sharing at least one tag with event,
// excluding event itself.
func (mdb *MongodbRepo) ListSimilarEvents(ctx context.Context, event *Event, limit int) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	filter := bson.M{
		"_id":  bson.M{"$ne": event.ID},
		"tags": bson.M{"$in": event.Tags},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding similar events: %w", err)
	}
	return decodeEvents(ctx, cursor)
}

func decodeEvents(ctx context.Context, cursor *mongo.Cursor) ([]*Event, error) {
	defer cursor.Close(ctx)

	events := []*Event{}
	for cursor.Next(ctx) {
		var e Event
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("error decoding event: %w", err)
		}
		events = append(events, &e)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return events, nil
}
