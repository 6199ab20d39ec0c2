package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingsRepo interface {
	InsertBooking(ctx context.Context, booking *Booking) (*Booking, error)
	CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
}

func bookingIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetName("event_id_idx"),
		},
	}
}

func (b *Booking) BeforeCreate() {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
}

func (mdb *MongodbRepo) InsertBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	booking.BeforeCreate()
	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to insert booking: %w", err)
	}
	return booking, nil
}

func (mdb *MongodbRepo) CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %w", err)
	}

	n, err := col.CountDocuments(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, fmt.Errorf("error counting bookings: %w", err)
	}
	return n, nil
}
