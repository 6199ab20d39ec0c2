package models

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const (
	testDB       = "devevents"
	eventsNS     = testDB + "." + EventsColName
	bookingsNS   = testDB + "." + BookingsColName
	duplicateKey = 11000
)

// staticClients hands the mock deployment's client to the repo.
type staticClients struct {
	client *mongo.Client
}

func (s staticClients) Acquire(context.Context) (*mongo.Client, error) {
	return s.client, nil
}

func newMockRepo(mt *mtest.T) *MongodbRepo {
	return MongodbNewRepo(staticClients{client: mt.Client}, testDB)
}

func eventDoc(id primitive.ObjectID, slug string, tags ...string) bson.D {
	arr := bson.A{}
	for _, tag := range tags {
		arr = append(arr, tag)
	}
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: slug},
		{Key: "slug", Value: slug},
		{Key: "tags", Value: arr},
	}
}

func duplicateSlugResponse() bson.D {
	return mtest.CreateWriteErrorsResponse(mtest.WriteError{
		Index:   0,
		Code:    duplicateKey,
		Message: "E11000 duplicate key error collection: devevents.events index: slug_unique dup key: { slug: \"go-meetup\" }",
	})
}

func TestMongodbRepoEvents(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert assigns id and timestamps", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.InsertEvent(ctx, &Event{Title: "Go Meetup", Slug: "go-meetup"})
		require.NoError(mt, err)
		assert.False(mt, created.ID.IsZero())
		assert.False(mt, created.CreatedAt.IsZero())
		assert.Equal(mt, created.CreatedAt, created.UpdatedAt)
	})

	mt.Run("insert with taken slug is a conflict", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(duplicateSlugResponse())

		_, err := repo.InsertEvent(ctx, &Event{Title: "go   meetup", Slug: "go-meetup"})
		var conflict *ConflictError
		require.ErrorAs(mt, err, &conflict)
		assert.Equal(mt, "go-meetup", conflict.Slug)
	})

	mt.Run("insert failure other than duplicate key", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Code: 121, Message: "Document failed validation"}))

		_, err := repo.InsertEvent(ctx, &Event{Title: "Go Meetup", Slug: "go-meetup"})
		require.Error(mt, err)
		var conflict *ConflictError
		assert.False(mt, errors.As(err, &conflict))
	})

	mt.Run("replace onto a taken slug is a conflict", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(duplicateSlugResponse())

		_, err := repo.ReplaceEvent(ctx, &Event{ID: primitive.NewObjectID(), Slug: "go-meetup"})
		var conflict *ConflictError
		require.ErrorAs(mt, err, &conflict)
	})

	mt.Run("replace of a missing event", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		_, err := repo.ReplaceEvent(ctx, &Event{ID: primitive.NewObjectID(), Slug: "go-meetup"})
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("replace of an existing event", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		updated, err := repo.ReplaceEvent(ctx, &Event{ID: primitive.NewObjectID(), Slug: "go-meetup"})
		require.NoError(mt, err)
		assert.False(mt, updated.UpdatedAt.IsZero())
	})

	mt.Run("find by slug miss", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, eventsNS, mtest.FirstBatch))

		event, found, err := repo.FindEventBySlug(ctx, "go-meetup")
		require.NoError(mt, err)
		assert.False(mt, found)
		assert.Nil(mt, event)
	})

	mt.Run("find by slug hit", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, eventsNS, mtest.FirstBatch, eventDoc(id, "go-meetup", "go")))

		event, found, err := repo.FindEventBySlug(ctx, "go-meetup")
		require.NoError(mt, err)
		require.True(mt, found)
		assert.Equal(mt, id, event.ID)
		assert.Equal(mt, []string{"go"}, event.Tags)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		assert.Equal(mt, "go-meetup", started.Command.Lookup("filter", "slug").StringValue())
	})

	mt.Run("event exists", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, eventsNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
			mtest.CreateCursorResponse(0, eventsNS, mtest.FirstBatch),
		)

		exists, err := repo.EventExists(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.True(mt, exists)

		exists, err = repo.EventExists(ctx, primitive.NewObjectID())
		require.NoError(mt, err)
		assert.False(mt, exists)
	})

	mt.Run("list pages newest first", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, eventsNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}),
			mtest.CreateCursorResponse(0, eventsNS, mtest.FirstBatch,
				eventDoc(primitive.NewObjectID(), "two"),
				eventDoc(primitive.NewObjectID(), "one"),
			),
		)

		events, total, err := repo.ListEvents(ctx, 1, 2)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), total)
		require.Len(mt, events, 2)
		assert.Equal(mt, "two", events[0].Slug)

		assert.Equal(mt, "aggregate", mt.GetStartedEvent().CommandName)
		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, int64(1), find.Command.Lookup("skip").AsInt64())
		assert.Equal(mt, int64(2), find.Command.Lookup("limit").AsInt64())
		assert.Equal(mt, int64(-1), find.Command.Lookup("sort", "created_at").AsInt64())
	})

	mt.Run("similar events share a tag and exclude the source", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		source := &Event{ID: primitive.NewObjectID(), Slug: "go-meetup", Tags: []string{"go", "cloud"}}
		other := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, eventsNS, mtest.FirstBatch, eventDoc(other, "cloud-day", "cloud")))

		similar, err := repo.ListSimilarEvents(ctx, source, 3)
		require.NoError(mt, err)
		require.Len(mt, similar, 1)
		assert.Equal(mt, other, similar[0].ID)

		find := mt.GetStartedEvent()
		require.NotNil(mt, find)
		assert.Equal(mt, source.ID, find.Command.Lookup("filter", "_id", "$ne").ObjectID())
		tags, err := find.Command.Lookup("filter", "tags", "$in").Array().Values()
		require.NoError(mt, err)
		require.Len(mt, tags, 2)
		assert.Equal(mt, "go", tags[0].StringValue())
		assert.Equal(mt, "cloud", tags[1].StringValue())
		assert.Equal(mt, int64(3), find.Command.Lookup("limit").AsInt64())
	})
}

func TestMongodbRepoBookings(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("insert", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		booking, err := repo.InsertBooking(ctx, &Booking{EventID: primitive.NewObjectID(), Email: "ama@example.com"})
		require.NoError(mt, err)
		assert.False(mt, booking.ID.IsZero())
		assert.False(mt, booking.CreatedAt.IsZero())
	})

	mt.Run("count by event", func(mt *mtest.T) {
		repo := newMockRepo(mt)
		eventID := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, bookingsNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}))

		n, err := repo.CountBookingsByEvent(ctx, eventID)
		require.NoError(mt, err)
		assert.Equal(mt, int64(2), n)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "aggregate", started.CommandName)
	})
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("creates event and booking indexes", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		require.NoError(mt, EnsureIndexes(context.Background(), mt.Client.Database(testDB)))

		events := mt.GetStartedEvent()
		require.NotNil(mt, events)
		assert.Equal(mt, "createIndexes", events.CommandName)
		assert.Equal(mt, EventsColName, events.Command.Lookup("createIndexes").StringValue())
		first := events.Command.Lookup("indexes", "0")
		assert.Equal(mt, "slug_unique", first.Document().Lookup("name").StringValue())
		assert.True(mt, first.Document().Lookup("unique").Boolean())

		bookings := mt.GetStartedEvent()
		require.NotNil(mt, bookings)
		assert.Equal(mt, BookingsColName, bookings.Command.Lookup("createIndexes").StringValue())
	})

	mt.Run("propagates failure", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))

		assert.Error(mt, EnsureIndexes(context.Background(), mt.Client.Database(testDB)))
	})
}
