package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/joshua-takyi/devevents/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory EventsRepo and BookingsRepo. Like the unique
// index on events.slug, it rejects a second event with the same slug.
type fakeStore struct {
	mu       sync.Mutex
	events   map[primitive.ObjectID]*models.Event
	bookings []*models.Booking
	err      error // returned by every call when set
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: make(map[primitive.ObjectID]*models.Event)}
}

func (f *fakeStore) slugTaken(slug string, except primitive.ObjectID) bool {
	for id, e := range f.events {
		if e.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (f *fakeStore) InsertEvent(ctx context.Context, e *models.Event) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.slugTaken(e.Slug, primitive.NilObjectID) {
		return nil, &models.ConflictError{Slug: e.Slug}
	}
	e.BeforeCreate()
	stored := *e
	f.events[e.ID] = &stored
	return e, nil
}

func (f *fakeStore) ReplaceEvent(ctx context.Context, e *models.Event) (*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.events[e.ID]; !ok {
		return nil, models.ErrNotFound
	}
	if f.slugTaken(e.Slug, e.ID) {
		return nil, &models.ConflictError{Slug: e.Slug}
	}
	e.UpdatedAt = time.Now().UTC()
	stored := *e
	f.events[e.ID] = &stored
	return e, nil
}

func (f *fakeStore) FindEventBySlug(ctx context.Context, slug string) (*models.Event, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, false, f.err
	}
	for _, e := range f.events {
		if e.Slug == slug {
			cp := *e
			return &cp, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeStore) EventExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.events[id]
	return ok, nil
}

func (f *fakeStore) sorted() []*models.Event {
	out := make([]*models.Event, 0, len(f.events))
	for _, e := range f.events {
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeStore) ListEvents(ctx context.Context, offset, limit int) ([]*models.Event, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	all := f.sorted()
	total := int64(len(all))
	if offset >= len(all) {
		return []*models.Event{}, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (f *fakeStore) ListSimilarEvents(ctx context.Context, e *models.Event, limit int) ([]*models.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.Event{}
	for _, other := range f.sorted() {
		if other.ID == e.ID {
			continue
		}
		if slices.ContainsFunc(other.Tags, func(tag string) bool { return slices.Contains(e.Tags, tag) }) {
			out = append(out, other)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeStore) InsertBooking(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	b.BeforeCreate()
	cp := *b
	f.bookings = append(f.bookings, &cp)
	return b, nil
}

func (f *fakeStore) CountBookingsByEvent(ctx context.Context, id primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	var n int64
	for _, b := range f.bookings {
		if b.EventID == id {
			n++
		}
	}
	return n, nil
}

type fakeUploader struct {
	calls []string
	err   error
}

func (u *fakeUploader) UploadImage(ctx context.Context, image string) (string, error) {
	u.calls = append(u.calls, image)
	if u.err != nil {
		return "", u.err
	}
	return "https://cdn.example.com/events/" + image, nil
}

type fakeNotifier struct {
	sent []*models.Booking
	err  error
}

func (n *fakeNotifier) BookingCreated(ctx context.Context, b *models.Booking) error {
	n.sent = append(n.sent, b)
	return n.err
}

var errStoreDown = errors.New("store down")

func sampleEvent(title string, tags ...string) *models.Event {
	if len(tags) == 0 {
		tags = []string{"go"}
	}
	return &models.Event{
		Title:       title,
		Description: "A day of talks",
		Overview:    "Overview",
		Image:       "https://images.example.com/e.png",
		Venue:       "Main Hall",
		Location:    "Lisbon, Portugal",
		Date:        "2025-11-20",
		Time:        "10:00",
		Mode:        "hybrid",
		Audience:    "Engineers",
		Agenda:      []string{"Opening", "Talks"},
		Organizer:   "Dev Events",
		Tags:        tags,
	}
}
