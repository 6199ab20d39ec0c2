package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/devevents/internal/helpers"
	"github.com/joshua-takyi/devevents/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSimilar  = 3
)

// ImageUploader moves a local or inline image to permanent hosting and
// returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, image string) (string, error)
}

type EventService struct {
	eventsRepo models.EventsRepo
	images     ImageUploader
	logger     *slog.Logger
}

// NewEventService builds the service. images may be nil, in which case image
// references are stored as given.
func NewEventService(eventsRepo models.EventsRepo, images ImageUploader, logger *slog.Logger) *EventService {
	return &EventService{
		eventsRepo: eventsRepo,
		images:     images,
		logger:     logger,
	}
}

// NormalizeSlugParam cleans a slug taken from a URL and rejects values that
// cannot be a stored slug.
func NormalizeSlugParam(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if slug == "" {
		return "", &models.ValidationError{Field: "slug", Err: errors.New("slug is required")}
	}
	if !helpers.IsValidSlug(slug) {
		return "", &models.ValidationError{Field: "slug", Err: fmt.Errorf("malformed slug %q", raw)}
	}
	return slug, nil
}

func (es *EventService) GetEventBySlug(ctx context.Context, rawSlug string) (*models.Event, bool, error) {
	slug, err := NormalizeSlugParam(rawSlug)
	if err != nil {
		return nil, false, err
	}
	return es.eventsRepo.FindEventBySlug(ctx, slug)
}

func (es *EventService) ListEvents(ctx context.Context, offset, limit int) ([]*models.Event, int64, error) {
	if offset < 0 {
		return nil, 0, &models.ValidationError{Field: "offset", Err: errors.New("must not be negative")}
	}
	if limit <= 0 || limit > MaxPageSize {
		return nil, 0, &models.ValidationError{Field: "limit", Err: fmt.Errorf("must be between 1 and %d", MaxPageSize)}
	}
	return es.eventsRepo.ListEvents(ctx, offset, limit)
}

// ListSimilarEvents returns up to limit events sharing a tag with the event
// identified by slug. found is false when that event does not exist.
func (es *EventService) ListSimilarEvents(ctx context.Context, rawSlug string, limit int) ([]*models.Event, bool, error) {
	if limit <= 0 || limit > MaxPageSize {
		return nil, false, &models.ValidationError{Field: "limit", Err: fmt.Errorf("must be between 1 and %d", MaxPageSize)}
	}
	event, found, err := es.GetEventBySlug(ctx, rawSlug)
	if err != nil || !found {
		return nil, found, err
	}
	similar, err := es.eventsRepo.ListSimilarEvents(ctx, event, limit)
	if err != nil {
		return nil, true, err
	}
	return similar, true, nil
}

func (es *EventService) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	event.ID = primitive.NilObjectID
	if err := models.PrepareEvent(event); err != nil {
		return nil, err
	}
	if err := es.hostImage(ctx, event); err != nil {
		return nil, err
	}

	created, err := es.eventsRepo.InsertEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	es.logger.Info("Event created", "event_id", created.ID.Hex(), "slug", created.Slug)
	return created, nil
}

func (es *EventService) UpdateEvent(ctx context.Context, rawSlug string, patch *models.EventPatch) (*models.Event, error) {
	slug, err := NormalizeSlugParam(rawSlug)
	if err != nil {
		return nil, err
	}
	if patch == nil || patch.IsEmpty() {
		return nil, &models.ValidationError{Field: "body", Err: errors.New("no fields to update")}
	}

	event, found, err := es.eventsRepo.FindEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, models.ErrNotFound
	}

	if err := patch.ApplyTo(event); err != nil {
		return nil, err
	}
	if patch.Image != nil {
		if err := es.hostImage(ctx, event); err != nil {
			return nil, err
		}
	}

	updated, err := es.eventsRepo.ReplaceEvent(ctx, event)
	if err != nil {
		return nil, err
	}
	if updated.Slug != slug {
		es.logger.Info("Event slug changed", "event_id", updated.ID.Hex(), "from", slug, "to", updated.Slug)
	}
	return updated, nil
}

func (es *EventService) hostImage(ctx context.Context, event *models.Event) error {
	if es.images == nil || helpers.IsRemoteImage(event.Image) {
		return nil
	}
	url, err := es.images.UploadImage(ctx, event.Image)
	if err != nil {
		return fmt.Errorf("failed to host event image: %w", err)
	}
	event.Image = url
	return nil
}
