package services

import (
	"context"
	"log/slog"

	"github.com/joshua-takyi/devevents/internal/models"
)

type BookingNotifier interface {
	BookingCreated(ctx context.Context, booking *models.Booking) error
}

type BookingService struct {
	bookingsRepo models.BookingsRepo
	eventsRepo   models.EventsRepo
	notifier     BookingNotifier
	logger       *slog.Logger
}

func NewBookingService(bookingsRepo models.BookingsRepo, eventsRepo models.EventsRepo, notifier BookingNotifier, logger *slog.Logger) *BookingService {
	return &BookingService{
		bookingsRepo: bookingsRepo,
		eventsRepo:   eventsRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreateBooking validates the request, checks that the referenced event
// exists and stores the booking. Nothing is written when either step fails.
// Notification failures are logged and do not fail the booking.
func (bs *BookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	booking, err := models.NewBooking(req)
	if err != nil {
		return nil, err
	}

	exists, err := bs.eventsRepo.EventExists(ctx, booking.EventID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, &models.ReferenceError{EventID: booking.EventID.Hex()}
	}

	created, err := bs.bookingsRepo.InsertBooking(ctx, booking)
	if err != nil {
		return nil, err
	}

	if bs.notifier != nil {
		if err := bs.notifier.BookingCreated(ctx, created); err != nil {
			bs.logger.Warn("Failed to publish booking notification", "booking_id", created.ID.Hex(), "error", err)
		}
	}
	return created, nil
}

// CountBookings returns how many bookings the event identified by slug has.
func (bs *BookingService) CountBookings(ctx context.Context, rawSlug string) (int64, bool, error) {
	slug, err := NormalizeSlugParam(rawSlug)
	if err != nil {
		return 0, false, err
	}
	event, found, err := bs.eventsRepo.FindEventBySlug(ctx, slug)
	if err != nil || !found {
		return 0, found, err
	}
	n, err := bs.bookingsRepo.CountBookingsByEvent(ctx, event.ID)
	if err != nil {
		return 0, true, err
	}
	return n, true, nil
}
