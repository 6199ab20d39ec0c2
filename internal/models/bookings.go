package models

import (
	"strings"
	"time"

	"github.com/joshua-takyi/devevents/internal/helpers"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const BookingsColName = "bookings"

type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID `bson:"event_id" json:"event_id"`
	Email     string             `bson:"email" json:"email" validate:"email_shape"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

type BookingRequest struct {
	EventID string `json:"event_id" binding:"required"`
	Email   string `json:"email" binding:"required"`
}

// NewBooking builds a booking from the request, trimming and lower-casing the
// email and checking its shape and the event id format. It does not check
// that the event exists.
func NewBooking(req BookingRequest) (*Booking, error) {
	eventID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.EventID))
	if err != nil {
		return nil, invalid("event_id", err)
	}
	b := &Booking{
		EventID: eventID,
		Email:   helpers.NormalizeEmail(req.Email),
	}
	if err := validateStruct(b); err != nil {
		return nil, err
	}
	return b, nil
}
