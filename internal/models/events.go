package models

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/joshua-takyi/devevents/internal/helpers"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const EventsColName = "events"

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"notblank"`
	Slug        string             `bson:"slug" json:"slug" validate:"notblank"`
	Description string             `bson:"description" json:"description" validate:"notblank"`
	Overview    string             `bson:"overview" json:"overview" validate:"notblank"`
	Image       string             `bson:"image" json:"image" validate:"notblank"`
	Venue       string             `bson:"venue" json:"venue" validate:"notblank"`
	Location    string             `bson:"location" json:"location" validate:"notblank"`
	Date        string             `bson:"date" json:"date" validate:"notblank"` // YYYY-MM-DD
	Time        string             `bson:"time" json:"time" validate:"notblank"` // HH:mm, 24h
	Mode        string             `bson:"mode" json:"mode" validate:"notblank"` // e.g. "online", "offline", "hybrid"
	Audience    string             `bson:"audience" json:"audience" validate:"notblank"`
	Agenda      []string           `bson:"agenda" json:"agenda" validate:"min=1,dive,notblank"`
	Organizer   string             `bson:"organizer" json:"organizer" validate:"notblank"`
	Tags        []string           `bson:"tags" json:"tags" validate:"min=1,dive,notblank"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// EventPatch carries a partial update. Nil fields are left untouched.
type EventPatch struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Overview    *string   `json:"overview"`
	Image       *string   `json:"image"`
	Venue       *string   `json:"venue"`
	Location    *string   `json:"location"`
	Date        *string   `json:"date"`
	Time        *string   `json:"time"`
	Mode        *string   `json:"mode"`
	Audience    *string   `json:"audience"`
	Agenda      *[]string `json:"agenda"`
	Organizer   *string   `json:"organizer"`
	Tags        *[]string `json:"tags"`
}

// PrepareEvent normalizes and validates a new event in place: the slug is
// derived from the title and date/time are brought to canonical form. Any
// client supplied slug is discarded.
func PrepareEvent(e *Event) error {
	if e == nil {
		return errors.New("event is nil")
	}
	return e.normalize(true, true, true)
}

// ApplyTo merges the patch into e. Changing the title re-derives the slug and
// changing date or time re-normalizes them. e is only modified when the
// merged record is valid.
func (p *EventPatch) ApplyTo(e *Event) error {
	if e == nil {
		return errors.New("event is nil")
	}
	next := *e
	next.Agenda = slices.Clone(e.Agenda)
	next.Tags = slices.Clone(e.Tags)

	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&next.Title, p.Title)
	set(&next.Description, p.Description)
	set(&next.Overview, p.Overview)
	set(&next.Image, p.Image)
	set(&next.Venue, p.Venue)
	set(&next.Location, p.Location)
	set(&next.Date, p.Date)
	set(&next.Time, p.Time)
	set(&next.Mode, p.Mode)
	set(&next.Audience, p.Audience)
	set(&next.Organizer, p.Organizer)
	if p.Agenda != nil {
		next.Agenda = slices.Clone(*p.Agenda)
	}
	if p.Tags != nil {
		next.Tags = slices.Clone(*p.Tags)
	}

	titleChanged := p.Title != nil && strings.TrimSpace(*p.Title) != e.Title
	if err := next.normalize(titleChanged, p.Date != nil, p.Time != nil); err != nil {
		return err
	}
	*e = next
	return nil
}

// IsEmpty reports whether the patch sets no field at all.
func (p *EventPatch) IsEmpty() bool {
	return *p == EventPatch{}
}

func (e *Event) normalize(titleSet, dateSet, timeSet bool) error {
	e.trim()

	if titleSet {
		if e.Title == "" {
			return invalid("title", errors.New("title is required"))
		}
		e.Slug = helpers.GenerateSlug(e.Title)
		if e.Slug == "" {
			return invalid("slug", errors.New("title does not produce a usable slug"))
		}
	}

	if dateSet {
		d, err := helpers.NormalizeDate(e.Date)
		if err != nil {
			return invalid("date", err)
		}
		e.Date = d
	}

	if timeSet {
		t, err := helpers.NormalizeTime(e.Time)
		if err != nil {
			return invalid("time", err)
		}
		e.Time = t
	}

	return validateStruct(e)
}

func (e *Event) trim() {
	for _, f := range []*string{
		&e.Title, &e.Slug, &e.Description, &e.Overview, &e.Image, &e.Venue,
		&e.Location, &e.Date, &e.Time, &e.Mode, &e.Audience, &e.Organizer,
	} {
		*f = strings.TrimSpace(*f)
	}
	e.Agenda = helpers.TrimAll(e.Agenda)
	e.Tags = helpers.TrimAll(e.Tags)
}
