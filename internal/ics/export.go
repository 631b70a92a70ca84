package ics

import (
	"fmt"
	"io"
	"time"

	"github.com/JaredDyreson/Scheduler/internal/models"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

// Export builds a single-VEVENT calendar for the packet. The timestamps are
// emitted in the packet's zone so the wall-clock times survive a round trip
// through other calendar clients.
func Export(e models.Event) (*ical.Calendar, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", e.Timezone, models.ErrInvalidArgument)
	}

	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, GenerateUID())
	ve.Props.SetText(ical.PropSummary, e.Summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, localize(e.Begin, loc))
	ve.Props.SetDateTime(ical.PropDateTimeEnd, localize(e.End, loc))
	if e.Location != "" {
		ve.Props.SetText(ical.PropLocation, e.Location)
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//scheduler//EN")
	cal.Children = append(cal.Children, ve)
	return cal, nil
}

// Write encodes the packet as an iCalendar stream.
func Write(w io.Writer, e models.Event) error {
	cal, err := Export(e)
	if err != nil {
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	return nil
}

// GenerateUID creates a new unique identifier for an exported event.
func GenerateUID() string {
	return uuid.New().String()
}

// localize reinterprets t's wall clock in loc without shifting it.
func localize(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}
