package google

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/JaredDyreson/Scheduler/internal/models"
	"google.golang.org/api/calendar/v3"
)

// eventTime mirrors the calendar API's nested start/end shape.
type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// submitBody is the event-creation payload. Field order fixes the key order
// on the wire: summary, start, end, location.
type submitBody struct {
	Summary  string    `json:"summary"`
	Start    eventTime `json:"start"`
	End      eventTime `json:"end"`
	Location string    `json:"location"`
}

// SubmissionBody renders the packet as the JSON body expected by the
// calendar API's event-creation endpoint. The output is pretty-printed with
// four-space indentation and a stable key order so two renderings of the
// same packet diff cleanly.
func SubmissionBody(e models.Event) ([]byte, error) {
	start, end, err := e.WireInterval()
	if err != nil {
		return nil, fmt.Errorf("failed to format event interval: %w", err)
	}
	body := submitBody{
		Summary:  e.Summary,
		Start:    eventTime{DateTime: start, TimeZone: e.Timezone},
		End:      eventTime{DateTime: end, TimeZone: e.Timezone},
		Location: e.Location,
	}
	out, err := json.MarshalIndent(body, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal submission body: %w", err)
	}
	return out, nil
}

// APIEvent builds the same payload as a calendar/v3 value, for callers that
// hold a live calendar service. Transmission stays with them; this package
// never performs I/O.
func APIEvent(e models.Event) (*calendar.Event, error) {
	start, end, err := e.WireInterval()
	if err != nil {
		return nil, fmt.Errorf("failed to format event interval: %w", err)
	}
	return &calendar.Event{
		Summary:  e.Summary,
		Start:    &calendar.EventDateTime{DateTime: start, TimeZone: e.Timezone},
		End:      &calendar.EventDateTime{DateTime: end, TimeZone: e.Timezone},
		Location: e.Location,
	}, nil
}

// FromAPIEvent converts a calendar API event back into a packet. The API
// reports RFC 3339 datetimes; the offset suffix is dropped before parsing so
// the stored times stay wall-clock.
func FromAPIEvent(item *calendar.Event, opts models.Options) (models.Event, error) {
	if item == nil || item.Start == nil || item.End == nil {
		return models.Event{}, fmt.Errorf("api event is missing start or end: %w", models.ErrInvalidArgument)
	}
	if item.Start.TimeZone != "" {
		opts.Timezone = item.Start.TimeZone
	}
	if item.Location != "" {
		opts.Location = item.Location
	}
	return models.FromStrings(stripOffset(item.Start.DateTime), stripOffset(item.End.DateTime), item.Summary, opts)
}

// stripOffset removes a trailing Z or ±HH:MM offset from an RFC 3339 string.
func stripOffset(s string) string {
	if strings.HasSuffix(s, "Z") {
		return strings.TrimSuffix(s, "Z")
	}
	if len(s) > 6 && (s[len(s)-6] == '+' || s[len(s)-6] == '-') {
		return s[:len(s)-6]
	}
	return s
}
