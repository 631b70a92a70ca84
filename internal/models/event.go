package models

import (
	"fmt"
	"regexp"
	"time"
)

// Process-wide packet defaults. They are read-only; callers override them
// per packet through Options, never by mutating shared state.
const (
	DefaultSummary  = "Jared's Work"
	DefaultLocation = "800 N State College Blvd, Fullerton, CA 92831"
	DefaultTimezone = "America/Los_Angeles"
)

// TimeLayout is the fixed wall-clock pattern used by every string-based
// construction path and by the wire format.
const TimeLayout = "2006-01-02T15:04:05"

// offsetPattern splits a raw ±HHMM offset into its hour and minute groups.
var offsetPattern = regexp.MustCompile(`^([+-]\d{2})(\d{2})$`)

// Options carries the per-packet settings a caller may override at
// construction time. Empty string fields fall back to the package defaults.
type Options struct {
	Summary  string
	Location string
	Timezone string

	// SameZoneAsCreator records whether the event is assumed to share the
	// creator's UTC offset. It is captured for forward compatibility and is
	// not consulted by any operation yet.
	SameZoneAsCreator bool

	// StrictOrdering switches Before from the legacy always-false answer to
	// the pairwise strict comparison (see StrictlyBefore).
	StrictOrdering bool

	// SplitOffsets makes the wire formatter resolve each timestamp's UTC
	// offset independently instead of stamping the begin offset on both.
	SplitOffsets bool
}

// Event represents one scheduled calendar occurrence.
// It is an immutable value: constructed once, never mutated.
type Event struct {
	Begin   time.Time // wall-clock start; no zone semantics at storage time
	End     time.Time // wall-clock end
	Summary string
	// Timezone is the IANA zone id consulted only when computing wire offsets.
	Timezone          string
	SameZoneAsCreator bool
	Location          string

	strictOrdering bool
	splitOffsets   bool
}

// New builds an Event from a pair of timestamps. Both must be non-zero;
// there is deliberately no Begin <= End validation, matching the historical
// contract. Empty option fields take the package defaults.
func New(begin, end time.Time, opts Options) (Event, error) {
	if begin.IsZero() || end.IsZero() {
		return Event{}, fmt.Errorf("event interval needs both a begin and an end time: %w", ErrInvalidArgument)
	}
	if opts.Summary == "" {
		opts.Summary = DefaultSummary
	}
	if opts.Location == "" {
		opts.Location = DefaultLocation
	}
	if opts.Timezone == "" {
		opts.Timezone = DefaultTimezone
	}
	return Event{
		Begin:             begin,
		End:               end,
		Summary:           opts.Summary,
		Timezone:          opts.Timezone,
		SameZoneAsCreator: opts.SameZoneAsCreator,
		Location:          opts.Location,
		strictOrdering:    opts.StrictOrdering,
		splitOffsets:      opts.SplitOffsets,
	}, nil
}

// FromStrings builds an Event from two date strings in TimeLayout form.
// A non-empty summary overrides opts.Summary. Every other construction path
// normalizes through here so validation and error semantics stay shared.
func FromStrings(start, end, summary string, opts Options) (Event, error) {
	begin, err := time.Parse(TimeLayout, start)
	if err != nil {
		return Event{}, fmt.Errorf("start %q does not match %s: %w", start, TimeLayout, ErrParse)
	}
	finish, err := time.Parse(TimeLayout, end)
	if err != nil {
		return Event{}, fmt.Errorf("end %q does not match %s: %w", end, TimeLayout, ErrParse)
	}
	if summary != "" {
		opts.Summary = summary
	}
	return New(begin, finish, opts)
}

// FromMapping builds an Event from a flat mapping with string values under
// the keys "start", "end" and "summary". Any other keys are ignored.
func FromMapping(body map[string]any, opts Options) (Event, error) {
	if body == nil {
		return Event{}, fmt.Errorf("mapping is nil: %w", ErrInvalidArgument)
	}
	start, err := stringField(body, "start")
	if err != nil {
		return Event{}, err
	}
	end, err := stringField(body, "end")
	if err != nil {
		return Event{}, err
	}
	summary, err := stringField(body, "summary")
	if err != nil {
		return Event{}, err
	}
	return FromStrings(start, end, summary, opts)
}

// FromFreeBusy builds an Event from the calendar API's free/busy response
// shape, where start and end are objects carrying a nested dateTime field.
func FromFreeBusy(body map[string]any, opts Options) (Event, error) {
	if body == nil {
		return Event{}, fmt.Errorf("free/busy response is nil: %w", ErrInvalidArgument)
	}
	start, err := nestedDateTime(body, "start")
	if err != nil {
		return Event{}, err
	}
	end, err := nestedDateTime(body, "end")
	if err != nil {
		return Event{}, err
	}
	summary, err := stringField(body, "summary")
	if err != nil {
		return Event{}, err
	}
	return FromStrings(start, end, summary, opts)
}

func stringField(body map[string]any, key string) (string, error) {
	v, ok := body[key]
	if !ok {
		return "", fmt.Errorf("mapping is missing %q: %w", key, ErrInvalidArgument)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("mapping field %q is %T, want string: %w", key, v, ErrInvalidArgument)
	}
	return s, nil
}

func nestedDateTime(body map[string]any, key string) (string, error) {
	v, ok := body[key]
	if !ok {
		return "", fmt.Errorf("free/busy response is missing %q: %w", key, ErrInvalidArgument)
	}
	inner, ok := v.(map[string]any)
	if !ok {
		return "", fmt.Errorf("free/busy field %q is %T, want an object: %w", key, v, ErrInvalidArgument)
	}
	return stringField(inner, "dateTime")
}

// Equals reports whether rhs is an Event with the same begin, end and
// summary. Comparing against anything that is not an Event is an error,
// never a false answer.
func (e Event) Equals(rhs any) (bool, error) {
	o, ok := rhs.(Event)
	if !ok {
		return false, fmt.Errorf("cannot compare Event to %T: %w", rhs, ErrTypeMismatch)
	}
	return e.Begin.Equal(o.Begin) && e.End.Equal(o.End) && e.Summary == o.Summary, nil
}

// Before reports whether e is earlier than rhs. The legacy contract answers
// false for every pair of Events; packets built with Options.StrictOrdering
// use the pairwise strict comparison instead.
func (e Event) Before(rhs any) (bool, error) {
	o, ok := rhs.(Event)
	if !ok {
		return false, fmt.Errorf("cannot compare Event to %T: %w", rhs, ErrTypeMismatch)
	}
	if e.strictOrdering {
		return e.StrictlyBefore(o), nil
	}
	return false, nil
}

// StrictlyBefore reports whether both of e's endpoints fall strictly before
// the corresponding endpoints of rhs. This is the opt-in corrected ordering.
func (e Event) StrictlyBefore(rhs Event) bool {
	return e.Begin.Before(rhs.Begin) && e.End.Before(rhs.End)
}

// UTCOffset resolves the packet zone's UTC offset on t's calendar date and
// returns it in ±HH:MM form. The wall clock is localized into the zone first
// so daylight-saving transitions are honored.
func (e Event) UTCOffset(t time.Time) (string, error) {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return "", fmt.Errorf("unknown timezone %q: %w", e.Timezone, ErrInvalidArgument)
	}
	localized := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	raw := localized.Format("-0700")
	m := offsetPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("failed to parse UTC offset %q: %w", raw, ErrFormat)
	}
	return m[1] + ":" + m[2], nil
}

// WireInterval renders begin and end in TimeLayout form with a UTC offset
// suffix. One offset, resolved from Begin, is stamped on both timestamps;
// packets built with Options.SplitOffsets resolve each one independently.
func (e Event) WireInterval() (start, end string, err error) {
	beginOffset, err := e.UTCOffset(e.Begin)
	if err != nil {
		return "", "", err
	}
	endOffset := beginOffset
	if e.splitOffsets {
		if endOffset, err = e.UTCOffset(e.End); err != nil {
			return "", "", err
		}
	}
	return e.Begin.Format(TimeLayout) + beginOffset, e.End.Format(TimeLayout) + endOffset, nil
}

// Elapsed returns the length of the event.
func (e Event) Elapsed() time.Duration {
	return e.End.Sub(e.Begin)
}

// ElapsedSeconds returns the length of the event in whole seconds,
// truncating any fractional part.
func (e Event) ElapsedSeconds() int64 {
	return int64(e.Elapsed() / time.Second)
}

// Prettify formats t like "Monday January 02, 15:30".
func (e Event) Prettify(t time.Time) string {
	return t.Format("Monday January 02, 15:04")
}

// String is a multi-line diagnostic representation. It is not a wire
// contract; use WireInterval or the google package for those.
func (e Event) String() string {
	return fmt.Sprintf("Summary: %s\nStart: %s\nEnd: %s", e.Summary, e.Prettify(e.Begin), e.End)
}
