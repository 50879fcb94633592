// Package utils provides payload validation helpers for the HTTP layer.
// Validation collects every problem into a list instead of failing on the
// first one, so a 422 response can name all offending fields at once.
package utils

import (
	"fmt"
	"time"

	"github.com/iliyamo/event-certification/internal/repository"
)

// EventInput is the JSON body of event create and update requests.
// Pointer fields distinguish "absent" from "empty", which matters for
// partial updates.
type EventInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"`
	StartsAt    *string `json:"starts_at"`
	EndsAt      *string `json:"ends_at"`
}

// EventFields is a fully validated create payload.
type EventFields struct {
	Title       string
	Description *string
	Location    *string
	StartsAt    time.Time
	EndsAt      time.Time
}

// timestampLayouts are the accepted ISO-8601 shapes, with and without a
// zone designator and fractional seconds.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp string.  Values without a
// zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("not an ISO-8601 timestamp: %q", s)
}

// ValidateEventCreate checks a create payload.  On success the returned
// problem list is empty; otherwise it names every violated constraint.
func ValidateEventCreate(in EventInput) (*EventFields, []string) {
	problems := make([]string, 0)

	var fields EventFields
	if in.Title == nil {
		problems = append(problems, "title is required")
	} else if l := len(*in.Title); l < 1 || l > 255 {
		problems = append(problems, "title must be between 1 and 255 characters")
	} else {
		fields.Title = *in.Title
	}

	fields.Description = in.Description

	if in.Location != nil {
		if len(*in.Location) > 255 {
			problems = append(problems, "location must be at most 255 characters")
		} else {
			fields.Location = in.Location
		}
	}

	if in.StartsAt == nil {
		problems = append(problems, "starts_at is required")
	} else if t, err := ParseTimestamp(*in.StartsAt); err != nil {
		problems = append(problems, "starts_at must be an ISO-8601 timestamp")
	} else {
		fields.StartsAt = t
	}

	if in.EndsAt == nil {
		problems = append(problems, "ends_at is required")
	} else if t, err := ParseTimestamp(*in.EndsAt); err != nil {
		problems = append(problems, "ends_at must be an ISO-8601 timestamp")
	} else {
		fields.EndsAt = t
	}

	if len(problems) > 0 {
		return nil, problems
	}
	return &fields, nil
}

// ValidateEventUpdate checks a partial update payload.  Only fields that
// are present are validated and included in the patch.
func ValidateEventUpdate(in EventInput) (*repository.EventPatch, []string) {
	problems := make([]string, 0)
	var patch repository.EventPatch

	if in.Title != nil {
		if l := len(*in.Title); l < 1 || l > 255 {
			problems = append(problems, "title must be between 1 and 255 characters")
		} else {
			patch.Title = in.Title
		}
	}
	if in.Description != nil {
		patch.Description = in.Description
	}
	if in.Location != nil {
		if len(*in.Location) > 255 {
			problems = append(problems, "location must be at most 255 characters")
		} else {
			patch.Location = in.Location
		}
	}
	if in.StartsAt != nil {
		if t, err := ParseTimestamp(*in.StartsAt); err != nil {
			problems = append(problems, "starts_at must be an ISO-8601 timestamp")
		} else {
			patch.StartsAt = &t
		}
	}
	if in.EndsAt != nil {
		if t, err := ParseTimestamp(*in.EndsAt); err != nil {
			problems = append(problems, "ends_at must be an ISO-8601 timestamp")
		} else {
			patch.EndsAt = &t
		}
	}

	if len(problems) > 0 {
		return nil, problems
	}
	return &patch, nil
}
