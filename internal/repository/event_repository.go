package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/event-certification/internal/model"
)

// EventRepo provides CRUD operations for events.  All timestamp fields
// are stored in UTC.
type EventRepo struct{ DB *sql.DB }

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// EventPatch carries the fields of a partial update.  Nil pointers leave
// the corresponding column untouched.
type EventPatch struct {
	Title       *string
	Description *string
	Location    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Finished    *bool
}

const eventColumns = "id, title, description, location, starts_at, ends_at, finished"

func scanEvent(row interface{ Scan(...interface{}) error }) (*model.Event, error) {
	var ev model.Event
	var description, location sql.NullString
	err := row.Scan(&ev.ID, &ev.Title, &description, &location, &ev.StartsAt, &ev.EndsAt, &ev.Finished)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		d := description.String
		ev.Description = &d
	}
	if location.Valid {
		l := location.String
		ev.Location = &l
	}
	return &ev, nil
}

// List returns all events ordered by id.  When no events exist an empty
// slice is returned, never nil, so the handler serializes [] and not null.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+eventColumns+" FROM events ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	ev, err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return ev, err
}

// Create inserts a new event and populates the generated ID.  Finished
// always starts false regardless of the input.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO events (title, description, location, starts_at, ends_at, finished) VALUES (?,?,?,?,?,0)",
		ev.Title, ev.Description, ev.Location, ev.StartsAt.UTC(), ev.EndsAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	ev.Finished = false
	return nil
}

// Update applies a partial patch and returns the updated row.  ErrNotFound
// is returned when the event does not exist; a patch with no fields set is
// a no-op read.
func (r *EventRepo) Update(ctx context.Context, id uint64, patch EventPatch) (*model.Event, error) {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 7)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *patch.Location)
	}
	if patch.StartsAt != nil {
		sets = append(sets, "starts_at = ?")
		args = append(args, patch.StartsAt.UTC())
	}
	if patch.EndsAt != nil {
		sets = append(sets, "ends_at = ?")
		args = append(args, patch.EndsAt.UTC())
	}
	if patch.Finished != nil {
		sets = append(sets, "finished = ?")
		args = append(args, *patch.Finished)
	}
	if len(sets) > 0 {
		args = append(args, id)
		res, err := r.DB.ExecContext(ctx,
			"UPDATE events SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
		if err != nil {
			return nil, err
		}
		// RowsAffected is 0 both for a missing row and for an identical
		// update, so existence is settled by the read below.
		_ = res
	}
	return r.GetByID(ctx, id)
}

// MarkFinished sets finished = 1 unconditionally.  Re-finishing an
// already finished event is allowed; the flag never reverts.
func (r *EventRepo) MarkFinished(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE events SET finished = 1 WHERE id = ?", id)
	return err
}

// Delete removes an event, returning ErrNotFound when no row matched.
func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
