package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-certification/internal/enrollment"
	"github.com/iliyamo/event-certification/internal/model"
	"github.com/iliyamo/event-certification/internal/repository"
	"github.com/iliyamo/event-certification/internal/service"
)

type fakeEventStore struct {
	events map[uint64]*model.Event
	nextID uint64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: map[uint64]*model.Event{}, nextID: 1}
}

func (f *fakeEventStore) List(context.Context) ([]model.Event, error) {
	out := make([]model.Event, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, *ev)
	}
	return out, nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id uint64) (*model.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return ev, nil
}

func (f *fakeEventStore) Create(_ context.Context, ev *model.Event) error {
	ev.ID = f.nextID
	f.nextID++
	f.events[ev.ID] = ev
	return nil
}

func (f *fakeEventStore) Update(_ context.Context, id uint64, patch repository.EventPatch) (*model.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		ev.Title = *patch.Title
	}
	if patch.Description != nil {
		ev.Description = patch.Description
	}
	if patch.Location != nil {
		ev.Location = patch.Location
	}
	if patch.StartsAt != nil {
		ev.StartsAt = *patch.StartsAt
	}
	if patch.EndsAt != nil {
		ev.EndsAt = *patch.EndsAt
	}
	return ev, nil
}

func (f *fakeEventStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

type fakeFinisher struct {
	result *service.FinishResult
	err    error
	token  string
}

func (f *fakeFinisher) FinishEvent(_ context.Context, _ uint64, token string) (*service.FinishResult, error) {
	f.token = token
	return f.result, f.err
}

func request(t *testing.T, h echo.HandlerFunc, method, target, body string, params map[string]string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	return rec, h(c)
}

func TestEventCreate(t *testing.T) {
	store := newFakeEventStore()
	h := NewEventHandler(store, &fakeFinisher{}, nil)

	body := `{"title":"Go Meetup","starts_at":"2025-06-01T18:00:00Z","ends_at":"2025-06-01T20:00:00Z"}`
	rec, err := request(t, h.Create, http.MethodPost, "/events", body, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var got model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(1), got.ID)
	assert.Equal(t, "Go Meetup", got.Title)
	assert.False(t, got.Finished)
	assert.Equal(t, time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC), got.StartsAt)
}

func TestEventCreateInvalidPayload(t *testing.T) {
	h := NewEventHandler(newFakeEventStore(), &fakeFinisher{}, nil)

	_, err := request(t, h.Create, http.MethodPost, "/events", `{"title":""}`, nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Problems, "title must be between 1 and 255 characters")
	assert.Contains(t, verr.Problems, "starts_at is required")
}

func TestEventCreateMalformedJSON(t *testing.T) {
	h := NewEventHandler(newFakeEventStore(), &fakeFinisher{}, nil)

	_, err := request(t, h.Create, http.MethodPost, "/events", `{not json`, nil)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestEventGetUnknown(t *testing.T) {
	h := NewEventHandler(newFakeEventStore(), &fakeFinisher{}, nil)

	_, err := request(t, h.Get, http.MethodGet, "/events/99", "", map[string]string{"id": "99"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestEventGetNonNumericID(t *testing.T) {
	h := NewEventHandler(newFakeEventStore(), &fakeFinisher{}, nil)

	_, err := request(t, h.Get, http.MethodGet, "/events/abc", "", map[string]string{"id": "abc"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestEventUpdatePartial(t *testing.T) {
	store := newFakeEventStore()
	store.events[1] = &model.Event{ID: 1, Title: "Old", StartsAt: time.Now(), EndsAt: time.Now()}
	store.nextID = 2
	h := NewEventHandler(store, &fakeFinisher{}, nil)

	rec, err := request(t, h.Update, http.MethodPut, "/events/1", `{"title":"New"}`, map[string]string{"id": "1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New", store.events[1].Title)
}

func TestEventDelete(t *testing.T) {
	store := newFakeEventStore()
	store.events[1] = &model.Event{ID: 1, Title: "Doomed"}
	h := NewEventHandler(store, &fakeFinisher{}, nil)

	rec, err := request(t, h.Delete, http.MethodDelete, "/events/1", "", map[string]string{"id": "1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, store.events)

	_, err = request(t, h.Delete, http.MethodDelete, "/events/1", "", map[string]string{"id": "1"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestEventFinish(t *testing.T) {
	store := newFakeEventStore()
	store.events[5] = &model.Event{ID: 5, Title: "GopherCon"}
	fin := &fakeFinisher{result: &service.FinishResult{
		EventID:               5,
		CertificatesGenerated: 2,
		TotalAttended:         3,
	}}
	h := NewEventHandler(store, fin, nil)

	rec, err := request(t, h.Finish, http.MethodPost, "/events/5/finish", "", map[string]string{"id": "5"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(5), got["event_id"])
	assert.Equal(t, float64(2), got["certificates_generated"])
	assert.Equal(t, float64(3), got["total_attended"])
	assert.Equal(t, "finish workflow completed", got["message"])
}

func TestEventFinishUnknown(t *testing.T) {
	h := NewEventHandler(newFakeEventStore(), &fakeFinisher{err: repository.ErrNotFound}, nil)

	_, err := request(t, h.Finish, http.MethodPost, "/events/99/finish", "", map[string]string{"id": "99"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestEventFinishEnrollmentsDown(t *testing.T) {
	h := NewEventHandler(newFakeEventStore(), &fakeFinisher{err: enrollment.ErrUnavailable}, nil)

	_, err := request(t, h.Finish, http.MethodPost, "/events/5/finish", "", map[string]string{"id": "5"})
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadGateway, he.Code)
}
