package enrollment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendedFiltersPresent(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"user_id": 1, "status": "present"},
			{"user_id": 2, "status": "absent"},
			{"user_id": 3, "status": "present"},
			"garbage entry"
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	attended, err := c.Attended(context.Background(), 5, "caller-token")
	require.NoError(t, err)

	assert.Equal(t, "Bearer caller-token", gotAuth)
	assert.Equal(t, "/events/5", gotPath)
	assert.Equal(t, []Attendance{
		{UserID: 1, Status: "present"},
		{UserID: 3, Status: "present"},
	}, attended)
}

func TestAttendedEmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	attended, err := c.Attended(context.Background(), 5, "tok")
	require.NoError(t, err)
	assert.Empty(t, attended)
}

func TestAttendedServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	_, err := c.Attended(context.Background(), 5, "tok")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAttendedUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // nothing listens any more

	c := NewClient(srv.URL, zerolog.Nop())
	_, err := c.Attended(context.Background(), 5, "tok")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestAttendedNonListBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": "surprise object"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	_, err := c.Attended(context.Background(), 5, "tok")
	assert.ErrorIs(t, err, ErrBadResponse)
}
