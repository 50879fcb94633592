// Package enrollment talks to the external enrollments microservice.
// The service owns registration and presence data; this client only
// fetches the attendance list for one event, authenticating with the
// calling user's own bearer token (the issuer never holds credentials of
// its own, it acts on the caller's behalf downstream).
package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Attendance is one entry of the attendance list.  Status is "present"
// for users who actually showed up.
type Attendance struct {
	UserID uint64 `json:"user_id"`
	Status string `json:"status"`
}

var (
	// ErrUnavailable covers network failures, timeouts and non-2xx
	// responses.  Handlers translate it into HTTP 502.
	ErrUnavailable = errors.New("enrollments service unavailable")
	// ErrBadResponse is a 2xx response whose body is not a JSON array.
	// The finish workflow degrades to an empty attendance list on it.
	ErrBadResponse = errors.New("enrollments service returned an unexpected body")
)

// Client fetches attendance over HTTP with a bounded timeout.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// NewClient builds a Client for the given base URL.  Outbound calls time
// out after 10 seconds; exceeding it surfaces as ErrUnavailable.
func NewClient(baseURL string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger.With().Str("component", "enrollments").Logger(),
	}
}

// Attended returns the entries of the event's attendance list whose
// status is exactly "present".  The caller's bearer token is forwarded
// verbatim.  Entries that are not well-formed objects (bare strings,
// numbers) are logged and skipped; they count toward neither total.
func (c *Client) Attended(ctx context.Context, eventID uint64, token string) ([]Attendance, error) {
	url := fmt.Sprintf("%s/events/%d", c.baseURL, eventID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, ErrBadResponse
	}

	attended := make([]Attendance, 0, len(raw))
	for _, entry := range raw {
		var a Attendance
		if err := json.Unmarshal(entry, &a); err != nil {
			c.logger.Warn().
				Uint64("event_id", eventID).
				Str("entry", string(entry)).
				Msg("skipping malformed attendance entry")
			continue
		}
		if a.Status == "present" {
			attended = append(attended, a)
		}
	}
	return attended, nil
}
