package dvmn

import (
	"context"
	"net/http"
	"strconv"
)

// DefaultURL is the dvmn.org long polling endpoint
const DefaultURL = "https://dvmn.org/api/long_polling/"

// Client describes how to wait for new lesson reviews
//
//go:generate mockgen -destination=mocks/mock_client.go -package=mocks github.com/kdwils/dvmnbot/pkg/dvmn Client
type Client interface {
	LongPoll(ctx context.Context, cursor Cursor) (*Response, error)
}

// HTTP describes how to make an http request. This interface serves the purpose of providing a way to mock http requests.
//
//go:generate mockgen -destination=mocks/mock_http.go -package=mocks github.com/kdwils/dvmnbot/pkg/dvmn HTTP
type HTTP interface {
	Do(*http.Request) (*http.Response, error)
}

// Status discriminates the two response shapes
type Status string

const (
	StatusTimeout Status = "timeout"
	StatusFound   Status = "found"
)

// Response is the body returned by the long polling endpoint. Which fields are set depends on Status.
type Response struct {
	Status Status `json:"status"`

	// set when Status is timeout
	TimestampToRequest float64 `json:"timestamp_to_request"`

	// set when Status is found
	LastAttemptTimestamp float64   `json:"last_attempt_timestamp"`
	NewAttempts          []Attempt `json:"new_attempts"`
}

// NextCursor returns the cursor the server asked to be used on the next request
func (r *Response) NextCursor() Cursor {
	switch r.Status {
	case StatusTimeout:
		return NewCursor(r.TimestampToRequest)
	case StatusFound:
		return NewCursor(r.LastAttemptTimestamp)
	}

	return Cursor{}
}

// Attempt is a single reviewed lesson submission
type Attempt struct {
	LessonTitle string  `json:"lesson_title"`
	IsNegative  bool    `json:"is_negative"`
	LessonURL   string  `json:"lesson_url"`
	SubmittedAt string  `json:"submitted_at,omitempty"`
	Timestamp   float64 `json:"timestamp,omitempty"`
}

// Cursor is a position in the review stream. The zero value points at the start of the stream.
type Cursor struct {
	timestamp float64
	valid     bool
}

// NewCursor wraps a timestamp returned by the server
func NewCursor(timestamp float64) Cursor {
	return Cursor{
		timestamp: timestamp,
		valid:     true,
	}
}

// IsZero reports whether the cursor points at the start of the stream
func (c Cursor) IsZero() bool {
	return !c.valid
}

func (c Cursor) Timestamp() float64 {
	return c.timestamp
}

func (c Cursor) String() string {
	if !c.valid {
		return ""
	}

	return strconv.FormatFloat(c.timestamp, 'f', -1, 64)
}
