package dvmn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

var (
	ErrUnknownStatus = errors.New("unknown response status")
	ErrNoAttempts    = errors.New("found response without attempts")
	ErrMissingCursor = errors.New("response without next timestamp")
)

type LongPollClient struct {
	http  HTTP
	url   string
	token string
}

func New(http HTTP, url, token string) Client {
	if url == "" {
		url = DefaultURL
	}

	return LongPollClient{
		http:  http,
		url:   url,
		token: token,
	}
}

func (c LongPollClient) URL() string {
	return c.url
}

// LongPoll blocks until the server reports new reviews or its own timeout elapses
func (c LongPollClient) LongPoll(ctx context.Context, cursor Cursor) (*Response, error) {
	req, err := c.newRequest(ctx, cursor)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}

	return decode(resp.StatusCode, b)
}

func (c LongPollClient) newRequest(ctx context.Context, cursor Cursor) (*http.Request, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, fmt.Errorf("invalid long polling url: %w", err)
	}

	if !cursor.IsZero() {
		q := u.Query()
		q.Set("timestamp", cursor.String())
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Authorization", "Token "+c.token)
	return req, nil
}

// wire mirrors Response with pointers so a missing cursor can be told apart from zero
type wire struct {
	Status               Status    `json:"status"`
	TimestampToRequest   *float64  `json:"timestamp_to_request"`
	LastAttemptTimestamp *float64  `json:"last_attempt_timestamp"`
	NewAttempts          []Attempt `json:"new_attempts"`
}

func decode(statusCode int, b []byte) (*Response, error) {
	var w wire
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, &ProtocolError{StatusCode: statusCode, Err: err}
	}

	switch w.Status {
	case StatusTimeout:
		if w.TimestampToRequest == nil {
			return nil, &ProtocolError{StatusCode: statusCode, Err: fmt.Errorf("%w: timestamp_to_request", ErrMissingCursor)}
		}
		return &Response{
			Status:             w.Status,
			TimestampToRequest: *w.TimestampToRequest,
		}, nil
	case StatusFound:
		if w.LastAttemptTimestamp == nil {
			return nil, &ProtocolError{StatusCode: statusCode, Err: fmt.Errorf("%w: last_attempt_timestamp", ErrMissingCursor)}
		}
		if len(w.NewAttempts) == 0 {
			return nil, &ProtocolError{StatusCode: statusCode, Err: ErrNoAttempts}
		}
		return &Response{
			Status:               w.Status,
			LastAttemptTimestamp: *w.LastAttemptTimestamp,
			NewAttempts:          w.NewAttempts,
		}, nil
	}

	return nil, &ProtocolError{StatusCode: statusCode, Err: fmt.Errorf("%w: %q", ErrUnknownStatus, w.Status)}
}
