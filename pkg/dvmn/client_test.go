package dvmn_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/kdwils/dvmnbot/pkg/dvmn"
	"github.com/kdwils/dvmnbot/pkg/dvmn/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestNew(t *testing.T) {
	t.Run("default url", func(t *testing.T) {
		got := dvmn.New(http.DefaultClient, "", "token")
		assert.Equal(t, dvmn.DefaultURL, got.(dvmn.LongPollClient).URL())
	})

	t.Run("custom url", func(t *testing.T) {
		got := dvmn.New(http.DefaultClient, "http://localhost/poll", "token")
		assert.Equal(t, "http://localhost/poll", got.(dvmn.LongPollClient).URL())
	})
}

func TestLongPollClient_Request(t *testing.T) {
	var gotAuth string
	var gotQuery []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = append(gotQuery, r.URL.RawQuery)
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"status":"timeout","timestamp_to_request":1700000000}`))
	}))
	defer srv.Close()

	client := dvmn.New(srv.Client(), srv.URL, "secret")

	_, err := client.LongPoll(context.Background(), dvmn.Cursor{})
	require.NoError(t, err)

	_, err = client.LongPoll(context.Background(), dvmn.NewCursor(1555493856.1474))
	require.NoError(t, err)

	assert.Equal(t, "Token secret", gotAuth)
	assert.Equal(t, []string{"", "timestamp=1555493856.1474"}, gotQuery)
}

func TestLongPollClient_LongPoll(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     *dvmn.Response
		wantNext dvmn.Cursor
	}{
		{
			name:   "timeout",
			status: http.StatusOK,
			body:   `{"status":"timeout","timestamp_to_request":1700000000}`,
			want: &dvmn.Response{
				Status:             dvmn.StatusTimeout,
				TimestampToRequest: 1700000000,
			},
			wantNext: dvmn.NewCursor(1700000000),
		},
		{
			name:   "found",
			status: http.StatusOK,
			body:   `{"status":"found","last_attempt_timestamp":1700000100,"new_attempts":[{"lesson_title":"Async Basics","is_negative":false,"lesson_url":"https://dvmn.org/l/1"}]}`,
			want: &dvmn.Response{
				Status:               dvmn.StatusFound,
				LastAttemptTimestamp: 1700000100,
				NewAttempts: []dvmn.Attempt{
					{
						LessonTitle: "Async Basics",
						IsNegative:  false,
						LessonURL:   "https://dvmn.org/l/1",
					},
				},
			},
			wantNext: dvmn.NewCursor(1700000100),
		},
		{
			name:   "found with extra attempt fields",
			status: http.StatusOK,
			body:   `{"status":"found","last_attempt_timestamp":1555609162.580245,"new_attempts":[{"submitted_at":"2019-04-18T20:39:22.580245+03:00","timestamp":1555609162.580245,"is_negative":true,"lesson_title":"Retries","lesson_url":"https://dvmn.org/l/2"}]}`,
			want: &dvmn.Response{
				Status:               dvmn.StatusFound,
				LastAttemptTimestamp: 1555609162.580245,
				NewAttempts: []dvmn.Attempt{
					{
						LessonTitle: "Retries",
						IsNegative:  true,
						LessonURL:   "https://dvmn.org/l/2",
						SubmittedAt: "2019-04-18T20:39:22.580245+03:00",
						Timestamp:   1555609162.580245,
					},
				},
			},
			wantNext: dvmn.NewCursor(1555609162.580245),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockHTTP := mocks.NewMockHTTP(ctrl)
			mockHTTP.EXPECT().Do(gomock.Any()).Return(response(tt.status, tt.body), nil)

			got, err := dvmn.New(mockHTTP, "", "token").LongPoll(context.Background(), dvmn.Cursor{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantNext, got.NextCursor())
		})
	}
}

func TestLongPollClient_LongPollErrors(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockHTTP := mocks.NewMockHTTP(ctrl)
		dialErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		mockHTTP.EXPECT().Do(gomock.Any()).Return(nil, dialErr)

		got, err := dvmn.New(mockHTTP, "", "token").LongPoll(context.Background(), dvmn.Cursor{})
		assert.Nil(t, got)

		var transportErr *dvmn.TransportError
		require.ErrorAs(t, err, &transportErr)
		assert.ErrorIs(t, err, dialErr)
	})

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantIs     error
	}{
		{
			name:       "non 2xx status",
			status:     http.StatusUnauthorized,
			body:       `{"detail":"Invalid token."}`,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "server error",
			status:     http.StatusBadGateway,
			body:       `<html>bad gateway</html>`,
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "invalid json",
			status:     http.StatusOK,
			body:       `{"status":`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown status",
			status:     http.StatusOK,
			body:       `{"status":"pending"}`,
			wantStatus: http.StatusOK,
			wantIs:     dvmn.ErrUnknownStatus,
		},
		{
			name:       "timeout without next timestamp",
			status:     http.StatusOK,
			body:       `{"status":"timeout"}`,
			wantStatus: http.StatusOK,
			wantIs:     dvmn.ErrMissingCursor,
		},
		{
			name:       "timeout with null next timestamp",
			status:     http.StatusOK,
			body:       `{"status":"timeout","timestamp_to_request":null}`,
			wantStatus: http.StatusOK,
			wantIs:     dvmn.ErrMissingCursor,
		},
		{
			name:       "found without last attempt timestamp",
			status:     http.StatusOK,
			body:       `{"status":"found","new_attempts":[{"lesson_title":"Async Basics","is_negative":false,"lesson_url":"https://dvmn.org/l/1"}]}`,
			wantStatus: http.StatusOK,
			wantIs:     dvmn.ErrMissingCursor,
		},
		{
			name:       "found without attempts",
			status:     http.StatusOK,
			body:       `{"status":"found","last_attempt_timestamp":1700000100,"new_attempts":[]}`,
			wantStatus: http.StatusOK,
			wantIs:     dvmn.ErrNoAttempts,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockHTTP := mocks.NewMockHTTP(ctrl)
			mockHTTP.EXPECT().Do(gomock.Any()).Return(response(tt.status, tt.body), nil)

			got, err := dvmn.New(mockHTTP, "", "token").LongPoll(context.Background(), dvmn.NewCursor(1))
			assert.Nil(t, got)

			var protocolErr *dvmn.ProtocolError
			require.ErrorAs(t, err, &protocolErr)
			assert.Equal(t, tt.wantStatus, protocolErr.StatusCode)
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}
