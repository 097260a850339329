package taskapi_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmgmt/internal/auth"
	"taskmgmt/internal/backend/taskapi"
	"taskmgmt/internal/service"
)

// recordedRequest captures what the server saw.
type recordedRequest struct {
	Method      string
	Path        string
	RawQuery    string
	AuthHeader  string
	ContentType string
	Body        service.TaskRequest
}

// testServer serves canned responses and records requests.
type testServer struct {
	mu       sync.Mutex
	requests []recordedRequest
	status   int
	payload  any
}

func newTestServer(status int, payload any) (*testServer, *httptest.Server) {
	ts := &testServer{status: status, payload: payload}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			RawQuery:    r.URL.RawQuery,
			AuthHeader:  r.Header.Get("Authorization"),
			ContentType: r.Header.Get("Content-Type"),
		}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		ts.mu.Lock()
		ts.requests = append(ts.requests, rec)
		ts.mu.Unlock()

		w.WriteHeader(ts.status)
		if ts.payload != nil {
			_ = json.NewEncoder(w).Encode(ts.payload)
		}
	}))
	return ts, srv
}

func (ts *testServer) last(t *testing.T) recordedRequest {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	require.NotEmpty(t, ts.requests)
	return ts.requests[len(ts.requests)-1]
}

func (ts *testServer) count() int {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return len(ts.requests)
}

func sampleTask() service.Task {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	return service.Task{
		ID:        "t1",
		Email:     "user@example.com",
		Details:   "buy milk",
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestListTasksInjectsAuthHeader(t *testing.T) {
	ts, srv := newTestServer(http.StatusOK, []service.Task{sampleTask()})
	defer srv.Close()

	c := taskapi.New(srv.URL, auth.Static("tok-123"), nil, nil)
	tasks, err := c.ListTasks(context.Background(), "user+test@example.com")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, sampleTask(), tasks[0])

	req := ts.last(t)
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "Bearer tok-123", req.AuthHeader)
	assert.Equal(t, "email=user%2Btest%40example.com", req.RawQuery)
	assert.Empty(t, req.ContentType, "no content type without a body")
}

func TestCreateTaskSendsJSONBody(t *testing.T) {
	ts, srv := newTestServer(http.StatusCreated, sampleTask())
	defer srv.Close()

	c := taskapi.New(srv.URL, auth.Static("tok"), nil, nil)
	task, err := c.CreateTask(context.Background(), "user@example.com", "buy milk")
	require.NoError(t, err)
	assert.Equal(t, sampleTask(), task)

	req := ts.last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Equal(t, service.TaskRequest{Email: "user@example.com", Details: "buy milk"}, req.Body)
}

func TestUpdateTaskTargetsTaskPath(t *testing.T) {
	ts, srv := newTestServer(http.StatusOK, sampleTask())
	defer srv.Close()

	c := taskapi.New(srv.URL, auth.Static("tok"), nil, nil)
	_, err := c.UpdateTask(context.Background(), "t1", "user@example.com", "new details")
	require.NoError(t, err)

	req := ts.last(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/t1", req.Path)
	assert.Equal(t, "application/json", req.ContentType)
	assert.Equal(t, "new details", req.Body.Details)
}

func TestDeleteTaskIgnoresBody(t *testing.T) {
	ts, srv := newTestServer(http.StatusNoContent, nil)
	defer srv.Close()

	c := taskapi.New(srv.URL, auth.Static("tok"), nil, nil)
	require.NoError(t, c.DeleteTask(context.Background(), "t1"))

	req := ts.last(t)
	assert.Equal(t, http.MethodDelete, req.Method)
	assert.Equal(t, "/t1", req.Path)
	assert.Empty(t, req.ContentType)
}

func TestNon2xxBecomesRemoteError(t *testing.T) {
	_, srv := newTestServer(http.StatusInternalServerError, nil)
	defer srv.Close()

	c := taskapi.New(srv.URL, auth.Static("tok"), nil, nil)
	_, err := c.ListTasks(context.Background(), "user@example.com")

	var remote *service.RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusInternalServerError, remote.Status)
}

func TestTransportFailureBecomesNetworkError(t *testing.T) {
	_, srv := newTestServer(http.StatusOK, nil)
	srv.Close() // nothing listening anymore

	c := taskapi.New(srv.URL, auth.Static("tok"), nil, nil)
	_, err := c.ListTasks(context.Background(), "user@example.com")

	var network *service.NetworkError
	require.ErrorAs(t, err, &network)
}

func TestNilProviderFailsBeforeNetwork(t *testing.T) {
	ts, srv := newTestServer(http.StatusOK, nil)
	defer srv.Close()

	c := taskapi.New(srv.URL, nil, nil, nil)
	_, err := c.ListTasks(context.Background(), "user@example.com")

	require.ErrorIs(t, err, service.ErrAuthNotReady)
	assert.Equal(t, 0, ts.count(), "no request leaves the client without auth")
}

func TestEmptyTokenIsUnavailable(t *testing.T) {
	ts, srv := newTestServer(http.StatusOK, nil)
	defer srv.Close()

	c := taskapi.New(srv.URL, auth.Static(""), nil, nil)
	_, err := c.ListTasks(context.Background(), "user@example.com")

	require.ErrorIs(t, err, service.ErrAuthTokenUnavailable)
	assert.Equal(t, 0, ts.count())
}

type failingProvider struct{}

func (failingProvider) Ready() bool { return true }
func (failingProvider) Token(ctx context.Context) (string, error) {
	return "", errors.New("provider exploded")
}

func TestProviderFailureIsUnavailable(t *testing.T) {
	_, srv := newTestServer(http.StatusOK, nil)
	defer srv.Close()

	c := taskapi.New(srv.URL, failingProvider{}, nil, nil)
	_, err := c.ListTasks(context.Background(), "user@example.com")

	require.ErrorIs(t, err, service.ErrAuthTokenUnavailable)
}

func TestProbe(t *testing.T) {
	ts, srv := newTestServer(http.StatusOK, nil)
	defer srv.Close()

	require.NoError(t, taskapi.Probe(context.Background(), srv.URL, nil))
	req := ts.last(t)
	assert.Equal(t, "/health-check", req.Path)
	assert.Empty(t, req.AuthHeader, "probe is unauthenticated")
}

func TestProbeFailure(t *testing.T) {
	_, srv := newTestServer(http.StatusServiceUnavailable, nil)
	defer srv.Close()

	var remote *service.RemoteError
	require.ErrorAs(t, taskapi.Probe(context.Background(), srv.URL, nil), &remote)
	assert.Equal(t, http.StatusServiceUnavailable, remote.Status)

	srv.Close()
	var network *service.NetworkError
	require.ErrorAs(t, taskapi.Probe(context.Background(), srv.URL, nil), &network)
}
