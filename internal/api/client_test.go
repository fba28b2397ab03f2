package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClientWithBaseURL(srv.URL+"/", nil)
	require.NoError(t, err)
	return c
}

func TestNewClientWithBaseURL(t *testing.T) {
	tcs := []struct {
		name    string
		baseURL string
		wantErr string
	}{
		{name: "http", baseURL: "http://localhost:8000"},
		{name: "https with path", baseURL: "https://engine.example.com/api"},
		{name: "missing scheme", baseURL: "localhost:8000", wantErr: "scheme"},
		{name: "missing host", baseURL: "http://", wantErr: "missing host"},
		{name: "unparseable", baseURL: "http://[::1", wantErr: "invalid API URL"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			c, err := NewClientWithBaseURL(tc.baseURL, nil)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, c)
		})
	}
}

func TestClient_Deploy(t *testing.T) {
	var got DeployRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/deploy", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "cli", r.Header.Get("X-Source"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"status":"Started"}`))
	})

	err := c.Deploy(t.Context(), DeployRequest{RepoURL: "https://github.com/acme/app", GitHubToken: "ghp_x"})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/app", got.RepoURL)
	assert.Equal(t, "ghp_x", got.GitHubToken)
}

func TestClient_Deploy_WireFormat(t *testing.T) {
	var raw map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
	})

	require.NoError(t, c.Deploy(t.Context(), DeployRequest{}))
	assert.Equal(t, map[string]any{"repo_url": "", "github_token": ""}, raw)
}

func TestClient_GetStatus(t *testing.T) {
	tcs := []struct {
		name     string
		body     string
		expected *StatusResponse
	}{
		{
			name:     "status with logs",
			body:     `{"status":"BUILDING","logs":["[10:00:00] clone","[10:00:01] build"]}`,
			expected: &StatusResponse{Status: "BUILDING", Logs: []string{"[10:00:00] clone", "[10:00:01] build"}},
		},
		{
			name:     "logs omitted",
			body:     `{"status":"IDLE"}`,
			expected: &StatusResponse{Status: "IDLE"},
		},
		{
			name:     "unknown fields ignored",
			body:     `{"status":"RUNNING","logs":[],"repo_path":"/tmp/x","run_id":"r-1"}`,
			expected: &StatusResponse{Status: "RUNNING", Logs: []string{}, RunID: "r-1"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/status", r.URL.Path)
				_, _ = w.Write([]byte(tc.body))
			})

			status, err := c.GetStatus(t.Context())
			require.NoError(t, err)
			assert.Equal(t, tc.expected, status)
		})
	}
}

func TestClient_GetStatus_BadJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := c.GetStatus(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse status response")
}

func TestClient_Stop(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/stop", r.URL.Path)
		assert.Empty(t, r.Header.Get("Content-Type"))
		assert.Equal(t, int64(0), r.ContentLength)
	})

	require.NoError(t, c.Stop(t.Context()))
	assert.True(t, called)
}

func TestClient_ErrorResponses(t *testing.T) {
	tcs := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{name: "message body", status: http.StatusInternalServerError, body: `{"message":"engine crashed"}`, wantMessage: "engine crashed"},
		{name: "detail string", status: http.StatusNotFound, body: `{"detail":"Not Found"}`, wantMessage: "Not Found"},
		{name: "detail list", status: http.StatusUnprocessableEntity, body: `{"detail":[{"msg":"field required"},{"msg":"invalid url"}]}`, wantMessage: "field required; invalid url"},
		{name: "plain text", status: http.StatusBadGateway, body: "upstream down\n", wantMessage: "upstream down"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			err := c.Stop(t.Context())
			require.Error(t, err)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tc.status, statusErr.StatusCode)
			assert.Equal(t, tc.wantMessage, statusErr.Message)
		})
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewClientWithBaseURL(url, nil)
	require.NoError(t, err)

	err = c.Deploy(t.Context(), DeployRequest{RepoURL: "https://github.com/acme/app"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestNewClient_NoHTTPTimeout(t *testing.T) {
	c, err := NewClientWithBaseURL("http://localhost:8000", nil)
	require.NoError(t, err)

	impl, ok := c.(*client)
	require.True(t, ok)
	assert.Zero(t, impl.httpClient.Timeout)
}
