package jobserver_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodev/autodev/internal/api"
	"github.com/autodev/autodev/internal/jobserver"
)

func newTestServer(t *testing.T, stepDelay time.Duration) (*httptest.Server, api.Client) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	engine := jobserver.NewEngine(stepDelay, logger)
	t.Cleanup(engine.Close)

	srv := httptest.NewServer(jobserver.NewServer(engine, logger))
	t.Cleanup(srv.Close)

	client, err := api.NewClientWithBaseURL(srv.URL, srv.Client())
	require.NoError(t, err)
	return srv, client
}

func TestServer_DeployToSuccess(t *testing.T) {
	_, client := newTestServer(t, time.Millisecond)

	status, err := client.GetStatus(t.Context())
	require.NoError(t, err)
	assert.Equal(t, jobserver.StatusIdle, status.Status)

	err = client.Deploy(t.Context(), api.DeployRequest{RepoURL: "https://github.com/acme/app", GitHubToken: "token"})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		status, err = client.GetStatus(t.Context())
		return err == nil && status.Status == jobserver.StatusSuccess
	}, 2*time.Second, 5*time.Millisecond)

	assert.NotEmpty(t, status.RunID)
	require.NotEmpty(t, status.Logs)
	assert.Contains(t, status.Logs[0], "Cloning https://github.com/acme/app")
}

func TestServer_DeployValidation(t *testing.T) {
	tcs := []struct {
		name        string
		req         api.DeployRequest
		wantMessage string
	}{
		{name: "missing repo url", req: api.DeployRequest{GitHubToken: "token"}, wantMessage: "repo_url is required"},
		{name: "blank repo url", req: api.DeployRequest{RepoURL: "   "}, wantMessage: "repo_url is required"},
		{name: "not a url", req: api.DeployRequest{RepoURL: "acme/app"}, wantMessage: "repo_url must be a valid URL"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, client := newTestServer(t, time.Millisecond)

			err := client.Deploy(t.Context(), tc.req)
			require.Error(t, err)

			var statusErr *api.StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
			assert.Equal(t, tc.wantMessage, statusErr.Message)

			status, err := client.GetStatus(t.Context())
			require.NoError(t, err)
			assert.Equal(t, jobserver.StatusIdle, status.Status)
		})
	}
}

func TestServer_InvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t, time.Millisecond)

	resp, err := srv.Client().Post(srv.URL+"/deploy", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_Stop(t *testing.T) {
	_, client := newTestServer(t, time.Hour)

	require.NoError(t, client.Deploy(t.Context(), api.DeployRequest{RepoURL: "https://github.com/acme/app"}))
	require.NoError(t, client.Stop(t.Context()))

	status, err := client.GetStatus(t.Context())
	require.NoError(t, err)
	assert.Equal(t, jobserver.StatusStopped, status.Status)
	require.NotEmpty(t, status.Logs)
	assert.Contains(t, status.Logs[len(status.Logs)-1], jobserver.StopEntry)
}

func TestServer_Preflight(t *testing.T) {
	srv, _ := newTestServer(t, time.Millisecond)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodOptions, srv.URL+"/deploy", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_ListenAndServeStopsOnCancel(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	engine := jobserver.NewEngine(time.Hour, logger)
	srv := jobserver.NewServer(engine, logger)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() {
		done <- srv.ListenAndServe(ctx, "127.0.0.1:0")
	}()

	engine.Deploy("https://github.com/acme/app", "token")
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
