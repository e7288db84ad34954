package web

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"seller_notification_service/internal/app"
	idb "seller_notification_service/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gifHeader is the start of every GIF89a stream.
var gifHeader = []byte{0x47, 0x49, 0x46, 0x38, 0x39, 0x61}

func newTestServer(t *testing.T) (*httptest.Server, *idb.MemoryTrackingRepository, app.TrackingService) {
	t.Helper()
	repo := idb.NewMemoryTrackingRepository()
	discard := log.New(io.Discard, "", 0)
	trackingSvc := app.NewTrackingServiceImpl(repo, "http://localhost", discard)
	statsSvc := app.NewStatsServiceImpl(repo, discard)
	handler := NewHandler(trackingSvc, statsSvc, discard)
	srv := httptest.NewServer(handler.Routes())
	t.Cleanup(srv.Close)
	return srv, repo, trackingSvc
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func TestTrackUnknownTokenServesPixelAndLeavesStoreUntouched(t *testing.T) {
	srv, repo, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/track?action=open&id=no-such-token")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/gif", resp.Header.Get("Content-Type"))
	assert.Equal(t, gifHeader, body[:6])
	assert.Len(t, body, 35, "the placeholder is a fixed single-pixel GIF")

	count, err := repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestTrackMissingActionIsNoOp(t *testing.T) {
	srv, repo, trackingSvc := newTestServer(t)
	token, err := trackingSvc.IssueToken(context.Background(), "a@x.com", "S-1")
	require.NoError(t, err)

	resp, _ := get(t, srv.URL+"/track?id="+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	rec, err := repo.GetByToken(context.Background(), token)
	require.NoError(t, err)
	assert.False(t, rec.Opened, "the action must equal \"open\" exactly")
}

func TestTrackValidTokenRecordsOpen(t *testing.T) {
	srv, repo, trackingSvc := newTestServer(t)
	token, err := trackingSvc.IssueToken(context.Background(), "a@x.com", "S-1")
	require.NoError(t, err)

	resp, body := get(t, srv.URL+"/track?action=open&id="+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/gif", resp.Header.Get("Content-Type"))
	assert.Equal(t, gifHeader, body[:6])
	assert.Contains(t, resp.Header.Get("Cache-Control"), "no-store")

	rec, err := repo.GetByToken(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, rec.Opened)
	assert.Equal(t, 0, rec.ViewCount)

	// Second hit counts as a view, still serving the same pixel.
	resp, _ = get(t, srv.URL+"/track?action=open&id="+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	rec, err = repo.GetByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ViewCount)
}

func TestStatsEndpointEmptyStore(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/stats")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var stats app.Stats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 0, stats.TotalEmails)
	assert.NotEmpty(t, stats.Message, "an empty store returns the no-data result, not an error")
}

func TestStatsEndpointAfterOpens(t *testing.T) {
	srv, _, trackingSvc := newTestServer(t)
	ctx := context.Background()

	opened, err := trackingSvc.IssueToken(ctx, "a@x.com", "S-1")
	require.NoError(t, err)
	_, err = trackingSvc.IssueToken(ctx, "b@x.com", "S-2")
	require.NoError(t, err)
	trackingSvc.RecordOpen(ctx, app.OpenRequest{Token: opened, Action: app.ActionOpen})

	resp, body := get(t, srv.URL+"/stats")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var stats app.Stats
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 2, stats.TotalEmails)
	assert.Equal(t, 1, stats.OpenedEmails)
	assert.Equal(t, "50.00%", stats.OpenRate)
	assert.Equal(t, 2, stats.LastWeekEmails)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}
