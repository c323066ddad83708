package recordstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kursverwaltung/dashboard-api/pkg/config"
	appErrors "github.com/kursverwaltung/dashboard-api/pkg/errors"
)

func newTestServer(t *testing.T, failing map[string]bool) *httptest.Server {
	t.Helper()

	payloads := map[string]string{
		"/instructors":  `[{"id":"ins-1","name":"Anna Schmidt"}]`,
		"/rooms":        `[{"id":"room-1","name":"Raum 101","capacity":24}]`,
		"/participants": `[{"id":"par-1","name":"Lena Hartmann","email":"lena@example.org"}]`,
		"/courses":      `[{"id":"crs-1","title":"Go Grundlagen","price":249,"endDate":"2026-12-31","instructor":"ins-1"}]`,
		"/enrollments":  `[{"id":"enr-1","course":"crs-1","participant":"par-1","registrationDate":"2026-08-20","paid":true}]`,
	}

	mux := http.NewServeMux()
	for path, body := range payloads {
		path, body := path, body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if failing[path] {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}

	return httptest.NewServer(mux)
}

func newTestClient(url string) *Client {
	return NewClient(ClientParams{
		Config: config.RecordStoreConfig{BaseURL: url, Timeout: 2 * time.Second},
		Logger: zap.NewNop(),
	})
}

func TestClientSnapshotLoadsAllCollections(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	snap, err := newTestClient(server.URL).Snapshot(context.Background())
	require.NoError(t, err)

	assert.Len(t, snap.Instructors, 1)
	assert.Len(t, snap.Rooms, 1)
	assert.Len(t, snap.Participants, 1)
	assert.Len(t, snap.Courses, 1)
	assert.Len(t, snap.Enrollments, 1)
	assert.Equal(t, "Anna Schmidt", snap.Instructors[0].Name)
	assert.Equal(t, 249.0, snap.Courses[0].Price)
	assert.True(t, snap.Enrollments[0].Paid)
}

func TestClientSnapshotFailsAsAWhole(t *testing.T) {
	server := newTestServer(t, map[string]bool{"/courses": true})
	defer server.Close()

	snap, err := newTestClient(server.URL).Snapshot(context.Background())
	require.Error(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestClientPropagatesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(ClientParams{
		Config: config.RecordStoreConfig{BaseURL: server.URL, Token: "store-token"},
		Logger: zap.NewNop(),
	})

	_, err := client.Rooms(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer store-token", gotAuth)
}

func TestClientRejectsMalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Instructors(context.Background())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
}

func TestClientConnectionRefused(t *testing.T) {
	client := newTestClient("http://127.0.0.1:1")

	_, err := client.Snapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}
