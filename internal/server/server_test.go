package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/hassecalc/internal/constants"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestHandlers(t *testing.T) {
	t.Parallel()
	factory := constants.NewDefaultFactory()
	x := factory.MustGet(constants.NameZetaHasse)
	_, err := x.Extract(context.Background(), 3, constants.Options{})
	require.NoError(t, err)

	ts := httptest.NewServer(NewServer(factory, ":0").Handler())
	defer ts.Close()

	t.Run("Health", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/health")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		assert.Equal(t, "healthy", payload["status"])
	})

	t.Run("Extractors", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/extractors")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var payload struct {
			Extractors []ExtractorInfo `json:"extractors"`
		}
		require.NoError(t, json.Unmarshal([]byte(body), &payload))
		require.Len(t, payload.Extractors, len(factory.List()))
		assert.Contains(t, payload.Extractors, ExtractorInfo{Name: constants.NameZetaHasse, Family: string(constants.FamilyZeta)})
	})

	t.Run("Metrics", func(t *testing.T) {
		resp, body := get(t, ts.URL+"/metrics")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, body, "hasse_extractions_total")
		assert.Contains(t, body, "hasse_extraction_duration_seconds")
	})

	t.Run("Method not allowed", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/health", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	s := NewServer(constants.NewDefaultFactory(), ln.Addr().String(), WithTimeouts(Timeouts{
		ShutdownTimeout: time.Second,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
	}))
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, _ := get(t, "http://"+ln.Addr().String()+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestStartListenError(t *testing.T) {
	t.Parallel()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = NewServer(constants.NewDefaultFactory(), ln.Addr().String()).Start(context.Background())
	assert.Error(t, err, "the address is already in use")
}
