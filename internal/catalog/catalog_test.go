package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/modelswitch/tests/testutil"
)

func TestStatic(t *testing.T) {
	c := NewStatic([]string{"gpt-4", "o1"}, []string{"o1"})

	ids, err := c.AvailableModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4", "o1"}, ids)
	assert.Equal(t, []string{"o1"}, c.Recommended())

	ids[0] = "mutated"
	again, _ := c.AvailableModels(context.Background())
	assert.Equal(t, "gpt-4", again[0])
}

func TestHTTP_AvailableModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-4"},{"id":"o1"},{"id":""}]}`))
	}))
	defer srv.Close()

	c := NewHTTP(srv.URL+"/v1/", "sk-test", []string{"o1"}, time.Second)
	ids, err := c.AvailableModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-4", "o1"}, ids)
	assert.Equal(t, []string{"o1"}, c.Recommended())
}

func TestHTTP_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, "authentication failed"},
		{"api error", http.StatusBadRequest, `{"error":{"message":"bad org"}}`, "bad org"},
		{"plain error", http.StatusInternalServerError, `boom`, "unexpected status 500"},
		{"bad json", http.StatusOK, `{`, "unmarshaling response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewHTTP(srv.URL, "", nil, time.Second).AvailableModels(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestHTTP_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"o3"}]}`))
	}))
	defer srv.Close()

	ids, err := NewHTTP(srv.URL, "", nil, time.Second).AvailableModels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"o3"}, ids)
	assert.Equal(t, int32(2), calls.Load())
}

// stubCatalog counts upstream calls and returns a canned result.
type stubCatalog struct {
	ids   []string
	err   error
	calls int
}

func (s *stubCatalog) AvailableModels(context.Context) ([]string, error) {
	s.calls++
	return s.ids, s.err
}

func (s *stubCatalog) Recommended() []string { return []string{"o3"} }

func TestCached(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fetches and fills empty cache", func(t *testing.T) {
		st := testutil.NewTestStore(t)
		up := &stubCatalog{ids: []string{"o3", "gpt-4"}}
		c := NewCached(up, st, time.Hour)
		c.now = func() time.Time { return now }

		ids, err := c.AvailableModels(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"o3", "gpt-4"}, ids)

		cached, _, err := st.GetCatalog(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"o3", "gpt-4"}, cached)
		assert.Equal(t, []string{"o3"}, c.Recommended())
	})

	t.Run("serves fresh cache without upstream", func(t *testing.T) {
		st := testutil.NewTestStore(t)
		require.NoError(t, st.ReplaceCatalog(ctx, []string{"o1"}, now.Add(-time.Minute)))
		up := &stubCatalog{ids: []string{"gpt-4"}}
		c := NewCached(up, st, time.Hour)
		c.now = func() time.Time { return now }

		ids, err := c.AvailableModels(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"o1"}, ids)
		assert.Zero(t, up.calls)
	})

	t.Run("refetches stale cache", func(t *testing.T) {
		st := testutil.NewTestStore(t)
		require.NoError(t, st.ReplaceCatalog(ctx, []string{"o1"}, now.Add(-2*time.Hour)))
		up := &stubCatalog{ids: []string{"gpt-4"}}
		c := NewCached(up, st, time.Hour)
		c.now = func() time.Time { return now }

		ids, err := c.AvailableModels(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"gpt-4"}, ids)
		assert.Equal(t, 1, up.calls)
	})

	t.Run("falls back to stale cache on failure", func(t *testing.T) {
		st := testutil.NewTestStore(t)
		require.NoError(t, st.ReplaceCatalog(ctx, []string{"o1"}, now.Add(-2*time.Hour)))
		up := &stubCatalog{err: errors.New("offline")}
		c := NewCached(up, st, time.Hour)
		c.now = func() time.Time { return now }

		ids, err := c.AvailableModels(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"o1"}, ids)
	})

	t.Run("fails with empty cache", func(t *testing.T) {
		st := testutil.NewTestStore(t)
		c := NewCached(&stubCatalog{err: errors.New("offline")}, st, time.Hour)

		_, err := c.AvailableModels(ctx)
		assert.Error(t, err)
	})
}
