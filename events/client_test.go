package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaptertools/herald"
)

func eventsPage(from, count int) herald.Events {
	page := make(herald.Events, 0, count)
	for i := 0; i < count; i++ {
		id := int64(from + i)
		page = append(page, herald.Event{
			ID:    id,
			Title: fmt.Sprintf("Event %d", id),
			URL:   fmt.Sprintf("https://example.com/e/%d", id),
			Sessions: []herald.Session{
				{ID: id, StartTime: time.Now(), EndTime: time.Now().Add(time.Hour)},
			},
		})
	}
	return page
}

// pagedServer serves total events split in pageSize slices, recording
// every page number it is asked for.
func pagedServer(t *testing.T, total int, pages *[]int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		assert.Equal(t, "/v1/events", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("scope_id"))
		assert.Equal(t, "Chapter", r.URL.Query().Get("scope_type"))
		assert.Equal(t, "100", r.URL.Query().Get("_limit"))

		page, err := strconv.Atoi(r.URL.Query().Get("_page"))
		require.NoError(t, err)
		*pages = append(*pages, page)

		from := (page - 1) * pageSize
		count := total - from
		if count < 0 {
			count = 0
		}
		if count > pageSize {
			count = pageSize
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]herald.Events{"data": eventsPage(from+1, count)})
	}))
}

func TestFetchAllPagination(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		wantPages []int
	}{
		{name: "single short page", total: 3, wantPages: []int{1}},
		{name: "empty result", total: 0, wantPages: []int{1}},
		{name: "short final page", total: 250, wantPages: []int{1, 2, 3}},
		{name: "exactly full final page", total: 200, wantPages: []int{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := make([]int, 0)
			srv := pagedServer(t, tt.total, &pages)
			defer srv.Close()

			cl := New(Config{URL: srv.URL, Token: "sekrit"})
			got, err := cl.FetchAll(context.Background(), 42)
			require.NoError(t, err)
			require.Len(t, got, tt.total)
			assert.Equal(t, tt.wantPages, pages)
			if tt.total > 0 {
				assert.Equal(t, int64(1), got[0].ID)
				assert.Equal(t, int64(tt.total), got[len(got)-1].ID)
			}
		})
	}
}

func TestFetchAllUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	cl := New(Config{URL: srv.URL, Token: "sekrit"})
	_, err := cl.FetchAll(context.Background(), 42)
	require.Error(t, err)

	upErr := &UpstreamError{}
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, http.StatusBadGateway, upErr.Status)
	assert.Contains(t, upErr.Body, "upstream exploded")
}
