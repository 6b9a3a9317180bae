package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoss/recipebook/internal/model"
)

// recorder is a stub catalog that remembers every query it served.
type recorder struct {
	mu      sync.Mutex
	queries []url.Values
}

func (r *recorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		r.queries = append(r.queries, req.URL.Query())
		r.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]model.Recipe{{ID: 1, Name: "Stub"}})
	})
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func (r *recorder) query(i int) url.Values {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.queries[i]
}

func newTestBrowser(t *testing.T, rec *recorder, opts ...BrowserOption) (*Browser, chan Page) {
	t.Helper()
	srv := httptest.NewServer(rec.handler())
	t.Cleanup(srv.Close)

	pages := make(chan Page, 16)
	opts = append([]BrowserOption{WithDebounce(30 * time.Millisecond)}, opts...)
	b := NewBrowser(New(srv.URL), func(p Page) { pages <- p }, opts...)
	return b, pages
}

func waitPage(t *testing.T, pages chan Page) Page {
	t.Helper()
	select {
	case p := <-pages:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a page")
		return Page{}
	}
}

func TestQueryValues(t *testing.T) {
	v := Query{Search: "soup", Tags: []string{"Vegan"}, Sort: "az", Limit: 6, Offset: 12}.values()
	// exactly one selection mode is sent; search wins
	assert.Equal(t, "soup", v.Get("search"))
	assert.Empty(t, v.Get("tags"))
	assert.Empty(t, v.Get("sort"))
	assert.Equal(t, "6", v.Get("limit"))
	assert.Equal(t, "12", v.Get("offset"))

	v = Query{Tags: []string{"Vegan", "Dessert"}}.values()
	assert.Equal(t, "Vegan,Dessert", v.Get("tags"))
	assert.Equal(t, "6", v.Get("limit"), "default page size applies")

	v = Query{Sort: "popular"}.values()
	assert.Equal(t, "popular", v.Get("sort"))
}

func TestSearchDebounceCoalescesKeystrokes(t *testing.T) {
	rec := &recorder{}
	b, pages := newTestBrowser(t, rec)

	// three keystrokes inside the quiet period
	b.SetSearch("p")
	b.SetSearch("pa")
	b.SetSearch("pancakes")

	p := waitPage(t, pages)
	assert.Equal(t, 0, p.Offset)

	// give any stray timer a chance to misfire before counting
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, rec.count(), "keystrokes within the quiet period must coalesce")
	assert.Equal(t, "pancakes", rec.query(0).Get("search"))
	assert.Equal(t, "0", rec.query(0).Get("offset"))
}

func TestFilterChangeResetsOffset(t *testing.T) {
	rec := &recorder{}
	b, pages := newTestBrowser(t, rec)

	b.SetSort("az")
	waitPage(t, pages)
	b.LoadMore()
	waitPage(t, pages)

	// changing the tag filter resets pagination to the first page
	b.SetTags([]string{"Vegan"})
	waitPage(t, pages)

	last := rec.query(rec.count() - 1)
	assert.Equal(t, "0", last.Get("offset"))
	assert.Equal(t, "Vegan", last.Get("tags"))
	assert.Empty(t, last.Get("sort"), "tag mode replaces sort mode")
}

func TestLoadMoreOffsetsStrictlyIncrease(t *testing.T) {
	rec := &recorder{}
	b, pages := newTestBrowser(t, rec, WithPageSize(6))

	b.SetSort("newest")
	waitPage(t, pages)
	b.LoadMore()
	waitPage(t, pages)
	b.LoadMore()
	waitPage(t, pages)

	require.Equal(t, 3, rec.count())
	var offsets []string
	for i := 0; i < rec.count(); i++ {
		offsets = append(offsets, rec.query(i).Get("offset"))
	}
	assert.Equal(t, []string{"0", "6", "12"}, offsets)
}

func TestStaleDebouncedFetchDiscarded(t *testing.T) {
	rec := &recorder{}
	b, pages := newTestBrowser(t, rec)

	b.SetSearch("soup")
	// the filter change lands before the quiet period elapses and cancels
	// the pending search
	b.SetTags([]string{"Dinner"})

	p := waitPage(t, pages)
	assert.Equal(t, 0, p.Offset)

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "Dinner", rec.query(0).Get("tags"))
	assert.Empty(t, rec.query(0).Get("search"), "cancelled search must not fire")
}

func TestClientCRUDRoundTrip(t *testing.T) {
	// thin end-to-end check against a stub API
	mux := http.NewServeMux()
	mux.HandleFunc("/api/recipes", func(w http.ResponseWriter, req *http.Request) {
		switch req.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(model.Recipe{ID: 7, Name: "Created"})
		default:
			_ = json.NewEncoder(w).Encode([]model.Recipe{{ID: 7}})
		}
	})
	mux.HandleFunc("/api/recipes/7", func(w http.ResponseWriter, req *http.Request) {
		if req.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_ = json.NewEncoder(w).Encode(model.Recipe{ID: 7, Name: "Fetched"})
	})
	mux.HandleFunc("/api/recipes/404", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "recipe not found"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()
	c := New(srv.URL)
	ctx := context.Background()

	created, err := c.Create(ctx, model.Recipe{Name: "Created"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)

	fetched, err := c.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Fetched", fetched.Name)

	require.NoError(t, c.Delete(ctx, 7))

	_, err = c.Get(ctx, 404)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}
