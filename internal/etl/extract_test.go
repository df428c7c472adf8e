package etl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/pokedata/internal/pokeapi"
)

func TestExtractListingFailureAbortsBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	client := pokeapi.New(srv.URL, time.Second, 1000, 2, nil)
	ex := NewExtractor(client, 4, nil)

	items, err := ex.Extract(context.Background(), 5, 0)
	assert.Nil(t, items)
	assert.Error(t, err)
}

func TestExtractPreservesRequestOrder(t *testing.T) {
	p := newTestPipeline(t, []fakeItem{
		{name: "bulbasaur", body: detailJSON(1, "bulbasaur", 7, 69)},
		{name: "ivysaur", body: detailJSON(2, "ivysaur", 10, 130)},
		{name: "venusaur", body: detailJSON(3, "venusaur", 20, 1000)},
	})

	items, err := p.extractor.Extract(context.Background(), 3, 0)
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Fetches complete out of order, but each item keeps its requested
	// position and name.
	assert.Equal(t, 1, items[0].Index)
	assert.Equal(t, "bulbasaur", items[0].Name)
	assert.Equal(t, 2, items[1].Index)
	assert.Equal(t, "ivysaur", items[1].Name)
	assert.Equal(t, 3, items[2].Index)
	assert.Equal(t, "venusaur", items[2].Name)
}

func TestExtractBoundsConcurrency(t *testing.T) {
	const maxInFlight = 2

	var inFlight, peak int64
	var mu sync.Mutex

	mux := http.NewServeMux()
	mux.HandleFunc("/pokemon", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count": 6, "results": [
			{"name": "a", "url": "http://` + r.Host + `/pokemon/a"},
			{"name": "b", "url": "http://` + r.Host + `/pokemon/b"},
			{"name": "c", "url": "http://` + r.Host + `/pokemon/c"},
			{"name": "d", "url": "http://` + r.Host + `/pokemon/d"},
			{"name": "e", "url": "http://` + r.Host + `/pokemon/e"},
			{"name": "f", "url": "http://` + r.Host + `/pokemon/f"}
		]}`))
	})
	mux.HandleFunc("/pokemon/", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&inFlight, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		w.Write([]byte(detailJSON(1, "a", 7, 69)))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := pokeapi.New(srv.URL, 5*time.Second, 10000, 1, nil)
	ex := NewExtractor(client, maxInFlight, nil)

	items, err := ex.Extract(context.Background(), 6, 0)
	require.NoError(t, err)
	assert.Len(t, items, 6)

	mu.Lock()
	defer mu.Unlock()
	assert.LessOrEqual(t, peak, int64(maxInFlight))
}
