package etl

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/albapepper/pokedata/internal/pokeapi"
)

// Item is one extraction outcome. Exactly one of Raw or Err is set. Index is
// the item's 1-based position within the requested range.
type Item struct {
	Index int
	Name  string
	Raw   *pokeapi.RawPokemon
	Err   error
}

// Extractor fetches raw records from the PokeAPI with bounded concurrency.
// It performs no validation and no persistence.
type Extractor struct {
	client      *pokeapi.Client
	concurrency int
	logger      *slog.Logger
}

// NewExtractor creates an Extractor. concurrency bounds in-flight detail
// fetches; values below 1 are clamped to 1.
func NewExtractor(client *pokeapi.Client, concurrency int, logger *slog.Logger) *Extractor {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{client: client, concurrency: concurrency, logger: logger}
}

// Extract resolves the listing page for (limit, offset) and fetches every
// item's detail payload concurrently. A failed detail fetch marks only that
// item; sibling fetches proceed. A failed listing fetch aborts the whole
// extraction, since no item can be resolved without it.
func (e *Extractor) Extract(ctx context.Context, limit, offset int) ([]Item, error) {
	page, err := e.client.ListPage(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page limit=%d offset=%d: %w", limit, offset, err)
	}

	items := make([]Item, len(page.Results))
	if len(items) == 0 {
		return items, nil
	}

	workers := e.concurrency
	if workers > len(items) {
		workers = len(items)
	}

	type work struct {
		index int // slice position
		entry pokeapi.ListItem
	}

	ch := make(chan work, len(items))
	for i, entry := range page.Results {
		ch <- work{index: i, entry: entry}
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range ch {
				raw, err := e.client.Detail(ctx, w.entry.URL)
				// Each worker writes only its own slice positions.
				items[w.index] = Item{
					Index: w.index + 1,
					Name:  w.entry.Name,
					Raw:   raw,
					Err:   err,
				}
				if err != nil {
					e.logger.Warn("detail fetch failed", "name", w.entry.Name, "error", err)
				}
			}
		}()
	}
	wg.Wait()

	return items, nil
}
