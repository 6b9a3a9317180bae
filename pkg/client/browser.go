package client

import (
	"context"
	"sync"
	"time"

	"github.com/pkoss/recipebook/internal/model"
)

// Page is one fetched slice of the catalog together with the offset it was
// requested at.
type Page struct {
	Recipes []model.Recipe
	Offset  int
}

// Browser tracks a UI's browse state against the catalog: current search
// text, tag filters, sort option, and pagination cursor. Free-text input is
// debounced — each keystroke resets a single pending timer, cancelling any
// prior pending fetch — and any change to search, tags, or sort resets the
// offset to zero. LoadMore produces a strictly increasing, non-overlapping
// offset sequence for a fixed configuration.
type Browser struct {
	client   *Client
	pageSize int
	debounce time.Duration
	onPage   func(Page)
	onError  func(error)

	mu     sync.Mutex
	mode   selectionMode
	search string
	tags   []string
	sort   string
	offset int
	timer  *time.Timer
	gen    int // invalidates in-flight fetches when the configuration changes
}

// selectionMode mirrors the server's mutually exclusive selection modes:
// whichever of search, tags, or sort was set last is the one sent.
type selectionMode int

const (
	modeDefault selectionMode = iota
	modeSearch
	modeTags
	modeSort
)

// BrowserOption customizes a Browser.
type BrowserOption func(*Browser)

// WithPageSize overrides the page size used for every fetch.
func WithPageSize(n int) BrowserOption {
	return func(b *Browser) {
		if n > 0 {
			b.pageSize = n
		}
	}
}

// WithDebounce overrides the search quiet period (tests shorten it).
func WithDebounce(d time.Duration) BrowserOption {
	return func(b *Browser) {
		if d > 0 {
			b.debounce = d
		}
	}
}

// WithErrorHandler registers a callback for failed fetches. Without one,
// failures are dropped silently, matching a UI that surfaces a toast at
// most.
func WithErrorHandler(fn func(error)) BrowserOption {
	return func(b *Browser) { b.onError = fn }
}

// NewBrowser wires a Browser to a client. Every fetched page is delivered
// to onPage; pages from a superseded configuration are discarded.
func NewBrowser(c *Client, onPage func(Page), opts ...BrowserOption) *Browser {
	b := &Browser{
		client:   c,
		pageSize: DefaultPageSize,
		debounce: DefaultDebounce,
		onPage:   onPage,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetSearch updates the search text. The fetch fires only after the quiet
// period elapses with no further keystrokes.
func (b *Browser) SetSearch(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.mode = modeSearch
	b.search = text
	b.offset = 0
	b.gen++
	gen := b.gen

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.debounce, func() {
		b.fetch(gen, 0)
	})
}

// SetTags replaces the tag filter and refetches the first page immediately.
func (b *Browser) SetTags(tags []string) {
	b.mu.Lock()
	b.mode = modeTags
	b.tags = append([]string(nil), tags...)
	gen, offset := b.reset()
	b.mu.Unlock()

	b.fetch(gen, offset)
}

// SetSort replaces the sort option and refetches the first page immediately.
func (b *Browser) SetSort(sort string) {
	b.mu.Lock()
	b.mode = modeSort
	b.sort = sort
	gen, offset := b.reset()
	b.mu.Unlock()

	b.fetch(gen, offset)
}

// LoadMore fetches the next page for the current configuration.
func (b *Browser) LoadMore() {
	b.mu.Lock()
	gen := b.gen
	offset := b.offset
	b.offset += b.pageSize
	b.mu.Unlock()

	b.fetch(gen, offset)
}

// reset is called with the lock held whenever the filter/sort configuration
// changes: pagination restarts and any pending debounced search is
// cancelled.
func (b *Browser) reset() (gen, offset int) {
	b.offset = b.pageSize // the immediate fetch covers offset 0
	b.gen++
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	return b.gen, 0
}

func (b *Browser) fetch(gen, offset int) {
	b.mu.Lock()
	if gen != b.gen {
		b.mu.Unlock()
		return
	}
	q := Query{Limit: b.pageSize, Offset: offset}
	switch b.mode {
	case modeSearch:
		q.Search = b.search
	case modeTags:
		q.Tags = append([]string(nil), b.tags...)
	case modeSort:
		q.Sort = b.sort
	}
	if offset == 0 && b.offset == 0 {
		// debounced search path: the delivered page is page zero, so the
		// next LoadMore continues at one page in
		b.offset = b.pageSize
	}
	b.mu.Unlock()

	recipes, err := b.client.List(context.Background(), q)

	b.mu.Lock()
	stale := gen != b.gen
	b.mu.Unlock()
	if stale {
		return
	}
	if err != nil {
		if b.onError != nil {
			b.onError(err)
		}
		return
	}
	b.onPage(Page{Recipes: recipes, Offset: offset})
}
