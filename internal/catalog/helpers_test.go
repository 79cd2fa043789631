package catalog_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/Tibrahi/portfolio/internal/catalog"
)

func raw(id int64, opts ...func(*catalog.RawRecord)) catalog.RawRecord {
	name := fmt.Sprintf("repo-%d", id)
	src := "https://github.com/Tibrahi/" + name
	r := catalog.RawRecord{ID: &id, Name: &name, HTMLURL: &src}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func forked(r *catalog.RawRecord) {
	v := true
	r.Fork = &v
}

func archived(r *catalog.RawRecord) {
	v := true
	r.Archived = &v
}

func private(r *catalog.RawRecord) {
	v := true
	r.Private = &v
}

func stars(n int) func(*catalog.RawRecord) {
	return func(r *catalog.RawRecord) { r.Stars = &n }
}

func homepage(h string) func(*catalog.RawRecord) {
	return func(r *catalog.RawRecord) { r.Homepage = &h }
}

func ids(recs []catalog.Record) []int64 {
	out := make([]int64, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

// pageFetcher serves canned pages and errors keyed by page number.
type pageFetcher struct {
	mu    sync.Mutex
	pages map[int]catalog.Page
	errs  map[int]error
	calls []int
}

func (f *pageFetcher) FetchPage(_ context.Context, _ string, page, _ int) (catalog.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if err := f.errs[page]; err != nil {
		return catalog.Page{}, err
	}
	return f.pages[page], nil
}

func (f *pageFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type gatedResult struct {
	page catalog.Page
	err  error
}

type gatedCall struct {
	page  int
	reply chan gatedResult
}

// gatedFetcher blocks every call until the test answers it.
type gatedFetcher struct {
	calls chan gatedCall
}

func (g *gatedFetcher) FetchPage(ctx context.Context, _ string, page, _ int) (catalog.Page, error) {
	reply := make(chan gatedResult)
	g.calls <- gatedCall{page: page, reply: reply}
	select {
	case r := <-reply:
		return r.page, r.err
	case <-ctx.Done():
		return catalog.Page{}, ctx.Err()
	}
}
