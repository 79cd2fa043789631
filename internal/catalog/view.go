package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Tibrahi/portfolio/internal/fetchstate"
)

// Mode is how a view grows past its first page.
type Mode string

const (
	// ModePaged fetches the next upstream page on every "load more".
	ModePaged Mode = "paged"
	// ModeReveal fetches one large page and reveals it in fixed steps.
	ModeReveal Mode = "reveal"
)

// Fetcher retrieves one page of the upstream repository listing.
type Fetcher interface {
	FetchPage(ctx context.Context, owner string, page, size int) (Page, error)
}

// Observer is notified after every completed fetch that was not superseded.
type Observer interface {
	ObserveFetch(view string, err error, took time.Duration)
}

// ViewConfig parameterises one repository view.
type ViewConfig struct {
	Name        string
	Owner       string
	PageSize    int
	Mode        Mode
	Step        int
	Rules       Rules
	SortByStars bool
}

// Validate checks a config before a view is built from it.
func (c ViewConfig) Validate() error {
	switch {
	case c.Name == "":
		return errors.New("view name is empty")
	case c.Owner == "":
		return fmt.Errorf("view %s: owner is empty", c.Name)
	case c.PageSize < 1 || c.PageSize > MaxPageSize:
		return fmt.Errorf("view %s: page size %d out of 1..%d", c.Name, c.PageSize, MaxPageSize)
	case c.Mode != ModePaged && c.Mode != ModeReveal:
		return fmt.Errorf("view %s: unknown mode %q", c.Name, c.Mode)
	case c.Mode == ModeReveal && c.Step < 1:
		return fmt.Errorf("view %s: reveal step must be >= 1", c.Name)
	}
	return nil
}

type operation int

const (
	opRefresh operation = iota
	opLoadMore
)

// View owns the fetch state, cursor and accumulated list of one mounted view.
// It is safe for concurrent use; results of superseded requests are discarded.
type View struct {
	cfg      ViewConfig
	fetcher  Fetcher
	observer Observer
	now      func() time.Time

	mu      sync.Mutex
	seq     uint64
	state   fetchstate.State
	cursor  PageCursor
	items   []Record
	visible int
	failed  operation
}

// ViewOption customises a View.
type ViewOption func(*View)

// WithObserver reports fetch outcomes to o.
func WithObserver(o Observer) ViewOption {
	return func(v *View) { v.observer = o }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ViewOption {
	return func(v *View) { v.now = now }
}

// NewView mounts a view in the idle state.
func NewView(cfg ViewConfig, f Fetcher, opts ...ViewOption) (*View, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("view %s: nil fetcher", cfg.Name)
	}
	v := &View{
		cfg:     cfg,
		fetcher: f,
		now:     time.Now,
		state:   fetchstate.New(),
		cursor:  newCursor(cfg.PageSize),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Config returns the view configuration.
func (v *View) Config() ViewConfig { return v.cfg }

// Refresh resets to page 1 and replaces the list with its result. It supersedes
// any fetch already in flight. On failure the previous list and cursor stay.
func (v *View) Refresh(ctx context.Context) error {
	v.mu.Lock()
	seq, err := v.issue()
	v.mu.Unlock()
	if err != nil {
		return err
	}

	page, took, err := v.fetch(ctx, 1)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return ErrStale
	}
	v.observe(err, took)
	if err != nil {
		v.failed = opRefresh
		_ = v.state.Fail(UserMessage(err))
		return err
	}

	items := Normalize(page.Records, v.cfg.Rules)
	if v.cfg.SortByStars {
		SortByStars(items)
	}
	v.items = items
	v.cursor = newCursor(v.cfg.PageSize).landed(1, len(page.Records), page.HasMore)
	// rows the visitor already revealed stay revealed
	v.visible = max(v.cfg.Step, min(v.visible, len(items)))
	return v.state.Succeed(v.now())
}

// LoadMore fetches the page after the cursor and merges it into the list,
// de-duplicating against everything accumulated so far. Paged mode only.
func (v *View) LoadMore(ctx context.Context) error {
	v.mu.Lock()
	switch {
	case v.cfg.Mode != ModePaged:
		v.mu.Unlock()
		return ErrWrongMode
	case v.state.Status == fetchstate.Loading:
		v.mu.Unlock()
		return ErrBusy
	case !v.state.HasSucceeded():
		v.mu.Unlock()
		return ErrNotLoaded
	case !v.cursor.HasMore:
		v.mu.Unlock()
		return ErrNoMorePages
	}
	next := v.cursor.Page + 1
	seq, err := v.issue()
	v.mu.Unlock()
	if err != nil {
		return err
	}

	page, took, err := v.fetch(ctx, next)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return ErrStale
	}
	v.observe(err, took)
	if err != nil {
		v.failed = opLoadMore
		_ = v.state.Fail(UserMessage(err))
		return err
	}

	items := Merge(v.items, page.Records, v.cfg.Rules)
	if v.cfg.SortByStars {
		SortByStars(items)
	}
	v.items = items
	v.cursor = v.cursor.landed(next, len(page.Records), page.HasMore)
	return v.state.Succeed(v.now())
}

// ShowMore reveals the next Step records of the list already held. Reveal mode only;
// it never touches the network. It reports whether hidden records remain.
func (v *View) ShowMore() (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cfg.Mode != ModeReveal {
		return false, ErrWrongMode
	}
	if !v.state.HasSucceeded() {
		return false, ErrNotLoaded
	}
	v.visible = min(v.visible+v.cfg.Step, len(v.items))
	return v.visible < len(v.items), nil
}

// Retry repeats the operation that failed last: the same page is requested again.
func (v *View) Retry(ctx context.Context) error {
	v.mu.Lock()
	op := v.failed
	status := v.state.Status
	v.mu.Unlock()
	if status == fetchstate.Error && op == opLoadMore {
		return v.LoadMore(ctx)
	}
	return v.Refresh(ctx)
}

// RefreshIfStale refreshes when the view never loaded or its last success is older
// than maxAge. Failed views are left for an explicit retry.
func (v *View) RefreshIfStale(ctx context.Context, maxAge time.Duration) error {
	v.mu.Lock()
	st := v.state
	v.mu.Unlock()

	switch {
	case st.Status == fetchstate.Loading, st.Status == fetchstate.Error:
		return nil
	case st.Status == fetchstate.Idle:
		return v.Refresh(ctx)
	case maxAge > 0 && st.Age(v.now()) > maxAge:
		return v.Refresh(ctx)
	}
	return nil
}

// issue stamps a new request. Called with mu held.
func (v *View) issue() (uint64, error) {
	if v.state.Status != fetchstate.Loading {
		if err := v.state.Begin(); err != nil {
			return 0, err
		}
	}
	v.seq++
	return v.seq, nil
}

// fetch detaches from ctx cancellation: a visitor leaving mid-request must not
// turn the view into an error. The Fetcher bounds the call with its own timeout.
func (v *View) fetch(ctx context.Context, page int) (Page, time.Duration, error) {
	start := v.now()
	p, err := v.fetcher.FetchPage(context.WithoutCancel(ctx), v.cfg.Owner, page, v.cfg.PageSize)
	return p, v.now().Sub(start), err
}

func (v *View) observe(err error, took time.Duration) {
	if v.observer != nil {
		v.observer.ObserveFetch(v.cfg.Name, err, took)
	}
}

// Snapshot is an immutable copy of a view for rendering.
type Snapshot struct {
	Name        string
	Mode        Mode
	Records     []Record
	Total       int
	Cursor      PageCursor
	State       fetchstate.State
	CanLoadMore bool
	Stats       Stats
}

// Snapshot copies the current state. In reveal mode Records is the revealed prefix.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	shown := v.items
	can := v.cursor.HasMore && v.state.HasSucceeded() && v.state.Status != fetchstate.Loading
	if v.cfg.Mode == ModeReveal {
		n := min(v.visible, len(v.items))
		shown = v.items[:n]
		can = n < len(v.items)
	}
	records := make([]Record, len(shown))
	copy(records, shown)

	return Snapshot{
		Name:        v.cfg.Name,
		Mode:        v.cfg.Mode,
		Records:     records,
		Total:       len(v.items),
		Cursor:      v.cursor,
		State:       v.state,
		CanLoadMore: can,
		Stats:       Summarize(v.items),
	}
}
