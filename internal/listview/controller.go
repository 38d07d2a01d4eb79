package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultTimeout = 8 * time.Second

// Options configures a Controller.
type Options struct {
	// Entity is the backend collection name, e.g. "projects".
	Entity   string
	PageSize int
	// Timeout bounds every fetch. Zero means the package default.
	Timeout time.Duration
	// ErrorMessage is shown when a fetch fails. Defaults to "Failed to fetch <entity>."
	ErrorMessage string
	// OnScrollTop is called after a page change.
	OnScrollTop func()
	Logger      *zap.Logger
}

// Controller owns the state of one mounted list view. Every change of page
// or tag starts a new fetch generation; results of older generations are
// dropped, as are results arriving after Unmount.
type Controller[T any] struct {
	src  Source[T]
	sync *Synchronizer
	opts Options
	log  *zap.Logger

	mu      sync.Mutex
	state   ViewState[T]
	base    context.Context
	gen     uint64
	cancel  context.CancelFunc
	settled chan struct{}
	mounted bool
	fetches int
}

// New builds an unmounted controller.
func New[T any](src Source[T], hist History, opts Options) *Controller[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ErrorMessage == "" {
		opts.ErrorMessage = fmt.Sprintf("Failed to fetch %s.", opts.Entity)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller[T]{
		src:  src,
		sync: NewSynchronizer(hist),
		opts: opts,
		log:  logger.With(zap.String("entity", opts.Entity)),
		state: ViewState[T]{
			Pagination: Pagination{Page: 1, PageSize: opts.PageSize, TotalPages: 1},
			Items:      []T{},
		},
	}
}

// Mount seeds state from the URL and starts the first fetch.
// Fetches run under ctx until Unmount.
func (c *Controller[T]) Mount(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mounted {
		return
	}
	c.mounted = true
	c.base = ctx
	p := c.sync.Read()
	c.state.Pagination.Page = p.Page
	c.state.Tag = p.Tag
	c.startLocked()
}

// SetTag applies a new filter, resets to page 1 and pushes the URL.
// It reports false when nothing changed.
func (c *Controller[T]) SetTag(tag string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return false
	}
	if tag == c.state.Tag && c.state.Pagination.Page == 1 {
		return false
	}
	c.state.Tag = tag
	c.state.Pagination.Page = 1
	c.sync.Push(c.state.Params())
	c.startLocked()
	return true
}

// SetPage moves to page n. Out-of-range pages are ignored and report false.
func (c *Controller[T]) SetPage(n int) bool {
	c.mu.Lock()
	if !c.mounted || !c.state.Pagination.InRange(n) {
		c.mu.Unlock()
		return false
	}
	c.state.Pagination.Page = n
	c.sync.Push(c.state.Params())
	c.startLocked()
	c.mu.Unlock()

	if c.opts.OnScrollTop != nil {
		c.opts.OnScrollTop()
	}
	return true
}

// SyncFromURL adopts page and tag from the history entry, as after back or
// forward navigation. It reports false, and fetches nothing, when they
// already match state.
func (c *Controller[T]) SyncFromURL() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return false
	}
	next, changed := c.sync.Changed(c.state.Params())
	if !changed {
		return false
	}
	c.state.Pagination.Page = next.Page
	c.state.Tag = next.Tag
	c.startLocked()
	return true
}

// State returns a snapshot of the view state.
func (c *Controller[T]) State() ViewState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = append(make([]T, 0, len(c.state.Items)), c.state.Items...)
	return s
}

// Fetches counts fetches started since construction.
func (c *Controller[T]) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

// Wait blocks until the newest fetch settles, the view unmounts, or ctx ends.
func (c *Controller[T]) Wait(ctx context.Context) error {
	for {
		c.mu.Lock()
		if !c.mounted || !c.state.Loading {
			c.mu.Unlock()
			return nil
		}
		ch := c.settled
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Unmount cancels any in-flight fetch. Later results are discarded.
func (c *Controller[T]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.mounted = false
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.state.Loading = false
	c.signalLocked()
}

func (c *Controller[T]) startLocked() {
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithTimeout(c.base, c.opts.Timeout)
	c.cancel = cancel

	c.signalLocked()
	c.settled = make(chan struct{})
	c.state.Loading = true
	c.state.Phase = Loading
	c.fetches++

	req := Request{
		Entity:   c.opts.Entity,
		Page:     c.state.Pagination.Page,
		PageSize: c.opts.PageSize,
		Tag:      c.state.Tag,
	}
	c.log.Debug("list fetch started",
		zap.Uint64("generation", gen),
		zap.Int("page", req.Page),
		zap.String("tag", req.Tag),
	)
	go c.run(ctx, cancel, gen, req)
}

func (c *Controller[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, req Request) {
	page, err := c.src.FetchPage(ctx, req)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || !c.mounted {
		c.log.Debug("stale list result dropped", zap.Uint64("generation", gen))
		return
	}
	c.cancel = nil
	c.state.Loading = false
	if err != nil {
		fields := []zap.Field{zap.Int("page", req.Page), zap.String("tag", req.Tag), zap.Error(err)}
		if errors.Is(err, context.DeadlineExceeded) {
			fields = append(fields, zap.Duration("timeout", c.opts.Timeout))
		}
		c.log.Warn("list fetch failed", fields...)
		c.state.Items = []T{}
		c.state.Total = 0
		c.state.Pagination.TotalPages = 1
		c.state.Error = c.opts.ErrorMessage
		c.state.Phase = Failed
	} else {
		items := page.Items
		if items == nil {
			items = []T{}
		}
		c.state.Items = items
		c.state.Total = page.TotalCount
		c.state.Pagination.TotalPages = TotalPages(page.TotalCount, c.opts.PageSize)
		c.state.Error = ""
		c.state.Phase = Loaded
	}
	c.signalLocked()
}

func (c *Controller[T]) signalLocked() {
	if c.settled != nil {
		close(c.settled)
		c.settled = nil
	}
}
