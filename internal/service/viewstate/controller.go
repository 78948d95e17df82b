package viewstate

import (
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/retention-center/pkg/config"
)

// Phase is the list view's position in its request lifecycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSearching  Phase = "searching"
	PhaseDisplaying Phase = "displaying"
	PhaseError      Phase = "error"
)

// State is an immutable snapshot of a list view. Controller transitions
// return fresh snapshots; callers never mutate one in place.
type State struct {
	Phase   Phase
	Query   string
	Page    int
	Results interface{}
	Err     error
	// Seq identifies the request whose response produced this state.
	Seq uint64
}

// Request is a dispatched fetch. The owner performs the I/O and reports back
// through Controller.Complete with the same sequence number.
type Request struct {
	Seq   uint64
	Query string
	Page  int
}

// Options tune a Controller. Zero values fall back to production defaults.
type Options struct {
	Debounce    time.Duration
	MinQueryLen int
	CacheTTL    time.Duration
	CacheSize   int
	Clock       Clock
	Scheduler   Scheduler
}

// OptionsFromConfig maps the cache section of the server configuration onto
// controller options, so embedding hosts tune the debounce window and cache
// bound from the same file as everything else. Unset values keep the
// NewController defaults.
func OptionsFromConfig(cfg config.CacheConfig) Options {
	return Options{
		Debounce:  cfg.DebounceWindow,
		CacheSize: cfg.MaxEntries,
	}
}

// Controller drives one list view: debounced search input, pagination,
// stale-response suppression, and a bounded TTL response cache. It assumes a
// single-threaded event loop; network completions must be delivered on the
// same loop that calls SetQuery/SetPage.
type Controller struct {
	start    func(Request)
	cache    *ResponseCache
	sched    Scheduler
	debounce time.Duration
	minQuery int
	actor    string
	log      *zap.Logger

	state         State
	latestSeq     uint64
	pendingQuery  string
	cancelPending CancelFunc
}

// NewController wires a controller for one view. start is invoked whenever a
// request must actually hit the backend; the owner calls Complete when the
// response (or failure) arrives.
func NewController(actor string, start func(Request), opts Options, log *zap.Logger) *Controller {
	if opts.Debounce <= 0 {
		opts.Debounce = 350 * time.Millisecond
	}
	if opts.MinQueryLen <= 0 {
		opts.MinQueryLen = 2
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Scheduler == nil {
		opts.Scheduler = SystemScheduler()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}

	return &Controller{
		start:    start,
		cache:    NewResponseCache(opts.CacheTTL, opts.CacheSize, opts.Clock),
		sched:    opts.Scheduler,
		debounce: opts.Debounce,
		minQuery: opts.MinQueryLen,
		actor:    actor,
		log:      log,
		state:    State{Phase: PhaseIdle, Page: 1},
	}
}

// State returns the current snapshot.
func (c *Controller) State() State { return c.state }

// SetQuery records new search input. Queries shorter than the minimum are
// rejected without a request (an empty query resets to page one of the
// unfiltered list). The actual dispatch waits out the debounce window; more
// input inside the window replaces the pending dispatch.
func (c *Controller) SetQuery(text string) {
	if text != "" && len(text) < c.minQuery {
		return
	}

	c.pendingQuery = text
	if c.cancelPending != nil {
		c.cancelPending()
	}
	c.cancelPending = c.sched.After(c.debounce, func() {
		c.cancelPending = nil
		c.dispatch(c.pendingQuery, 1)
	})
}

// SetPage requests another page of the current query immediately.
func (c *Controller) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	c.dispatch(c.state.Query, page)
}

// Retry re-issues the last failed request.
func (c *Controller) Retry() {
	if c.state.Phase != PhaseError {
		return
	}
	c.dispatch(c.state.Query, c.state.Page)
}

// Complete delivers a response for the request identified by seq. A response
// for anything but the most recently issued request is stale: it is
// discarded without touching the displayed state. This is what keeps a slow
// "foo" response from overwriting newer "bar" results.
func (c *Controller) Complete(seq uint64, results interface{}, err error) {
	if seq != c.latestSeq {
		if c.log != nil {
			c.log.Debug("Discarding stale response",
				zap.Uint64("seq", seq),
				zap.Uint64("latest", c.latestSeq),
			)
		}
		return
	}

	if err != nil {
		// Keep the previous results visible behind the error state.
		c.state = State{
			Phase:   PhaseError,
			Query:   c.state.Query,
			Page:    c.state.Page,
			Results: c.state.Results,
			Err:     err,
			Seq:     seq,
		}
		return
	}

	c.cache.Put(c.requestKey(c.state.Query, c.state.Page), results)
	c.state = State{
		Phase:   PhaseDisplaying,
		Query:   c.state.Query,
		Page:    c.state.Page,
		Results: results,
		Seq:     seq,
	}
}

func (c *Controller) dispatch(query string, page int) {
	c.latestSeq++
	seq := c.latestSeq

	if cached, ok := c.cache.Get(c.requestKey(query, page)); ok {
		c.state = State{
			Phase:   PhaseDisplaying,
			Query:   query,
			Page:    page,
			Results: cached,
			Seq:     seq,
		}
		return
	}

	c.state = State{
		Phase:   PhaseSearching,
		Query:   query,
		Page:    page,
		Results: c.state.Results,
		Seq:     seq,
	}
	c.start(Request{Seq: seq, Query: query, Page: page})
}

func (c *Controller) requestKey(query string, page int) string {
	return Key("list", c.actor, query, page)
}
