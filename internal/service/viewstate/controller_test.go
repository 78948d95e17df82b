package viewstate

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/retention-center/pkg/config"
)

// manualClock and manualScheduler drive debounce and TTL logic without real
// timers. Advance fires due callbacks in schedule order.
type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

type scheduled struct {
	due       time.Time
	fn        func()
	cancelled bool
}

type manualScheduler struct {
	clock   *manualClock
	pending []*scheduled
}

func (s *manualScheduler) After(d time.Duration, fn func()) CancelFunc {
	entry := &scheduled{due: s.clock.now.Add(d), fn: fn}
	s.pending = append(s.pending, entry)
	return func() { entry.cancelled = true }
}

func (s *manualScheduler) Advance(d time.Duration) {
	s.clock.now = s.clock.now.Add(d)
	for _, e := range s.pending {
		if !e.cancelled && !e.due.After(s.clock.now) {
			e.cancelled = true
			e.fn()
		}
	}
}

func newTestController(opts Options) (*Controller, *manualScheduler, *[]Request) {
	clock := &manualClock{now: time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC)}
	sched := &manualScheduler{clock: clock}
	opts.Clock = clock
	opts.Scheduler = sched

	var issued []Request
	c := NewController("operator@example.com", func(r Request) {
		issued = append(issued, r)
	}, opts, zap.NewNop())
	return c, sched, &issued
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.CacheConfig{
		DebounceWindow: 500 * time.Millisecond,
		MaxEntries:     64,
	})
	if opts.Debounce != 500*time.Millisecond {
		t.Errorf("Debounce = %v, want 500ms", opts.Debounce)
	}
	if opts.CacheSize != 64 {
		t.Errorf("CacheSize = %d, want 64", opts.CacheSize)
	}

	// An unset section keeps the constructor defaults in force.
	c, _, _ := newTestController(OptionsFromConfig(config.CacheConfig{}))
	if c.debounce != 350*time.Millisecond {
		t.Errorf("debounce = %v, want the 350ms default", c.debounce)
	}
	if c.minQuery != 2 {
		t.Errorf("minQuery = %d, want the default 2", c.minQuery)
	}
}

func TestController_ShortQueryRejected(t *testing.T) {
	c, sched, issued := newTestController(Options{})

	c.SetQuery("a")
	sched.Advance(time.Second)

	if len(*issued) != 0 {
		t.Fatalf("short query issued %d requests, want 0", len(*issued))
	}
	if c.State().Phase != PhaseIdle {
		t.Errorf("phase = %s, want %s", c.State().Phase, PhaseIdle)
	}
}

func TestController_TwoCharQueryAccepted(t *testing.T) {
	c, sched, issued := newTestController(Options{})

	c.SetQuery("ab")
	if len(*issued) != 0 {
		t.Fatal("request issued before debounce window elapsed")
	}

	sched.Advance(400 * time.Millisecond)
	if len(*issued) != 1 {
		t.Fatalf("issued %d requests, want 1", len(*issued))
	}
	if (*issued)[0].Query != "ab" {
		t.Errorf("query = %q, want %q", (*issued)[0].Query, "ab")
	}
	if c.State().Phase != PhaseSearching {
		t.Errorf("phase = %s, want %s", c.State().Phase, PhaseSearching)
	}
}

func TestController_DebounceCoalescesKeystrokes(t *testing.T) {
	c, sched, issued := newTestController(Options{})

	c.SetQuery("ac")
	sched.Advance(100 * time.Millisecond)
	c.SetQuery("acm")
	sched.Advance(100 * time.Millisecond)
	c.SetQuery("acme")
	sched.Advance(400 * time.Millisecond)

	if len(*issued) != 1 {
		t.Fatalf("issued %d requests, want 1", len(*issued))
	}
	if (*issued)[0].Query != "acme" {
		t.Errorf("query = %q, want %q (only final input should fire)", (*issued)[0].Query, "acme")
	}
}

func TestController_StaleResponseDiscarded(t *testing.T) {
	c, sched, issued := newTestController(Options{})

	c.SetQuery("foo")
	sched.Advance(400 * time.Millisecond)
	c.SetQuery("bar")
	sched.Advance(400 * time.Millisecond)

	if len(*issued) != 2 {
		t.Fatalf("issued %d requests, want 2", len(*issued))
	}
	fooReq, barReq := (*issued)[0], (*issued)[1]

	// The newer response lands first; the older one arrives late.
	c.Complete(barReq.Seq, "bar results", nil)
	c.Complete(fooReq.Seq, "foo results", nil)

	st := c.State()
	if st.Phase != PhaseDisplaying {
		t.Errorf("phase = %s, want %s", st.Phase, PhaseDisplaying)
	}
	if st.Results != "bar results" {
		t.Errorf("results = %v, want %q (stale response overwrote newer one)", st.Results, "bar results")
	}
}

func TestController_PageChangeSupersedesInFlight(t *testing.T) {
	c, sched, issued := newTestController(Options{})

	c.SetQuery("acme")
	sched.Advance(400 * time.Millisecond)
	c.SetPage(2)

	if len(*issued) != 2 {
		t.Fatalf("issued %d requests, want 2", len(*issued))
	}

	// Page-1 response arrives after the page-2 request was issued.
	c.Complete((*issued)[0].Seq, "page one", nil)
	if c.State().Results == "page one" {
		t.Error("superseded page-1 response was rendered")
	}

	c.Complete((*issued)[1].Seq, "page two", nil)
	if c.State().Results != "page two" {
		t.Errorf("results = %v, want %q", c.State().Results, "page two")
	}
}

func TestController_ErrorKeepsPreviousResults(t *testing.T) {
	c, sched, issued := newTestController(Options{})

	c.SetQuery("acme")
	sched.Advance(400 * time.Millisecond)
	c.Complete((*issued)[0].Seq, "good results", nil)

	c.SetPage(2)
	c.Complete((*issued)[1].Seq, nil, errors.New("connection reset"))

	st := c.State()
	if st.Phase != PhaseError {
		t.Errorf("phase = %s, want %s", st.Phase, PhaseError)
	}
	if st.Err == nil {
		t.Error("expected error in state")
	}
	if st.Results != "good results" {
		t.Errorf("results = %v, want previous results preserved", st.Results)
	}
}

func TestController_RetryAfterError(t *testing.T) {
	c, sched, issued := newTestController(Options{})

	c.SetQuery("acme")
	sched.Advance(400 * time.Millisecond)
	c.Complete((*issued)[0].Seq, nil, errors.New("timeout"))

	c.Retry()
	if len(*issued) != 2 {
		t.Fatalf("issued %d requests after retry, want 2", len(*issued))
	}
	c.Complete((*issued)[1].Seq, "recovered", nil)
	if c.State().Phase != PhaseDisplaying || c.State().Results != "recovered" {
		t.Errorf("state after retry = %+v, want displaying recovered results", c.State())
	}
}

func TestController_CacheHitSkipsRequest(t *testing.T) {
	c, sched, issued := newTestController(Options{CacheTTL: 5 * time.Minute})

	c.SetQuery("acme")
	sched.Advance(400 * time.Millisecond)
	c.Complete((*issued)[0].Seq, "cached results", nil)

	// Navigate away and back to the same query.
	c.SetQuery("other")
	sched.Advance(400 * time.Millisecond)
	c.Complete((*issued)[1].Seq, "other results", nil)

	c.SetQuery("acme")
	sched.Advance(400 * time.Millisecond)

	if len(*issued) != 2 {
		t.Fatalf("issued %d requests, want 2 (revisit should be served from cache)", len(*issued))
	}
	if c.State().Results != "cached results" {
		t.Errorf("results = %v, want cache hit", c.State().Results)
	}
	if c.State().Phase != PhaseDisplaying {
		t.Errorf("phase = %s, want %s", c.State().Phase, PhaseDisplaying)
	}
}

func TestController_CacheExpiry(t *testing.T) {
	c, sched, issued := newTestController(Options{CacheTTL: 2 * time.Minute})

	c.SetQuery("acme")
	sched.Advance(400 * time.Millisecond)
	c.Complete((*issued)[0].Seq, "first", nil)

	sched.Advance(3 * time.Minute)
	c.SetQuery("acme")
	// Force re-dispatch of the same query by paging.
	c.SetPage(1)

	if len(*issued) != 2 {
		t.Fatalf("issued %d requests, want 2 (entry should have expired)", len(*issued))
	}
}

func TestResponseCache_LRUEviction(t *testing.T) {
	clock := &manualClock{now: time.Unix(0, 0)}
	cache := NewResponseCache(time.Hour, 3, clock)

	cache.Put("a", 1)
	cache.Put("b", 2)
	cache.Put("c", 3)

	// Touch "a" so "b" becomes the oldest.
	if _, ok := cache.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}

	cache.Put("d", 4)
	if cache.Len() != 3 {
		t.Errorf("len = %d, want 3", cache.Len())
	}
	if _, ok := cache.Get("b"); ok {
		t.Error("expected b to be evicted as least recently used")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := cache.Get(k); !ok {
			t.Errorf("expected %s to survive eviction", k)
		}
	}
}

func TestResponseCache_KeyIncludesActor(t *testing.T) {
	a := Key("list", "alice@example.com", "acme", 1)
	b := Key("list", "bob@example.com", "acme", 1)
	if a == b {
		t.Errorf("cache keys for different actors collide: %s", a)
	}
}
