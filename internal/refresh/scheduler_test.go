package refresh

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blockingFetch records calls and lets the test hold the first one open.
type blockingFetch struct {
	mu       sync.Mutex
	seqs     []uint64
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	entered chan struct{} // signalled once per call
	release chan struct{} // first call blocks until closed
	blockN  int           // how many calls block on release
}

func newBlockingFetch(blockN int) *blockingFetch {
	return &blockingFetch{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
		blockN:  blockN,
	}
}

func (f *blockingFetch) fn(ctx context.Context, seq uint64) error {
	cur := f.inFlight.Add(1)
	if cur > f.maxSeen.Load() {
		f.maxSeen.Store(cur)
	}
	defer f.inFlight.Add(-1)

	f.mu.Lock()
	f.seqs = append(f.seqs, seq)
	call := len(f.seqs)
	f.mu.Unlock()

	f.entered <- struct{}{}
	if call <= f.blockN {
		<-f.release
	}
	return nil
}

func (f *blockingFetch) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seqs)
}

func TestNowRunsRegisteredFetcher(t *testing.T) {
	sched := New(nil)
	defer sched.Close()
	fetch := newBlockingFetch(0)
	sched.Register("salaries:2025-03", fetch.fn)

	require.NoError(t, sched.Now(context.Background(), "salaries:2025-03"))
	require.NoError(t, sched.Now(context.Background(), "salaries:2025-03"))

	fetch.mu.Lock()
	defer fetch.mu.Unlock()
	assert.Equal(t, []uint64{1, 2}, fetch.seqs, "sequence numbers increase per scope")
}

func TestUnknownScope(t *testing.T) {
	sched := New(nil)
	defer sched.Close()
	err := sched.Now(context.Background(), "nope:1")
	assert.ErrorIs(t, err, ErrUnknownScope)
}

func TestMidFlightTriggersCoalesceIntoOneDeferredRun(t *testing.T) {
	sched := New(nil)
	defer sched.Close()
	fetch := newBlockingFetch(1)
	scope := "salaries:2025-03"
	sched.Register(scope, fetch.fn)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = sched.Now(context.Background(), scope)
	}()
	<-fetch.entered // first flight is now holding

	// Two triggers land mid-flight: they must share one deferred run, not
	// be dropped and not each start their own.
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			_ = sched.Now(context.Background(), scope)
		}()
	}
	time.Sleep(50 * time.Millisecond) // let both enqueue behind the flight
	assert.Equal(t, 1, fetch.calls(), "only one request in flight at a time")

	close(fetch.release)
	wg.Wait()

	assert.Equal(t, 2, fetch.calls(), "mid-flight triggers coalesce into exactly one rerun")
	assert.Equal(t, int32(1), fetch.maxSeen.Load(), "flights for one scope never overlap")
}

func TestHammeredScopeNeverOverlapsFlights(t *testing.T) {
	sched := New(nil)
	defer sched.Close()
	scope := "salaries:2025-03"

	var inFlight, calls atomic.Int32
	var overlapped atomic.Bool
	var lastSeq uint64
	var monotonic atomic.Bool
	monotonic.Store(true)
	sched.Register(scope, func(ctx context.Context, seq uint64) error {
		if inFlight.Add(1) > 1 {
			overlapped.Store(true)
		}
		// Serialized flights make this unsynchronized read/write safe; a
		// violation shows up as overlapped anyway.
		if seq <= lastSeq {
			monotonic.Store(false)
		}
		lastSeq = seq
		calls.Add(1)
		time.Sleep(100 * time.Microsecond)
		inFlight.Add(-1)
		return nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 40; j++ {
				_ = sched.Now(context.Background(), scope)
			}
		}()
	}
	wg.Wait()

	assert.False(t, overlapped.Load(), "one scope never has two flights in flight")
	assert.True(t, monotonic.Load(), "sequence numbers only move forward")
	assert.Positive(t, calls.Load())
}

func TestDeferredRunObservesLaterState(t *testing.T) {
	sched := New(nil)
	defer sched.Close()
	scope := "payment-requests:en_attente"

	var observed atomic.Int64
	var state atomic.Int64
	entered := make(chan struct{}, 4)
	release := make(chan struct{})
	first := true
	var mu sync.Mutex
	sched.Register(scope, func(ctx context.Context, seq uint64) error {
		mu.Lock()
		isFirst := first
		first = false
		mu.Unlock()
		val := state.Load() // what the server "returns" for this fetch
		entered <- struct{}{}
		if isFirst {
			<-release
		}
		observed.Store(val)
		return nil
	})

	go sched.Now(context.Background(), scope)
	<-entered

	// A mutation lands while the refresh is in flight, then triggers its
	// own refresh. The deferred run must see the post-mutation state.
	state.Store(42)
	done := make(chan error, 1)
	go func() { done <- sched.Now(context.Background(), scope) }()
	time.Sleep(20 * time.Millisecond)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, int64(42), observed.Load())
}

func TestScopesRefreshIndependently(t *testing.T) {
	sched := New(nil)
	defer sched.Close()
	a := newBlockingFetch(0)
	b := newBlockingFetch(0)
	sched.Register("a:1", a.fn)
	sched.Register("b:1", b.fn)

	require.NoError(t, sched.Now(context.Background(), "a:1", "b:1"))
	assert.Equal(t, 1, a.calls())
	assert.Equal(t, 1, b.calls())
}

func TestSilentLoopSwallowsErrors(t *testing.T) {
	sched := New(nil)
	defer sched.Close()
	scope := "salaries:2025-03"
	var calls atomic.Int32
	sched.Register(scope, func(ctx context.Context, seq uint64) error {
		calls.Add(1)
		return errors.New("réseau indisponible")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Silent(ctx, 10*time.Millisecond, scope)

	assert.Eventually(t, func() bool { return calls.Load() >= 3 },
		time.Second, 5*time.Millisecond,
		"the loop must keep polling through failures")
}

func TestSilentLoopStopsOnCancel(t *testing.T) {
	sched := New(nil)
	defer sched.Close()
	scope := "salaries:2025-03"
	var calls atomic.Int32
	sched.Register(scope, func(ctx context.Context, seq uint64) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	sched.Silent(ctx, 10*time.Millisecond, scope)
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, calls.Load(), "no refreshes after teardown")
}

func TestClosedSchedulerRefuses(t *testing.T) {
	sched := New(nil)
	fetch := newBlockingFetch(0)
	sched.Register("a:1", fetch.fn)
	sched.Close()

	err := sched.Now(context.Background(), "a:1")
	assert.ErrorIs(t, err, ErrClosed)
	assert.Zero(t, fetch.calls(), "results after teardown are discarded, not applied")
}
