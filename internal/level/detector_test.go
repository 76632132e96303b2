package level

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/relabs-tech/bubble_level/internal/orientation"
)

type manualScheduler struct {
	mu       sync.Mutex
	fn       func()
	interval time.Duration
	stops    int
}

func (m *manualScheduler) Every(interval time.Duration, fn func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fn = fn
	m.interval = interval
	return func() {
		m.mu.Lock()
		m.stops++
		m.mu.Unlock()
	}
}

// tick invokes the scheduled callback directly, even after stop.
func (m *manualScheduler) tick(t *testing.T) {
	t.Helper()
	m.mu.Lock()
	fn := m.fn
	m.mu.Unlock()
	if fn == nil {
		t.Fatalf("nothing scheduled")
	}
	fn()
}

type fakeSource struct {
	available bool
	att       orientation.Attitude
	err       error
	reads     int
}

func (f *fakeSource) Available() bool { return f.available }

func (f *fakeSource) Next() (orientation.Attitude, error) {
	f.reads++
	if f.err != nil {
		return orientation.Attitude{}, f.err
	}
	return f.att, nil
}

type fakeUpdater struct {
	fakeSource
	startErr error
	starts   int
	stops    int
}

func (f *fakeUpdater) Start() error {
	f.starts++
	return f.startErr
}

func (f *fakeUpdater) Stop() { f.stops++ }

func newTestDetector(src orientation.Source, hub *orientation.Hub) (*Detector, *manualScheduler) {
	sched := &manualScheduler{}
	opts := Options{Scheduler: sched}
	if hub != nil {
		opts.Notifier = hub
	}
	return New(src, NewState(), opts), sched
}

func TestDetector_TickPublishesRemappedReading(t *testing.T) {
	src := &fakeSource{available: true, att: orientation.Attitude{Roll: 0.2, Pitch: 0.5, ZAcceleration: 0.03}}
	d, sched := newTestDetector(src, nil)

	var updates []Reading
	d.OnUpdate = func(r Reading) { updates = append(updates, r) }

	d.Start()
	defer d.Close()
	if sched.interval != DefaultInterval {
		t.Fatalf("interval=%v want=%v", sched.interval, DefaultInterval)
	}

	sched.tick(t)

	s := d.State()
	// Default orientation is landscape-left.
	if s.Roll() != 0.5 || s.Pitch() != -0.2 || s.ZAcceleration() != 0.03 {
		t.Fatalf("got roll=%v pitch=%v z=%v", s.Roll(), s.Pitch(), s.ZAcceleration())
	}
	if len(updates) != 1 || updates[0].Orientation != orientation.LandscapeLeft {
		t.Fatalf("updates=%+v", updates)
	}
}

func TestDetector_FlatAndUnknownNotificationsIgnored(t *testing.T) {
	hub := orientation.NewHub()
	src := &fakeSource{available: true}
	d, _ := newTestDetector(src, hub)
	d.Start()
	defer d.Close()

	hub.Publish(orientation.Portrait)
	if got := d.Orientation(); got != orientation.Portrait {
		t.Fatalf("orientation=%s want=portrait", got)
	}

	for _, dev := range []orientation.Device{orientation.FaceUp, orientation.FaceDown, orientation.Unknown} {
		hub.Publish(dev)
		if got := d.Orientation(); got != orientation.Portrait {
			t.Fatalf("after %s orientation=%s want=portrait", dev, got)
		}
	}

	hub.Publish(orientation.LandscapeRight)
	if got := d.Orientation(); got != orientation.LandscapeRight {
		t.Fatalf("orientation=%s want=landscape-right", got)
	}
}

func TestDetector_OrientationAppliedOnNextTick(t *testing.T) {
	hub := orientation.NewHub()
	src := &fakeSource{available: true, att: orientation.Attitude{Roll: 0.2, Pitch: 0.5}}
	d, sched := newTestDetector(src, hub)
	d.Start()
	defer d.Close()

	hub.Publish(orientation.LandscapeRight)
	sched.tick(t)
	if d.State().Roll() != -0.5 || d.State().Pitch() != 0.2 {
		t.Fatalf("got roll=%v pitch=%v want=(-0.5,0.2)", d.State().Roll(), d.State().Pitch())
	}
}

func TestDetector_NoMutationAfterStop(t *testing.T) {
	hub := orientation.NewHub()
	src := &fakeSource{available: true, att: orientation.Attitude{Roll: 0.1, Pitch: 0.1}}
	d, sched := newTestDetector(src, hub)
	d.Start()
	sched.tick(t)

	before, _ := d.State().Snapshot()
	n := d.State().Updates()

	d.Stop()
	if hub.Len() != 0 {
		t.Fatalf("orientation observer still registered")
	}
	if sched.stops != 1 {
		t.Fatalf("stops=%d want=1", sched.stops)
	}

	src.att = orientation.Attitude{Roll: 1, Pitch: 1, ZAcceleration: 1}
	sched.tick(t)
	sched.tick(t)

	after, _ := d.State().Snapshot()
	if d.State().Updates() != n || after != before {
		t.Fatalf("state mutated after stop: before=%+v after=%+v", before, after)
	}
}

func TestDetector_StopTwice(t *testing.T) {
	d, _ := newTestDetector(&fakeSource{available: true}, orientation.NewHub())
	d.Stop()
	d.Start()
	d.Stop()
	d.Stop()
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if d.Running() {
		t.Fatalf("expected stopped")
	}
}

func TestDetector_UnavailableNeverSamples(t *testing.T) {
	src := &fakeSource{available: false, att: orientation.Attitude{Roll: 1, Pitch: 1, ZAcceleration: 1}}
	d, sched := newTestDetector(src, nil)
	d.Start()
	defer d.Close()

	if sched.fn != nil {
		t.Fatalf("sampling scheduled although motion is unavailable")
	}
	s := d.State()
	if s.Roll() != 0 || s.Pitch() != 0 || s.ZAcceleration() != 0 || s.Updates() != 0 {
		t.Fatalf("state changed: roll=%v pitch=%v z=%v", s.Roll(), s.Pitch(), s.ZAcceleration())
	}
	if src.reads != 0 {
		t.Fatalf("reads=%d want=0", src.reads)
	}
}

func TestDetector_NoDataSkipsTick(t *testing.T) {
	src := &fakeSource{available: true, err: orientation.ErrNoData}
	d, sched := newTestDetector(src, nil)
	called := false
	d.OnUpdate = func(Reading) { called = true }
	d.Start()
	defer d.Close()

	sched.tick(t)
	if d.State().Updates() != 0 || called {
		t.Fatalf("tick without data must not publish")
	}

	src.err = errors.New("bus error")
	sched.tick(t)
	if d.State().Updates() != 0 {
		t.Fatalf("tick with read error must not publish")
	}
}

func TestDetector_UpdaterLifecycle(t *testing.T) {
	src := &fakeUpdater{fakeSource: fakeSource{available: true}}
	d, sched := newTestDetector(src, nil)
	d.Start()
	d.Start()
	if src.starts != 1 {
		t.Fatalf("starts=%d want=1", src.starts)
	}
	if sched.fn == nil {
		t.Fatalf("expected sampling scheduled")
	}
	d.Stop()
	d.Stop()
	if src.stops != 1 {
		t.Fatalf("stops=%d want=1", src.stops)
	}
}

func TestDetector_UpdaterStartFailure(t *testing.T) {
	src := &fakeUpdater{fakeSource: fakeSource{available: true}, startErr: errors.New("no port")}
	d, sched := newTestDetector(src, nil)
	d.Start()
	defer d.Close()
	if sched.fn != nil {
		t.Fatalf("sampling scheduled although updates failed to start")
	}
}

func TestDetector_InitialOrientation(t *testing.T) {
	d := New(&fakeSource{}, NewState(), Options{InitialOrientation: orientation.PortraitUpsideDown})
	if got := d.Orientation(); got != orientation.PortraitUpsideDown {
		t.Fatalf("orientation=%s want=portrait-upside-down", got)
	}
	d = New(&fakeSource{}, NewState(), Options{InitialOrientation: orientation.FaceUp})
	if got := d.Orientation(); got != orientation.LandscapeLeft {
		t.Fatalf("orientation=%s want=landscape-left", got)
	}
}

func TestDetector_TickerScheduler(t *testing.T) {
	src := &fakeSource{available: true, att: orientation.Attitude{Roll: 0.1}}
	d := New(src, NewState(), Options{Interval: time.Millisecond})

	done := make(chan struct{})
	var once sync.Once
	d.OnUpdate = func(Reading) { once.Do(func() { close(done) }) }
	d.Start()
	defer d.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("no tick within 2s")
	}
}
