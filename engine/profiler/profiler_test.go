package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestTickReportsAfterInterval(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	reports := make(chan Report, 4)
	p := NewProfiler(WithClock(clock.Now), WithReportSink(func(r Report) { reports <- r }))
	defer p.Close()

	for range 59 {
		clock.Advance(10 * time.Millisecond)
		_, ok := p.Tick()
		require.False(t, ok)
	}

	clock.Advance(410 * time.Millisecond)
	stats, ok := p.Tick()
	require.True(t, ok)
	assert.Equal(t, 60, stats.Frames)
	assert.Equal(t, time.Second, stats.Elapsed)
	assert.InDelta(t, 60.0, stats.FPS, 1e-9)
	assert.Equal(t, time.Second/60, stats.FrameTime)

	select {
	case r := <-reports:
		assert.Equal(t, stats, r.Stats)
		assert.Greater(t, r.HeapMB, 0.0)
		assert.Greater(t, r.SysMB, 0.0)
	case <-time.After(5 * time.Second):
		t.Fatal("report was not delivered")
	}
}

func TestTickResetsCounter(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.Now), WithInterval(100*time.Millisecond), WithReportSink(func(Report) {}))
	defer p.Close()

	clock.Advance(100 * time.Millisecond)
	stats, ok := p.Tick()
	require.True(t, ok)
	assert.Equal(t, 1, stats.Frames)

	clock.Advance(50 * time.Millisecond)
	_, ok = p.Tick()
	assert.False(t, ok)

	clock.Advance(50 * time.Millisecond)
	stats, ok = p.Tick()
	require.True(t, ok)
	assert.Equal(t, 2, stats.Frames)
}

func TestOptionsIgnoreInvalidValues(t *testing.T) {
	p := NewProfiler(WithInterval(0), WithClock(nil), WithReportSink(nil), WithWorkers(0)).(*profiler)
	defer p.Close()

	assert.Equal(t, time.Second, p.interval)
	assert.NotNil(t, p.clock)
	assert.NotNil(t, p.sink)
	assert.Equal(t, 1, p.workers)
}

func TestTickNeverWaitsOnFullQueue(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	release := make(chan struct{})
	delivered := make(chan Report, 2*reportQueueSize)
	p := NewProfiler(WithClock(clock.Now), WithInterval(time.Millisecond), WithReportSink(func(r Report) {
		<-release
		delivered <- r
	}))
	defer p.Close()

	ticks := 3 * reportQueueSize
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range ticks {
			clock.Advance(time.Millisecond)
			p.Tick()
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Tick blocked behind a stalled report sink")
	}
	assert.Equal(t, ticks-reportQueueSize, p.Dropped())

	close(release)
	for range reportQueueSize {
		select {
		case <-delivered:
		case <-time.After(5 * time.Second):
			t.Fatal("queued report was not delivered")
		}
	}
}

func TestTickAfterCloseSkipsReports(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	p := NewProfiler(WithClock(clock.Now), WithInterval(time.Millisecond), WithReportSink(func(Report) {}))
	p.Close()
	p.Close()

	clock.Advance(time.Millisecond)
	stats, ok := p.Tick()
	assert.True(t, ok)
	assert.Equal(t, 1, stats.Frames)
	assert.Zero(t, p.Dropped())
}
