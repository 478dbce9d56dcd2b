package profiler

import (
	"log"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// reportQueueSize is the task queue capacity of the report pool. Reports beyond it are dropped.
const reportQueueSize = 16

// Stats summarizes the frames counted during one reporting interval.
type Stats struct {
	Frames    int
	Elapsed   time.Duration
	FPS       float64
	FrameTime time.Duration
}

// Report is a Stats sample together with process memory statistics gathered on the worker pool.
type Report struct {
	Stats

	// HeapMB is bytes of allocated heap objects (live memory).
	HeapMB float64
	// AllocRateMB is heap churn over the interval in MB/s.
	AllocRateMB float64
	// SysMB is total bytes obtained from the OS.
	SysMB float64

	GCCount     uint32
	LastPauseUs uint64
	MaxPauseUs  uint64
}

type profiler struct {
	interval time.Duration
	clock    func() time.Time
	sink     func(Report)
	workers  int

	frameCount int
	lastTime   time.Time
	taskID     int

	pool worker.DynamicWorkerPool
	// pending counts reports submitted to the pool and not yet finished. It stays below
	// reportQueueSize so SubmitTask never waits on a full queue.
	pending atomic.Int32
	dropped int
	closed  bool

	// memMu guards the fields below, which are only touched by report tasks.
	memMu          sync.Mutex
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// Profiler tracks frame rate and memory statistics for performance monitoring.
// Tick is called from the render loop; memory statistics are read and reported on a background worker
// so the frame never waits on runtime.ReadMemStats.
type Profiler interface {
	// Tick should be called once per frame to track frame timing.
	// When the update interval has elapsed it returns the interval's Stats and queues a Report.
	//
	// Returns:
	//   - Stats: the frame statistics for the interval that just ended
	//   - bool: true if an interval ended on this tick
	Tick() (Stats, bool)

	// Dropped returns how many reports were discarded because the report queue was full.
	// Tick never waits for the queue.
	Dropped() int

	// Close stops the report workers. Reports still queued are dropped, and later ticks only return Stats.
	Close()
}

var _ Profiler = &profiler{}

// NewProfiler creates a new Profiler. The update interval defaults to 1 second and reports are
// written to the standard logger.
//
// Parameters:
//   - options: ProfilerBuilderOption functions
//
// Returns:
//   - Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) Profiler {
	p := &profiler{
		interval: time.Second,
		clock:    time.Now,
		sink:     logReport,
		workers:  1,
	}
	for _, opt := range options {
		opt(p)
	}
	p.lastTime = p.clock()
	p.pool = worker.NewDynamicWorkerPool(p.workers, reportQueueSize, 1*time.Second)
	return p
}

func (p *profiler) Tick() (Stats, bool) {
	p.frameCount++
	now := p.clock()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.interval {
		return Stats{}, false
	}

	stats := Stats{
		Frames:    p.frameCount,
		Elapsed:   elapsed,
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		FrameTime: elapsed / time.Duration(p.frameCount),
	}
	p.frameCount = 0
	p.lastTime = now

	if p.closed {
		return stats, true
	}
	if p.pending.Load() >= reportQueueSize {
		p.dropped++
		log.Printf("[Profiler] report queue full, dropped %d report(s)", p.dropped)
		return stats, true
	}
	p.pending.Add(1)

	id := p.taskID
	p.taskID++
	p.pool.SubmitTask(worker.Task{
		ID:      id,
		Payload: stats,
		Do: func() (any, error) {
			defer p.pending.Add(-1)
			report := p.collect(stats)
			p.sink(report)
			return report, nil
		},
	})
	return stats, true
}

func (p *profiler) Dropped() int {
	return p.dropped
}

func (p *profiler) Close() {
	if p.closed {
		return
	}
	p.closed = true
	p.pool.Stop()
}

// collect reads memory statistics and computes the per-interval deltas.
func (p *profiler) collect(stats Stats) Report {
	p.memMu.Lock()
	defer p.memMu.Unlock()

	runtime.ReadMemStats(&p.memStats)
	report := Report{
		Stats:  stats,
		HeapMB: float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:  float64(p.memStats.Sys) / 1024 / 1024,
	}

	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	if secs := stats.Elapsed.Seconds(); secs > 0 {
		report.AllocRateMB = float64(allocDelta) / 1024 / 1024 / secs
	}

	gcCount := p.memStats.NumGC
	report.GCCount = gcCount
	if gcCount > 0 {
		// PauseNs is a circular buffer of last 256 GC pauses
		report.LastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := p.memStats.PauseNs[i%256] / 1000
			if pause > report.MaxPauseUs {
				report.MaxPauseUs = pause
			}
		}
	}

	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return report
}

func logReport(r Report) {
	log.Printf("[Profiler] FPS: %.2f | Frame: %s | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		r.FPS, r.FrameTime, r.HeapMB, r.AllocRateMB, r.GCCount, r.LastPauseUs, r.MaxPauseUs, r.SysMB)
}
