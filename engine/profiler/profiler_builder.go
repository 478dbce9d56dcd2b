package profiler

import "time"

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*profiler)

// WithInterval sets how often Tick produces Stats. Values <= 0 keep the 1 second default.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *profiler) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithClock replaces time.Now as the profiler's time source.
func WithClock(clock func() time.Time) ProfilerBuilderOption {
	return func(p *profiler) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithReportSink replaces the default log output. The sink runs on a worker goroutine.
//
// Parameters:
//   - sink: receives each Report
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithReportSink(sink func(Report)) ProfilerBuilderOption {
	return func(p *profiler) {
		if sink != nil {
			p.sink = sink
		}
	}
}

// WithWorkers sets the number of report workers.
func WithWorkers(n int) ProfilerBuilderOption {
	return func(p *profiler) {
		if n > 0 {
			p.workers = n
		}
	}
}
