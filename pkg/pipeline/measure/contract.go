package measure

import "time"

// Measure keeps one metric per step.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric accumulates the runs of a single step.
type Metric interface {
	AddRun(elapsed time.Duration, files int64)
	TotalDuration() time.Duration
	Files() int64
	// AVGDuration is the average duration per processed file.
	AVGDuration() time.Duration
}
