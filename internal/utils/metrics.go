package utils

import (
	"sync"
	"time"
)

// Tracks performance metrics across the system
type MetricsCollector struct {
	mu           sync.RWMutex
	requestCount uint64
	errorCount   uint64

	// Maps operation name to list of latencies in nanoseconds
	operationTimes map[string][]int64

	systemStartTime time.Time
}

// MetricsSnapshot is a point-in-time view of collected metrics,
// reported by the health endpoint.
type MetricsSnapshot struct {
	RequestCount   uint64                   `json:"requestCount"`
	ErrorCount     uint64                   `json:"errorCount"`
	UptimeSeconds  float64                  `json:"uptimeSeconds"`
	OperationStats map[string]OperationStat `json:"operationStats"`
}

// OperationStat summarizes latencies recorded for one operation.
type OperationStat struct {
	Count     int     `json:"count"`
	AvgMillis float64 `json:"avgMillis"`
	MaxMillis float64 `json:"maxMillis"`
}

func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		operationTimes:  make(map[string][]int64),
		systemStartTime: time.Now(),
	}
}

func (mc *MetricsCollector) IncrementRequests() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.requestCount++
}

func (mc *MetricsCollector) IncrementErrors() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.errorCount++
}

func (mc *MetricsCollector) AddOperationLatency(operationName string, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if _, exists := mc.operationTimes[operationName]; !exists {
		mc.operationTimes[operationName] = make([]int64, 0)
	}
	mc.operationTimes[operationName] = append(
		mc.operationTimes[operationName],
		duration.Nanoseconds(),
	)
}

// Snapshot returns a copy of the current metrics.
func (mc *MetricsCollector) Snapshot() MetricsSnapshot {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	snapshot := MetricsSnapshot{
		RequestCount:   mc.requestCount,
		ErrorCount:     mc.errorCount,
		UptimeSeconds:  time.Since(mc.systemStartTime).Seconds(),
		OperationStats: make(map[string]OperationStat, len(mc.operationTimes)),
	}

	for name, latencies := range mc.operationTimes {
		if len(latencies) == 0 {
			continue
		}
		var total, max int64
		for _, ns := range latencies {
			total += ns
			if ns > max {
				max = ns
			}
		}
		snapshot.OperationStats[name] = OperationStat{
			Count:     len(latencies),
			AvgMillis: float64(total) / float64(len(latencies)) / 1e6,
			MaxMillis: float64(max) / 1e6,
		}
	}

	return snapshot
}
