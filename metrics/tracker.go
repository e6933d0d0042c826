package metrics

import (
	"strconv"
	"sync"
	"time"
)

// Tracker collects in-process performance counters: per-route request
// counts/latencies and per-operation store timings. It is constructed once at
// startup and shared by the HTTP middleware and the repositories' callers;
// everything is guarded by one mutex.
type Tracker struct {
	mu sync.RWMutex

	startedAt time.Time

	requests map[string]*requestStat
	storeOps map[string]*storeStat
}

type requestStat struct {
	count         int64
	totalDuration time.Duration
	maxDuration   time.Duration
	byStatus      map[int]int64
}

type storeStat struct {
	count         int64
	failures      int64
	totalDuration time.Duration
	maxDuration   time.Duration
}

func NewTracker() *Tracker {
	return &Tracker{
		startedAt: time.Now(),
		requests:  make(map[string]*requestStat),
		storeOps:  make(map[string]*storeStat),
	}
}

// RecordRequest records one completed HTTP request for the given route label.
func (t *Tracker) RecordRequest(route string, status int, duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stat, ok := t.requests[route]
	if !ok {
		stat = &requestStat{byStatus: make(map[int]int64)}
		t.requests[route] = stat
	}
	stat.count++
	stat.totalDuration += duration
	if duration > stat.maxDuration {
		stat.maxDuration = duration
	}
	stat.byStatus[status]++
}

// RecordStoreOp records one store round trip for the named operation.
func (t *Tracker) RecordStoreOp(op string, duration time.Duration, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	stat, ok := t.storeOps[op]
	if !ok {
		stat = &storeStat{}
		t.storeOps[op] = stat
	}
	stat.count++
	stat.totalDuration += duration
	if duration > stat.maxDuration {
		stat.maxDuration = duration
	}
	if err != nil {
		stat.failures++
	}
}

// Reset clears all counters. The uptime baseline restarts too.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.startedAt = time.Now()
	t.requests = make(map[string]*requestStat)
	t.storeOps = make(map[string]*storeStat)
}

// RequestMetrics is the serialized form of one route's counters.
type RequestMetrics struct {
	Count       int64           `json:"count"`
	AvgDuration string          `json:"avg_duration"`
	MaxDuration string          `json:"max_duration"`
	ByStatus    map[string]int64 `json:"by_status"`
}

// StoreMetrics is the serialized form of one store operation's counters.
type StoreMetrics struct {
	Count       int64  `json:"count"`
	Failures    int64  `json:"failures"`
	AvgDuration string `json:"avg_duration"`
	MaxDuration string `json:"max_duration"`
}

// Snapshot is the JSON document served by the metrics endpoint.
type Snapshot struct {
	Uptime   string                    `json:"uptime"`
	Requests map[string]RequestMetrics `json:"requests"`
	StoreOps map[string]StoreMetrics   `json:"store_ops"`
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Snapshot{
		Uptime:   time.Since(t.startedAt).String(),
		Requests: make(map[string]RequestMetrics, len(t.requests)),
		StoreOps: make(map[string]StoreMetrics, len(t.storeOps)),
	}

	for route, stat := range t.requests {
		avg := time.Duration(0)
		if stat.count > 0 {
			avg = stat.totalDuration / time.Duration(stat.count)
		}
		byStatus := make(map[string]int64, len(stat.byStatus))
		for status, n := range stat.byStatus {
			byStatus[strconv.Itoa(status)] = n
		}
		snap.Requests[route] = RequestMetrics{
			Count:       stat.count,
			AvgDuration: avg.String(),
			MaxDuration: stat.maxDuration.String(),
			ByStatus:    byStatus,
		}
	}

	for op, stat := range t.storeOps {
		avg := time.Duration(0)
		if stat.count > 0 {
			avg = stat.totalDuration / time.Duration(stat.count)
		}
		snap.StoreOps[op] = StoreMetrics{
			Count:       stat.count,
			Failures:    stat.failures,
			AvgDuration: avg.String(),
			MaxDuration: stat.maxDuration.String(),
		}
	}

	return snap
}
