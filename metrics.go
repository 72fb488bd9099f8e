package scrambleAuth

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricSignupSuccess counts completed signups.
	MetricSignupSuccess MetricID = iota
	// MetricSignupConflict counts signups rejected for a taken email.
	MetricSignupConflict
	// MetricSignupFailure counts signups that failed for any other reason.
	MetricSignupFailure
	// MetricLoginSuccess counts successful logins.
	MetricLoginSuccess
	// MetricLoginFailure counts rejected logins.
	MetricLoginFailure
	// MetricLoginRateLimited counts logins refused by the throttle.
	MetricLoginRateLimited
	// MetricRefreshSuccess counts issued access tokens.
	MetricRefreshSuccess
	// MetricRefreshFailure counts rejected refresh attempts.
	MetricRefreshFailure
	// MetricLogout counts logouts.
	MetricLogout
	// MetricPasswordChangeSuccess counts completed password changes.
	MetricPasswordChangeSuccess
	// MetricPasswordChangeInvalidOld counts password changes with a wrong old password.
	MetricPasswordChangeInvalidOld
	// MetricProfileCacheHit counts profile reads served from the cache.
	MetricProfileCacheHit
	// MetricProfileCacheMiss counts profile reads that fell back to the store.
	MetricProfileCacheMiss
	// MetricProfileUpdated counts successful profile updates.
	MetricProfileUpdated
	// MetricCacheDegraded counts transitions of the session cache to its in-memory fallback.
	MetricCacheDegraded
	// MetricCacheWriteFailure counts best-effort cache writes that failed.
	MetricCacheWriteFailure
	// MetricNotificationDropped counts notifications dropped because the buffer was full.
	MetricNotificationDropped
	// MetricNotificationFailed counts notifications the sink failed to deliver.
	MetricNotificationFailed
	// MetricAccountDeactivated counts deactivated accounts.
	MetricAccountDeactivated
	// MetricValidateLatency is the access-token validation latency histogram.
	MetricValidateLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is a fixed set of lock-free counters plus one latency histogram.
// A nil or disabled Metrics ignores every call.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns a Metrics configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to the counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram of id. Only MetricValidateLatency has a
// histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricValidateLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// Value returns the current value of counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies the current values.
//
// Counters are read individually; the snapshot is not atomic across ids.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricValidateLatency].buckets[i])
		}
		s.Histograms[MetricValidateLatency] = buckets
	}

	return s
}

// LatencyBucketBounds returns the inclusive upper bounds, in seconds, of the
// latency histogram buckets. The last bucket is unbounded.
func LatencyBucketBounds() []float64 {
	return []float64{0.005, 0.010, 0.025, 0.050, 0.100, 0.250, 0.500}
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
