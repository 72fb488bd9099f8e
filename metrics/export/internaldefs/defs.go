package internaldefs

import (
	scrambleAuth "github.com/MrEthical07/scrambleAuth"
)

// CounterDef names one engine counter for exporters.
type CounterDef struct {
	ID   scrambleAuth.MetricID
	Name string
	Help string
}

// HistogramDef names one engine histogram for exporters.
type HistogramDef struct {
	ID   scrambleAuth.MetricID
	Name string
	Help string
}

// NotificationsDroppedName is the counter fed by Engine.NotificationsDropped.
const NotificationsDroppedName = "scramble_notifications_dropped_total"

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: scrambleAuth.MetricSignupSuccess, Name: "scramble_signup_success_total", Help: "Completed signups."},
	{ID: scrambleAuth.MetricSignupConflict, Name: "scramble_signup_conflict_total", Help: "Signups rejected because the email is taken."},
	{ID: scrambleAuth.MetricSignupFailure, Name: "scramble_signup_failure_total", Help: "Signups that failed for any other reason."},
	{ID: scrambleAuth.MetricLoginSuccess, Name: "scramble_login_success_total", Help: "Successful logins."},
	{ID: scrambleAuth.MetricLoginFailure, Name: "scramble_login_failure_total", Help: "Rejected logins."},
	{ID: scrambleAuth.MetricLoginRateLimited, Name: "scramble_login_rate_limited_total", Help: "Logins refused by the throttle."},
	{ID: scrambleAuth.MetricRefreshSuccess, Name: "scramble_refresh_success_total", Help: "Successful token refreshes."},
	{ID: scrambleAuth.MetricRefreshFailure, Name: "scramble_refresh_failure_total", Help: "Rejected token refreshes."},
	{ID: scrambleAuth.MetricLogout, Name: "scramble_logout_total", Help: "Logouts."},
	{ID: scrambleAuth.MetricPasswordChangeSuccess, Name: "scramble_password_change_success_total", Help: "Completed password changes."},
	{ID: scrambleAuth.MetricPasswordChangeInvalidOld, Name: "scramble_password_change_invalid_old_total", Help: "Password changes with a wrong old password."},
	{ID: scrambleAuth.MetricProfileCacheHit, Name: "scramble_profile_cache_hit_total", Help: "Profile reads served from the cache."},
	{ID: scrambleAuth.MetricProfileCacheMiss, Name: "scramble_profile_cache_miss_total", Help: "Profile reads served from the store."},
	{ID: scrambleAuth.MetricProfileUpdated, Name: "scramble_profile_updated_total", Help: "Profile updates."},
	{ID: scrambleAuth.MetricCacheDegraded, Name: "scramble_cache_degraded_total", Help: "Switches of the session cache to the in-memory fallback."},
	{ID: scrambleAuth.MetricCacheWriteFailure, Name: "scramble_cache_write_failure_total", Help: "Best-effort cache writes that failed."},
	{ID: scrambleAuth.MetricNotificationFailed, Name: "scramble_notification_failed_total", Help: "Notifications the sink failed to deliver."},
	{ID: scrambleAuth.MetricAccountDeactivated, Name: "scramble_account_deactivated_total", Help: "Deactivated accounts."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: scrambleAuth.MetricValidateLatency, Name: "scramble_validate_latency_seconds", Help: "Access-token validation latency."},
}

// HistogramUpperBounds are the finite bucket bounds in seconds. The engine
// keeps one more bucket for +Inf.
var HistogramUpperBounds = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket, +Inf last, for exporters that
// cannot carry bucket labels.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets copies raw into a fixed-size array, padding with zeros.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
