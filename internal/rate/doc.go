// Package rate implements the fixed-window login throttle used by the engine.
//
// # Window semantics
//
// Counters are incremented through the session cache; the TTL is set on the
// first hit of a window and never extended. Key prefixes:
//   - al:  login per email
//   - ali: login per client IP
//
// A limiter with MaxLoginAttempts == 0 is disabled and never touches the
// cache.
package rate
