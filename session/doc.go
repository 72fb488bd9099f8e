// Package session provides the session cache: the single active refresh
// token per user and cached profile snapshots.
//
// # Backends
//
// [RedisBackend] talks to a shared Redis deployment. [MemoryBackend] is a
// process-local map with the same key and TTL semantics. [Store] composes the
// two: it serves from Redis while Redis answers, degrades to memory on
// connection failure at startup or call time, logs each transition once, and
// re-probes Redis at most once per probe interval. A call whose own context
// is canceled or past its deadline fails without degrading the store.
//
// # Keys
//
//   - refresh:<userID>  active refresh token, TTL = refresh-token lifetime
//   - user:<userID>     serialized profile snapshot, TTL = profile TTL (1h)
//
// # What this package must NOT do
//
//   - Import scrambleAuth or jwt (no upward imports).
//   - Interpret tokens or profiles; values are opaque strings.
package session
