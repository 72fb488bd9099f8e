// Package flows contains the orchestrators for every Engine operation.
//
// Each flow function (RunSignup, RunLogin, RunRefresh, etc.) accepts the
// request and a [Deps] value and has no side effects beyond those
// dependencies. The root engine builds Deps once and delegates to a
// [Service].
//
// # Fatal and best-effort steps
//
// Credential writes, token issuance and refresh-token storage are fatal: a
// failure aborts the operation with a host error. Notifications, profile
// cache maintenance and the refresh-token mirror on the user record are
// best-effort: failures are logged at Warn and swallowed.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import the root package (to avoid import cycles).
//   - Perform I/O directly. All I/O goes through Deps.
package flows
