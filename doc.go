// Package scrambleAuth provides the authentication and profile engine of
// the Scramble task application: signup, login, token refresh, logout,
// password change, and cached profile reads.
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// scrambleAuth is the public surface. It exposes [Engine], [Builder],
// [Config], the request/response types and the [CredentialStore] contract.
// Flow orchestration, input validation, login throttling and notification
// dispatch live under internal/ and are never exported. Durable storage
// lives in userstore/mongostore and userstore/memstore; the session cache
// lives in session.
//
// # Token model
//
// Access and refresh tokens are HS256 JWTs signed with different secrets.
// Exactly one refresh token per user is stored in the session cache under
// refresh:<userId>; a refresh is honored only when the presented token
// equals the stored one. Overwriting or deleting that entry revokes every
// outstanding refresh token of the user.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or encoding details in its public API.
//   - Perform I/O outside of Engine methods and Build (which probes the cache).
//   - Import any sub-package that re-imports scrambleAuth (no import cycles).
package scrambleAuth
