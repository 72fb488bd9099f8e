// Package internal groups the engine's private building blocks.
//
//   - flows: one orchestrator per Engine operation, over injected deps
//   - notify: asynchronous notification dispatch and sinks
//   - rate: login attempt throttling over the session cache
//   - validation: request field rules and normalization
package internal
