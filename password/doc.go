// Package password implements password hashing and verification.
//
// # Algorithms
//
// bcrypt is the default (cost >= 12). Argon2id is available as an
// alternative and encodes hashes in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// [Multi] hashes with the configured primary algorithm and verifies any
// supported encoding, so the primary can change without invalidating stored
// credentials. [Hasher.NeedsRehash] reports hashes that should be upgraded on
// the next successful login.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// character classes) is enforced by input validation before hashing.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other scrambleAuth package.
//   - Log plaintext passwords.
package password
