// Package userstore groups the [scrambleAuth.CredentialStore]
// implementations:
//
//   - memstore: process-local maps, for tests and single-node demos.
//   - mongostore: a MongoDB "users" collection with a unique email index.
//
// Both apply [scrambleAuth.User.Validate] before every write and map
// failures to the root sentinel errors.
package userstore
