// Package middleware adapts Engine access-token validation to net/http.
//
// [Guard] reads the Authorization bearer token, calls
// Engine.ValidateAccess, and stores the verified identity in the request
// context, where handlers read it with scrambleAuth.IdentityFromContext.
// [ClientIP] records the caller address for login throttling.
//
// Rejections are written in the same JSON envelope the handlers use. The
// package never parses tokens itself.
package middleware
