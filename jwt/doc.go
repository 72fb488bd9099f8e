// Package jwt issues and verifies the two token classes used by the engine.
//
// Access and refresh tokens are HS256-signed with distinct secrets and carry
// a typ claim, so a token of one class never verifies as the other even if a
// caller passes it to the wrong endpoint. Every token carries a random jti,
// which makes two tokens issued in the same second distinct.
package jwt
