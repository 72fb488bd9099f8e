// Package httpapi exposes the Engine over JSON/HTTP.
//
// Every response, success or failure, is a scrambleAuth.Response envelope.
// Routes:
//
//	POST  /auth/signup                 201
//	POST  /auth/login
//	POST  /auth/refresh
//	POST  /auth/me/logout              bearer
//	GET   /users/me                    bearer
//	PATCH /users/me                    bearer
//	PUT   /users/me/update/password    bearer
//	POST  /users/me/deactivate         bearer
//	GET   /health
package httpapi
