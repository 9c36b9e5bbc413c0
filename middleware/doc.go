// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, client IP) and completion (status,
duration_ms).

# CORS Middleware

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows GET, POST and OPTIONS with Content-Type and X-Admin-Key headers.

# Errors

WriteError maps the poll error taxonomy onto HTTP statuses:

	not found                                   404
	closed, duplicate voter, still open         409
	schema, type, option, ranking, response     400
	anything else                               500

The body is always models.ErrorResponse with the reason code from
models.ReasonCode, so clients can tell a duplicate voter from a closed
poll without parsing messages.
*/
package middleware
