// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// internalError is the REST error body written after a panic.
type internalError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Data    internalErrorData `json:"data"`
}

type internalErrorData struct {
	Status    int    `json:"status"`
	RequestID string `json:"request_id,omitempty"`
}

// Recoverer catches panics in downstream handlers, logs the stack trace,
// and answers with a rest_internal_error body. http.ErrAbortHandler is
// re-raised so the server can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			id := GetRequestID(r.Context())
			slog.Error("panic recovered",
				"error", rec,
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)

			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(internalError{
				Code:    "rest_internal_error",
				Message: "Internal Server Error",
				Data:    internalErrorData{Status: http.StatusInternalServerError, RequestID: id},
			})
		}()

		next.ServeHTTP(w, r)
	})
}
