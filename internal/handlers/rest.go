// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the REST handlers for block templates and the
// post template check. Handlers receive their dependencies through the
// handler struct and answer with JSON bodies.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"blockpress/internal/resolver"
)

// REST error codes.
const (
	codeNotFound        = "rest_template_not_found"
	codeInvalidParam    = "rest_invalid_param"
	codeInvalidID       = "rest_invalid_template_id"
	codeInvalidTemplate = "rest_invalid_template"
	codeInternal        = "rest_internal_error"
)

// restError is the JSON body of every error response.
type restError struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Data    restErrorData `json:"data"`
}

type restErrorData struct {
	Status int               `json:"status"`
	Params map[string]string `json:"params,omitempty"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError writes a REST error body.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, restError{Code: code, Message: message, Data: restErrorData{Status: status}})
}

// writeInvalidParam reports a single invalid request parameter.
func writeInvalidParam(w http.ResponseWriter, param, message string) {
	writeJSON(w, http.StatusBadRequest, restError{
		Code:    codeInvalidParam,
		Message: "Invalid parameter(s): " + param,
		Data: restErrorData{
			Status: http.StatusBadRequest,
			Params: map[string]string{param: message},
		},
	})
}

// writeResolverError maps resolver errors to REST responses. Unexpected
// errors are logged and reported as internal errors.
func writeResolverError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *resolver.InvalidParamError
	switch {
	case errors.Is(err, resolver.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "No templates exist with that id.")
	case errors.Is(err, resolver.ErrInvalidID):
		writeError(w, http.StatusBadRequest, codeInvalidID, "Invalid template id.")
	case errors.As(err, &invalid):
		writeInvalidParam(w, invalid.Param, invalid.Message)
	default:
		slog.Error("template request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "Internal Server Error")
	}
}

// requestFields parses the _fields parameter.
func requestFields(r *http.Request) []string {
	raw := r.URL.Query().Get("_fields")
	if raw == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
