package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"

	executor "github.com/hanpama/gqltransform/internal/executor"
	language "github.com/hanpama/gqltransform/internal/language"
)

func writeJSON(w http.ResponseWriter, status int, v any, pretty bool) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	_ = enc.Encode(v)
}

func syntaxError(err error) executor.GraphQLError {
	var perr *language.Error
	if !errors.As(err, &perr) {
		return executor.GraphQLError{Message: err.Error()}
	}
	out := executor.GraphQLError{Message: perr.Message, Extensions: perr.Extensions}
	for _, loc := range perr.Locations {
		out.Locations = append(out.Locations, executor.Location{Line: loc.Line, Column: loc.Column})
	}
	return out
}

// allowCORS sets the CORS response headers when the request origin is
// allowed. Preflight requests also get the allowed methods and headers.
func allowCORS(w http.ResponseWriter, r *http.Request, allowed []string) {
	origin := r.Header.Get("Origin")
	if origin == "" || len(allowed) == 0 {
		return
	}
	hdr := w.Header()
	switch {
	case slices.Contains(allowed, "*"):
		hdr.Set("Access-Control-Allow-Origin", "*")
	case slices.Contains(allowed, origin):
		hdr.Set("Access-Control-Allow-Origin", origin)
		hdr.Add("Vary", "Origin")
	default:
		return
	}
	hdr.Set("Access-Control-Expose-Headers", RequestIDHeader)
	if r.Method != http.MethodOptions {
		return
	}
	if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
		hdr.Set("Access-Control-Allow-Headers", req)
	}
	hdr.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
}

// wantsGraphiQL reports whether a browser navigated to the endpoint.
func wantsGraphiQL(r *http.Request) bool {
	if r.Method != http.MethodGet || r.URL.Query().Has("query") {
		return false
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mt, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		if mt == "text/html" || mt == "*/*" {
			return true
		}
	}
	return false
}
