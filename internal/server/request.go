package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// GraphQLRequest is one operation as sent by a client.
type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
	Extensions    map[string]any `json:"extensions,omitempty"`
}

// requestError rejects a request before any operation runs.
type requestError struct {
	status  int
	message string
}

func badRequest(msg string) *requestError {
	return &requestError{status: http.StatusBadRequest, message: msg}
}

var (
	errMethodNotAllowed = &requestError{status: http.StatusMethodNotAllowed, message: "method not allowed"}
	errBodyTooLarge     = &requestError{status: http.StatusRequestEntityTooLarge, message: "body too large"}
)

// decodeRequest reads the operations of a GET or POST request. batched
// reports whether the body was a JSON array.
func decodeRequest(r *http.Request, maxBody int64) (reqs []GraphQLRequest, batched bool, rerr *requestError) {
	if r.Method == http.MethodGet {
		req, rerr := fromQueryString(r)
		if rerr != nil {
			return nil, false, rerr
		}
		return []GraphQLRequest{req}, false, nil
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			return nil, false, badRequest("unsupported Content-Type")
		}
	}
	body, rerr := readBody(r, maxBody)
	if rerr != nil {
		return nil, false, rerr
	}

	if len(body) > 0 && body[0] == '[' {
		if err := json.Unmarshal(body, &reqs); err != nil {
			return nil, true, badRequest("invalid JSON")
		}
		if len(reqs) == 0 {
			return nil, true, badRequest("empty batch")
		}
		return reqs, true, nil
	}
	var req GraphQLRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, false, badRequest("invalid JSON")
	}
	if req.Query == "" {
		return nil, false, badRequest("missing 'query'")
	}
	return []GraphQLRequest{req}, false, nil
}

func fromQueryString(r *http.Request) (GraphQLRequest, *requestError) {
	params := r.URL.Query()
	req := GraphQLRequest{Query: params.Get("query"), OperationName: params.Get("operationName")}
	if req.Query == "" {
		return req, badRequest("missing 'query'")
	}
	if v := params.Get("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
			return req, badRequest("invalid 'variables' JSON")
		}
	}
	return req, nil
}

func readBody(r *http.Request, maxBody int64) ([]byte, *requestError) {
	defer r.Body.Close()
	var body io.Reader = r.Body
	if maxBody > 0 {
		body = http.MaxBytesReader(nil, r.Body, maxBody)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, badRequest("failed to read body")
	}
	return data, nil
}
