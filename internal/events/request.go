package events

import "time"

// RequestReceived is published when the GraphQL endpoint accepts an HTTP
// request. The publishing context carries the request ID.
type RequestReceived struct {
	Method string
	Path   string
	Remote string
}

// RequestServed is published after the response status is written.
// Operations counts the GraphQL operations the request carried, which is
// zero for preflight, GraphiQL and rejected requests.
type RequestServed struct {
	Method     string
	Path       string
	Status     int
	Operations int
	Duration   time.Duration
}

// OperationStart precedes each GraphQL operation. Entries of a batch are
// numbered by Index in request order; a single request has Index 0.
type OperationStart struct {
	Index int
	Name  string
	Type  string
}

// OperationFinish follows OperationStart once the result is known.
type OperationFinish struct {
	Index    int
	Name     string
	Type     string
	Errors   []error
	Duration time.Duration
}
