package price

import "net/http"

// Response is the upstream answer as seen after the transform step.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Transform rewrites an upstream response before it is accepted.
type Transform func(*Response) *Response

// StripHeaders drops every response header so identical bodies yield identical
// responses regardless of upstream date, cookie or request-id headers.
func StripHeaders(r *Response) *Response {
	if r == nil {
		return nil
	}
	out := *r
	out.Headers = http.Header{}
	return &out
}
