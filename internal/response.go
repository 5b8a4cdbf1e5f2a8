package internal

import (
	"fmt"
	"net/http"
	"strings"
)

// ResponseHeader accumulates the headers and status of a web response
// until they are sent, which happens at most once.
type ResponseHeader struct {
	headers       []string
	statusCode    int
	statusMessage string
	location      string
	sent          bool
}

// NewResponseHeader creates an empty sink with status 200.
func NewResponseHeader() *ResponseHeader {
	return &ResponseHeader{statusCode: http.StatusOK}
}

// Add appends a raw "Name: value" header line.
func (h *ResponseHeader) Add(header string) *ResponseHeader {
	h.headers = append(h.headers, header)
	return h
}

// Set replaces every header with the given name.
func (h *ResponseHeader) Set(name, value string) *ResponseHeader {
	prefix := strings.ToLower(name) + ":"
	kept := h.headers[:0]
	for _, line := range h.headers {
		if !strings.HasPrefix(strings.ToLower(line), prefix) {
			kept = append(kept, line)
		}
	}
	h.headers = append(kept, name+": "+value)
	return h
}

func (h *ResponseHeader) Headers() []string {
	return h.headers
}

func (h *ResponseHeader) SetStatusCode(code int) *ResponseHeader {
	h.statusCode = code
	return h
}

func (h *ResponseHeader) StatusCode() int {
	return h.statusCode
}

// SetStatusMessage overrides the reason phrase reported by StatusLine.
func (h *ResponseHeader) SetStatusMessage(msg string) *ResponseHeader {
	h.statusMessage = msg
	return h
}

func (h *ResponseHeader) StatusMessage() string {
	if h.statusMessage != "" {
		return h.statusMessage
	}
	return http.StatusText(h.statusCode)
}

// StatusLine formats the status line, e.g. "HTTP/1.1 404 Not Found".
func (h *ResponseHeader) StatusLine(proto string) string {
	if proto == "" {
		proto = "HTTP/1.1"
	}
	return fmt.Sprintf("%s %d %s", proto, h.statusCode, h.StatusMessage())
}

// Redirect sets a Location header. Code defaults to 301.
// A redirect suppresses the response body.
func (h *ResponseHeader) Redirect(location string, code int) {
	if code == 0 {
		code = http.StatusMovedPermanently
	}
	h.location = location
	h.statusCode = code
	h.Set("Location", location)
}

func (h *ResponseHeader) IsRedirect() bool {
	return h.location != ""
}

func (h *ResponseHeader) Sent() bool {
	return h.sent
}

// Send writes the accumulated headers and status to w.
// Nothing happens if this sink or w already sent headers.
func (h *ResponseHeader) Send(w http.ResponseWriter) {
	if h.sent {
		return
	}
	if rw, ok := w.(interface{ Written() bool }); ok && rw.Written() {
		return
	}
	h.sent = true

	for _, line := range h.headers {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		w.Header().Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}
	w.WriteHeader(h.statusCode)
}
