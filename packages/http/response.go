package http

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

var headerTerminator = []byte("\r\n\r\n")

// Response holds the raw bytes accumulated over one transaction
type Response struct {
	ID       string
	Raw      []byte
	Duration time.Duration
	// TimedOut is set when the idle deadline, not the peer, ended the read
	TimedOut bool
}

// Header is a single response header line
type Header struct {
	Key   string
	Value string
}

// SplitResponse cuts raw at the first blank line. ok is false when the
// response never reached the end of its header block.
func SplitResponse(raw []byte) (head, body []byte, ok bool) {
	return bytes.Cut(raw, headerTerminator)
}

// Body returns the content after the header block, or nil if there is none
func (r *Response) Body() []byte {
	_, body, ok := SplitResponse(r.Raw)
	if !ok {
		return nil
	}
	return body
}

func (r *Response) BodyString() string {
	return string(r.Body())
}

func (r *Response) Size() int {
	return len(r.Raw)
}

// StatusLine returns the first line of the response
func (r *Response) StatusLine() string {
	line, _, _ := strings.Cut(string(r.Raw), crlf)
	return line
}

// StatusCode parses the code out of the status line; zero when the response
// does not start with an HTTP status line.
func (r *Response) StatusCode() int {
	fields := strings.Fields(r.StatusLine())
	if len(fields) < 2 || !strings.HasPrefix(fields[0], "HTTP/") {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

// Headers returns the response headers in arrival order
func (r *Response) Headers() []Header {
	head, _, _ := SplitResponse(r.Raw)
	lines := strings.Split(string(head), crlf)
	if len(lines) < 2 {
		return nil
	}

	headers := make([]Header, 0, len(lines)-1)
	for _, line := range lines[1:] {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		headers = append(headers, Header{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	return headers
}

// Header returns the first header matching key case-insensitively
func (r *Response) Header(key string) string {
	for _, h := range r.Headers() {
		if strings.EqualFold(h.Key, key) {
			return h.Value
		}
	}
	return ""
}

func (r *Response) ContentType() string {
	return r.Header("Content-Type")
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType(), "application/json")
}

func (r *Response) IsSuccess() bool {
	code := r.StatusCode()
	return code >= 200 && code < 300
}

func (r *Response) IsClientError() bool {
	code := r.StatusCode()
	return code >= 400 && code < 500
}

func (r *Response) IsServerError() bool {
	return r.StatusCode() >= 500
}

func (r *Response) DurationMs() int64 {
	return r.Duration.Milliseconds()
}
