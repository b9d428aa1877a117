package http

import (
	"bytes"
	"strconv"
)

// ProtocolVersion is the only protocol version the engine speaks
const ProtocolVersion = "HTTP/1.0"

const crlf = "\r\n"

// Method is an HTTP request method
type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

// Request is a single HTTP/1.0 call. Headers are raw "key:value" lines kept
// in the order they were added; duplicates are allowed.
type Request struct {
	Method  Method
	URL     string
	Headers []string
	Body    string
}

// NewRequest creates a request with no headers and no body
func NewRequest(method Method, requestURL string) *Request {
	return &Request{
		Method: method,
		URL:    requestURL,
	}
}

// AddHeader appends a raw key:value header line
func (r *Request) AddHeader(header string) *Request {
	r.Headers = append(r.Headers, header)
	return r
}

// SetBody sets the POST body
func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

// BuildRequest assembles the wire form of a request. POST requests always
// get a Content-Length computed from body ahead of the caller's headers.
// The body is ignored for GET.
func BuildRequest(method Method, u *URL, headers []string, body string) []byte {
	var buf bytes.Buffer

	buf.WriteString(string(method))
	buf.WriteByte(' ')
	buf.WriteString(u.RequestTarget())
	buf.WriteByte(' ')
	buf.WriteString(ProtocolVersion)
	buf.WriteString(crlf)

	if method == MethodPost {
		buf.WriteString("Content-Length: ")
		buf.WriteString(strconv.Itoa(len(body)))
		buf.WriteString(crlf)
	}

	for _, h := range headers {
		buf.WriteString(h)
		buf.WriteString(crlf)
	}
	buf.WriteString(crlf)

	if method == MethodPost {
		buf.WriteString(body)
	}

	return buf.Bytes()
}
