package http

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// DefaultPort is used when the URL carries no explicit port
const DefaultPort = 80

// ErrInvalidURL is returned when a URL cannot be decomposed
var ErrInvalidURL = errors.New("invalid URL")

// URL is the decomposed form of a request target.
// Path never carries the leading slash.
type URL struct {
	Host string
	Port int
	Path string
}

var schemePrefixes = []string{"http://", "https://"}

// ParseURL splits a URL into host, port and path. The scheme prefix is
// stripped case-insensitively and the path is everything after the first
// slash, query string included.
func ParseURL(raw string) (*URL, error) {
	rest := raw
	for _, prefix := range schemePrefixes {
		if len(rest) >= len(prefix) && strings.EqualFold(rest[:len(prefix)], prefix) {
			rest = rest[len(prefix):]
			break
		}
	}

	hostPort, path, _ := strings.Cut(rest, "/")

	host, port, err := splitHostPort(hostPort)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidURL, raw, err)
	}

	return &URL{
		Host: host,
		Port: port,
		Path: path,
	}, nil
}

func splitHostPort(hostPort string) (string, int, error) {
	host := hostPort
	portStr := ""

	if strings.HasPrefix(hostPort, "[") {
		end := strings.Index(hostPort, "]")
		if end == -1 {
			return "", 0, errors.New("unterminated IPv6 literal")
		}
		host = hostPort[1:end]
		if tail := hostPort[end+1:]; tail != "" {
			if !strings.HasPrefix(tail, ":") {
				return "", 0, fmt.Errorf("unexpected %q after host", tail)
			}
			portStr = tail[1:]
		}
	} else if h, p, found := strings.Cut(hostPort, ":"); found {
		host = h
		portStr = p
	}

	if host == "" {
		return "", 0, errors.New("missing host")
	}

	if portStr == "" {
		return host, DefaultPort, nil
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("bad port %q", portStr)
	}
	return host, port, nil
}

// Address returns the dialable host:port pair
func (u *URL) Address() string {
	return net.JoinHostPort(u.Host, strconv.Itoa(u.Port))
}

// RequestTarget returns the path as it appears in the request line
func (u *URL) RequestTarget() string {
	return "/" + u.Path
}

func (u *URL) String() string {
	return "http://" + u.Address() + u.RequestTarget()
}
