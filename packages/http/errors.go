package http

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrorKind classifies where in the transaction a failure happened
type ErrorKind int

const (
	ErrorURL ErrorKind = iota
	ErrorDNS
	ErrorConnect
	ErrorWrite
	ErrorRead
	ErrorClose
	ErrorCanceled
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorURL:
		return "URL parsing failed"
	case ErrorDNS:
		return "DNS lookup failed"
	case ErrorConnect:
		return "connection failed"
	case ErrorWrite:
		return "write failed"
	case ErrorRead:
		return "read failed"
	case ErrorClose:
		return "close failed"
	case ErrorCanceled:
		return "transaction canceled"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// TransactionError is the single failure outcome of a transaction
type TransactionError struct {
	Kind ErrorKind
	Addr string
	Err  error
}

func (e *TransactionError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Kind, e.Addr, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// IsConnectionRefused reports whether err came from a refused connect
func IsConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

func classifyDialError(addr string, err error) *TransactionError {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &TransactionError{Kind: ErrorDNS, Addr: addr, Err: err}
	}
	return &TransactionError{Kind: ErrorConnect, Addr: addr, Err: err}
}
