package remote

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("remote unavailable")
	ErrRejected    = errors.New("request rejected")
	// ErrMalformedResponse marks a successful response whose body could
	// not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)

// RemoteError reports a failed call against the posts collection.
// Status is zero for transport failures.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func transportError(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
}

func malformedError(op string, status int, err error) *RemoteError {
	return &RemoteError{Op: op, Status: status, Err: fmt.Errorf("%w: %v", ErrMalformedResponse, err)}
}

func statusError(op string, status int, body string) *RemoteError {
	var kind error
	switch {
	case status == http.StatusNotFound:
		kind = ErrNotFound
	case status >= 500 || status == http.StatusTooManyRequests:
		kind = ErrUnavailable
	default:
		kind = ErrRejected
	}
	if body != "" && body != "{}" {
		return &RemoteError{Op: op, Status: status, Err: fmt.Errorf("%w: %s", kind, body)}
	}
	return &RemoteError{Op: op, Status: status, Err: kind}
}
