package llm

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a provider failure.
type Kind int

const (
	KindUnavailable Kind = iota
	KindRateLimited
	KindInvalidOutput
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalidOutput:
		return "invalid output"
	case KindTruncated:
		return "truncated"
	}
	return "unavailable"
}

// Error is returned by every Provider in this package.
type Error struct {
	Kind       Kind
	RetryAfter time.Duration
	Output     json.RawMessage
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// fromStatus classifies an HTTP status returned by a provider SDK.
func fromStatus(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &Error{Kind: KindRateLimited, Err: err}
	}
	return &Error{Kind: KindUnavailable, Err: err}
}

func invalidOutput(raw json.RawMessage, format string, args ...any) error {
	return &Error{Kind: KindInvalidOutput, Output: raw, Err: fmt.Errorf(format, args...)}
}
