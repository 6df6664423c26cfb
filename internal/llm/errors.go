package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// FailureKind says why a request produced no usable reply. The retry layer
// and the tutor both decide what to do next from it.
type FailureKind int

const (
	// Unavailable covers outages, network errors and unexpected statuses.
	Unavailable FailureKind = iota
	RateLimited
	// Unauthorized means the API key was rejected. Asking again will not help.
	Unauthorized
	// BadReply means the model answered with something empty or off-schema.
	BadReply
	// Truncated means the reply was cut off at MaxTokens.
	Truncated
)

func (k FailureKind) String() string {
	switch k {
	case RateLimited:
		return "rate limited"
	case Unauthorized:
		return "unauthorized"
	case BadReply:
		return "bad reply"
	case Truncated:
		return "truncated"
	default:
		return "unavailable"
	}
}

// Error is the failure every provider returns.
type Error struct {
	Kind     FailureKind
	Provider string

	// RetryAfter is the wait the provider asked for, if any.
	RetryAfter time.Duration

	// Reply holds what the model sent for BadReply and Truncated.
	Reply json.RawMessage
	Err   error
}

func (e *Error) Error() string {
	msg := e.Provider + ": " + e.Kind.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (FailureKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// callError classifies a failed SDK call from its HTTP status. A status of
// zero means the request never got a response. Context errors pass through
// so callers can tell a timeout from an outage.
func callError(provider string, status int, retryAfter string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	e := &Error{Kind: Unavailable, Provider: provider, Err: err}
	switch status {
	case http.StatusTooManyRequests:
		e.Kind = RateLimited
		if secs, convErr := strconv.Atoi(strings.TrimSpace(retryAfter)); convErr == nil && secs > 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = Unauthorized
	}
	return e
}

// finish checks the text a model produced and turns it into reply content.
func finish(provider string, req Request, text string, truncated bool) (json.RawMessage, error) {
	content := json.RawMessage(strings.TrimSpace(text))
	if truncated {
		return nil, &Error{Kind: Truncated, Provider: provider, Reply: content}
	}
	if len(content) == 0 {
		return nil, &Error{Kind: BadReply, Provider: provider, Err: errors.New("empty reply")}
	}
	if err := validateReply(req.Schema, content); err != nil {
		return nil, &Error{Kind: BadReply, Provider: provider, Reply: content, Err: err}
	}
	return content, nil
}
