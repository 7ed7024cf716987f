package domain

import (
	"errors"
	"fmt"
	"time"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// RateLimitedError carries the seconds a client must wait before retrying.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited, retry after %ds", int(e.RetryAfter.Seconds()))
}

// BotSuspectedError is intentionally vague; the reason is for logs only.
type BotSuspectedError struct {
	Reason string
}

func (e BotSuspectedError) Error() string { return "request rejected" }

// SuspiciousInputError covers honeypot and input-pattern rejections.
// Reasons stay server-side.
type SuspiciousInputError struct {
	Reasons []string
}

func (e SuspiciousInputError) Error() string { return "invalid request" }

// ExpiredError marks a reservation whose hold has lapsed.
type ExpiredError struct {
	Resource string
}

func (e ExpiredError) Error() string {
	if e.Resource == "" {
		return "expired"
	}
	return fmt.Sprintf("%s expired", e.Resource)
}

// UpstreamError wraps a failure of the external booking API.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s failed with status %d", e.Op, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("upstream %s failed", e.Op)
}

func (e UpstreamError) Unwrap() error { return e.Err }

// TimeoutError marks a bounded wait that was exhausted.
type TimeoutError struct {
	Op string
}

func (e TimeoutError) Error() string {
	if e.Op == "" {
		return "timeout"
	}
	return fmt.Sprintf("%s timed out", e.Op)
}

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsRateLimited(err error) bool {
	var target RateLimitedError
	return errors.As(err, &target)
}

func IsBotSuspected(err error) bool {
	var target BotSuspectedError
	return errors.As(err, &target)
}

func IsSuspiciousInput(err error) bool {
	var target SuspiciousInputError
	return errors.As(err, &target)
}

func IsExpired(err error) bool {
	var target ExpiredError
	return errors.As(err, &target)
}

func IsUpstream(err error) bool {
	var target UpstreamError
	return errors.As(err, &target)
}

func IsTimeout(err error) bool {
	var target TimeoutError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
