package llm

import (
	"errors"
	"fmt"
)

// Category tells the retry loop whether another attempt can help.
type Category int

const (
	// Recoverable errors are retried with backoff: 408, 429, 5xx and network failures.
	Recoverable Category = iota
	// Irrecoverable errors fail immediately: remaining 4xx and malformed replies.
	Irrecoverable
)

func (c Category) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ProviderError is a classified failure from a remote provider. Message is
// safe to show to an end user.
type ProviderError struct {
	Category   Category
	StatusCode int // 0 for non-HTTP failures
	Message    string
	Underlying error
}

func (e *ProviderError) Error() string { return e.Message }

func (e *ProviderError) Unwrap() error { return e.Underlying }

// Detail renders the classification for logs.
func (e *ProviderError) Detail() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %s", e.Category, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Category, e.Message)
}

// ClassifyStatus maps a non-success HTTP status to a ProviderError. detail is
// the provider-supplied error message, if any.
func ClassifyStatus(provider string, status int, detail string) *ProviderError {
	e := &ProviderError{Category: categoryFor(status), StatusCode: status}
	switch status {
	case 429:
		e.Message = "Rate limit exceeded. Please try again in a moment."
	case 401:
		e.Message = fmt.Sprintf("Invalid API key. Please check your %s configuration.", provider)
	case 403:
		e.Message = fmt.Sprintf("Access forbidden. Please check your %s account permissions.", provider)
	default:
		if detail != "" {
			e.Message = detail
		} else {
			e.Message = fmt.Sprintf("API request failed with status %d", status)
		}
	}
	e.Underlying = fmt.Errorf("%s: HTTP %d", provider, status)
	return e
}

func categoryFor(status int) Category {
	switch {
	case status == 408, status == 429:
		return Recoverable
	case status >= 400 && status < 500:
		return Irrecoverable
	default:
		return Recoverable
	}
}

// NewNetworkError wraps a transport failure; these are always retried.
func NewNetworkError(op string, err error) *ProviderError {
	return &ProviderError{
		Category:   Recoverable,
		Message:    fmt.Sprintf("%s network error: %v", op, err),
		Underlying: err,
	}
}

// NewMalformedError reports a 2xx reply that carried no usable completion.
func NewMalformedError(op string, err error) *ProviderError {
	return &ProviderError{
		Category:   Irrecoverable,
		Message:    fmt.Sprintf("%s returned an unusable reply", op),
		Underlying: err,
	}
}

// IsIrrecoverable reports whether err must not be retried.
func IsIrrecoverable(err error) bool {
	if errors.Is(err, ErrNotConfigured) {
		return true
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category == Irrecoverable
	}
	return false
}
