package entities

import (
	"errors"
	"fmt"
)

const (
	MessageEmptyCity   = "Please enter a city name"
	MessageFetchFailed = "Failed to fetch weather data. Please try again."
)

type FetchErrorKind string

const (
	// FetchErrorNotFound covers non-2xx statuses and bodies that cannot be decoded.
	FetchErrorNotFound FetchErrorKind = "not_found"
	// FetchErrorNetwork covers transport failures.
	FetchErrorNetwork FetchErrorKind = "network"
)

type FetchError struct {
	Kind       FetchErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("weather fetch %s (status %d): %v", e.Kind, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("weather fetch %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// UserMessage is identical for every kind.
func (e *FetchError) UserMessage() string { return MessageFetchFailed }

var (
	ErrEmptyInput        = errors.New("empty city input")
	ErrSubmissionPending = errors.New("a submission is already pending")
	ErrSignalUnavailable = errors.New("ambient preference signal unavailable")
	ErrNotFound          = errors.New("not found")
	ErrSuperseded        = errors.New("superseded by a newer query")
)
