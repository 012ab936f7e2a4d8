// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a timestamp or duration cannot be
	// represented.
	ErrOutOfRange = errors.New("value out of range")

	// ErrShortBuffer is returned when an archived timestamp is truncated.
	ErrShortBuffer = errors.New("archived timestamp too short")

	// ErrUnsupported is returned when a template passes a value a filter
	// cannot convert.
	ErrUnsupported = errors.New("unsupported value type")
)

// Error is returned by every filter that fails. The template engine decides
// whether to abort the render or substitute a placeholder.
type Error struct {
	Filter string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("formatting failed: %s: %v", e.Filter, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(filter string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Filter: filter, Err: err}
}
