// Copyright (c) 2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import "errors"

// Failed path navigation is reported as one of four conditions,
// wrapped in a *PathError that records where the walk stopped. Match
// them with errors.Is.
var (
	// ErrIndexOutOfRange reports an array step whose index is at or
	// beyond the array's length.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrKeyNotFound reports an object step whose key is absent.
	ErrKeyNotFound = errors.New("key not found")

	// ErrTypeMismatch reports a step applied to a value of the wrong
	// kind, indexing into a number for instance.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrEmptyCollection reports element access on an empty array,
	// removing from one or taking its last element.
	ErrEmptyCollection = errors.New("empty collection")
)

// PathError records an error from a path operation, the operation
// that failed, the full path it was applied to, and the step at which
// the walk stopped.
type PathError struct {
	Op   string
	Path string
	Step string
	Err  error
}

func (e *PathError) Error() string {
	return e.Op + " " + e.Path + " at " + e.Step + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }
