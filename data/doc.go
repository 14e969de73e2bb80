// Copyright (c) 2019, AT&T Intellectual Property.
//
// SPDX-License-Identifier: MPL-2.0

// Package data implements a convenient object model for interacting with
// arbitrary JSON data. The Documents, Objects, and Arrays in this library
// are immutable. This means that updating a structure yields a new copy
// with the changes made, which is made efficient by sharing much of the
// structure of the new value with the old one. Readers never need to
// coordinate with writers, any value they hold is stable for as long as
// they keep it. The library is based on the central Value type that
// holds an arbitrary JSON value; an Object, an Array, a number, a
// string, a bool, or null. This may be thought of as a restricted form
// of the go interface{} type. The provided Document type wraps a value
// with complex operations, path based navigation and updates, merges,
// and diffs. Decoding folds repeated strings and scalars into shared
// instances so large messages with recurring keys stay compact.
package data
