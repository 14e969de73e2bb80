// Copyright (c) 2019-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package hashmap

// TMap is a transient map. It shares structure with the persistent
// map it was created from and edits nodes in place once it owns
// them, so a sequence of operations builds the result with far
// fewer allocations than the persistent operations would. A TMap is
// not safe for concurrent use and must not be used again after
// AsPersistent.
type TMap struct {
	edit  *uint32
	count int
	root  mapNode
}

func (t *TMap) ensureEditable() {
	if t.edit == nil {
		panic("hashmap: transient used after AsPersistent")
	}
}

// AsPersistent returns the persistent form of the transient map and
// invalidates the transient. Any further use of it panics.
func (t *TMap) AsPersistent() *Map {
	t.ensureEditable()
	t.edit = nil
	if t.count == 0 {
		return emptyMap
	}
	return &Map{count: t.count, root: t.root}
}

// Length returns the number of entries in the map.
func (t *TMap) Length() int {
	t.ensureEditable()
	return t.count
}

// Find returns the value associated with the key and whether the
// key was in the map. Find panics with ErrNilKey on a nil key.
func (t *TMap) Find(key interface{}) (interface{}, bool) {
	t.ensureEditable()
	if key == nil {
		panic(ErrNilKey)
	}
	if t.root == nil {
		return nil, false
	}
	return t.root.find(0, hash(key), key)
}

// At returns the value associated with the key or nil if the key is
// not in the map.
func (t *TMap) At(key interface{}) interface{} {
	v, _ := t.Find(key)
	return v
}

// Contains returns whether the key is in the map.
func (t *TMap) Contains(key interface{}) bool {
	_, ok := t.Find(key)
	return ok
}

// Assoc associates the value with the key in the map.
func (t *TMap) Assoc(key, val interface{}) *TMap {
	t.ensureEditable()
	if key == nil {
		panic(ErrNilKey)
	}
	var added bool
	root := t.root
	if root == nil {
		root = emptyBitmapNode
	}
	t.root = root.assoc(t.edit, 0, hash(key), key, val, &added)
	if added {
		t.count++
	}
	return t
}

// Delete removes the key from the map. Delete of a key that is not
// in the map is a no-op.
func (t *TMap) Delete(key interface{}) *TMap {
	t.ensureEditable()
	if key == nil {
		panic(ErrNilKey)
	}
	if t.root == nil {
		return t
	}
	var removed bool
	newRoot := t.root.without(t.edit, 0, hash(key), key, &removed)
	if removed {
		t.root = newRoot
		t.count--
	}
	return t
}

// Range calls the function for each entry of the map. See
// (*Map).Range for the function types Range accepts.
func (t *TMap) Range(fn interface{}) {
	t.ensureEditable()
	if t.root == nil {
		return
	}
	t.root.rangeEntries(rangeFunc(fn))
}
