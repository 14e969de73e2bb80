// Copyright (c) 2019-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package vector

import (
	"fmt"
	"strings"
)

// TVector is a transient vector. It shares structure with the
// persistent vector it was created from and edits nodes in place
// once it owns them, so a sequence of operations builds the result
// with far fewer allocations than the persistent operations would.
// A TVector is not safe for concurrent use and must not be used
// again after AsPersistent.
type TVector struct {
	edit   *uint32
	count  int
	height uint
	root   *node
	tail   []interface{}
}

func (t *TVector) ensureEditable() {
	if t.edit == nil {
		panic("vector: transient used after AsPersistent")
	}
}

// editable returns n if the transient owns it, otherwise an owned
// copy of it.
func (t *TVector) editable(n *node) *node {
	if n.edit == t.edit {
		return n
	}
	m := *n
	m.edit = t.edit
	return &m
}

// AsPersistent returns the persistent form of the transient vector
// and invalidates the transient. Any further use of it panics.
func (t *TVector) AsPersistent() *Vector {
	t.ensureEditable()
	t.edit = nil
	if t.count == 0 {
		return empty
	}
	return &Vector{
		count:  t.count,
		height: t.height,
		root:   t.root,
		tail:   t.tail,
	}
}

// Length returns the number of elements in the vector.
func (t *TVector) Length() int {
	t.ensureEditable()
	return t.count
}

func (t *TVector) sliceFor(i int) []interface{} {
	if i >= tailoff(t.count) {
		return t.tail
	}
	n := t.root
	for shift := t.height * bitChunk; shift > 0; shift -= bitChunk {
		n = n.array[(i>>shift)&chunkMask].(*node)
	}
	return n.array[:]
}

// At returns the element at index i. At panics with ErrRange if i is
// out of bounds; Find is the non panicking variant.
func (t *TVector) At(i int) interface{} {
	t.ensureEditable()
	if i < 0 || i >= t.count {
		panic(ErrRange)
	}
	return t.sliceFor(i)[i&chunkMask]
}

// Find returns the element at index i and whether the index was in
// the bounds of the vector.
func (t *TVector) Find(i int) (interface{}, bool) {
	t.ensureEditable()
	if i < 0 || i >= t.count {
		return nil, false
	}
	return t.sliceFor(i)[i&chunkMask], true
}

// Append adds val to the end of the vector.
func (t *TVector) Append(val interface{}) *TVector {
	t.ensureEditable()
	// Room in the tail?
	if t.count-tailoff(t.count) < tailMaxLen {
		t.tail = append(t.tail, val)
		t.count++
		return t
	}
	// Full tail, push it into the trie.
	tailNode := &node{edit: t.edit}
	copy(tailNode.array[:], t.tail)
	newTail := make([]interface{}, 1, nodeCap)
	newTail[0] = val
	// Overflow root?
	if (t.count >> bitChunk) > (1 << (t.height * bitChunk)) {
		newRoot := &node{edit: t.edit}
		newRoot.array[0] = t.root
		newRoot.array[1] = newPath(t.edit, t.height, tailNode)
		t.root = newRoot
		t.height++
	} else {
		t.root = t.pushTail(t.height, t.root, tailNode)
	}
	t.tail = newTail
	t.count++
	return t
}

func (t *TVector) pushTail(height uint, n *node, tail *node) *node {
	if height == 0 {
		return tail
	}
	idx := ((t.count - 1) >> (height * bitChunk)) & chunkMask
	m := t.editable(n)
	child := m.array[idx]
	if child == nil {
		m.array[idx] = newPath(t.edit, height-1, tail)
	} else {
		m.array[idx] = t.pushTail(height-1, child.(*node), tail)
	}
	return m
}

// Assoc associates the value with the index in the vector. Assoc of
// Length() appends val to the end of the vector. Assoc panics with
// ErrRange if i is outside [0, Length()].
func (t *TVector) Assoc(i int, val interface{}) *TVector {
	t.ensureEditable()
	switch {
	case i < 0 || i > t.count:
		panic(ErrRange)
	case i == t.count:
		return t.Append(val)
	case i >= tailoff(t.count):
		t.tail[i&chunkMask] = val
		return t
	default:
		t.root = t.doAssoc(t.height, t.root, i, val)
		return t
	}
}

func (t *TVector) doAssoc(height uint, n *node, i int, val interface{}) *node {
	m := t.editable(n)
	if height == 0 {
		m.array[i&chunkMask] = val
	} else {
		sub := (i >> (height * bitChunk)) & chunkMask
		m.array[sub] = t.doAssoc(height-1, m.array[sub].(*node), i, val)
	}
	return m
}

// Pop removes the last element from the vector. Pop panics with
// ErrEmpty if the vector is empty.
func (t *TVector) Pop() *TVector {
	t.ensureEditable()
	switch t.count {
	case 0:
		panic(ErrEmpty)
	case 1:
		t.count = 0
		t.height = 0
		t.root = nil
		t.tail = t.tail[:0]
		return t
	}
	if t.count-tailoff(t.count) > 1 {
		t.tail[len(t.tail)-1] = nil
		t.tail = t.tail[:len(t.tail)-1]
		t.count--
		return t
	}
	// The tail empties, pull the rightmost leaf out of the trie to
	// become the new tail.
	newTail := make([]interface{}, nodeCap)
	copy(newTail, t.sliceFor(t.count-2))
	newRoot := t.popTail(t.height, t.root)
	if t.height > 0 && newRoot.array[1] == nil {
		newRoot = newRoot.array[0].(*node)
		t.height--
	}
	t.root = newRoot
	t.tail = newTail
	t.count--
	return t
}

func (t *TVector) popTail(level uint, n *node) *node {
	idx := ((t.count - 2) >> (level * bitChunk)) & chunkMask
	if level > 1 {
		newChild := t.popTail(level-1, n.array[idx].(*node))
		if newChild == nil && idx == 0 {
			return nil
		}
		m := t.editable(n)
		if newChild == nil {
			// Store an untyped nil, a typed nil *node would
			// read back as a live child.
			m.array[idx] = nil
		} else {
			m.array[idx] = newChild
		}
		return m
	} else if idx == 0 {
		return nil
	}
	m := t.editable(n)
	m.array[idx] = nil
	return m
}

// Delete removes the element at index i from the vector and shifts
// the later elements down. Delete is linear in the length of the
// vector. Delete panics with ErrRange if i is out of bounds.
func (t *TVector) Delete(i int) *TVector {
	t.ensureEditable()
	if i < 0 || i >= t.count {
		panic(ErrRange)
	}
	out := &TVector{edit: t.edit, tail: make([]interface{}, 0, nodeCap)}
	t.Range(func(j int, elem interface{}) {
		if j != i {
			out.Append(elem)
		}
	})
	*t = *out
	return t
}

// Range calls the function for each element of the vector in index
// order. See (*Vector).Range for the function types Range accepts.
func (t *TVector) Range(fn interface{}) {
	t.ensureEditable()
	rangeVector(t.count, t.sliceFor, fn)
}

// String returns a string representation of the vector.
func (t *TVector) String() string {
	t.ensureEditable()
	var b strings.Builder
	b.WriteByte('[')
	t.Range(func(i int, elem interface{}) {
		if i != 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", elem)
	})
	b.WriteByte(']')
	return b.String()
}
