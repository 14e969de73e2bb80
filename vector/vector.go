// Copyright (c) 2019-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package vector implements a persistent vector. The vector is a
// bit-partitioned trie with a tail buffer; lookups and updates are
// O(log32 n) and appends are amortized O(1). Vectors are immutable,
// the mutation methods return new structurally shared copies of the
// original vector with the changes. Bulk edits may be made with the
// transient vector obtained from AsTransient.
package vector

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"jsouthworth.net/go/dyn"
)

const (
	bitChunk   = 5
	nodeCap    = 1 << bitChunk
	tailMaxLen = nodeCap
	chunkMask  = nodeCap - 1
)

var (
	// ErrRange is the panic value for index operations outside the
	// bounds of the vector.
	ErrRange = errors.New("vector: index out of range")
	// ErrEmpty is the panic value for Pop of an empty vector.
	ErrEmpty = errors.New("vector: empty vector")
)

// node is a trie node. edit is the ownership token of the transient
// that allocated the node; it is nil on nodes reachable from
// persistent vectors.
type node struct {
	edit  *uint32
	array [nodeCap]interface{}
}

func (n *node) clone() *node {
	m := *n
	m.edit = nil
	return &m
}

// newPath builds a left branching path of the given height down to
// the leaf.
func newPath(edit *uint32, height uint, leaf *node) *node {
	if height == 0 {
		return leaf
	}
	ret := &node{edit: edit}
	ret.array[0] = newPath(edit, height-1, leaf)
	return ret
}

// tailoff returns the number of elements stored in the trie rather
// than the tail.
func tailoff(count int) int {
	if count < tailMaxLen {
		return 0
	}
	return ((count - 1) >> bitChunk) << bitChunk
}

// Vector is a persistent vector. The zero value is a valid empty
// vector.
type Vector struct {
	count int
	// height of the trie, 0 when the root is a leaf.
	height uint
	root   *node
	tail   []interface{}
}

var empty = &Vector{}

// Empty returns the empty vector.
func Empty() *Vector {
	return empty
}

// New returns a vector containing the supplied elements.
func New(elems ...interface{}) *Vector {
	return From(elems)
}

// From returns a vector containing the elements of the supplied
// slice or array. Vectors are passed through unchanged.
func From(value interface{}) *Vector {
	switch v := value.(type) {
	case nil:
		return empty
	case *Vector:
		return v
	case []interface{}:
		return empty.Transform(func(t *TVector) *TVector {
			for _, elem := range v {
				t = t.Append(elem)
			}
			return t
		})
	}
	val := reflect.ValueOf(value)
	switch val.Kind() {
	case reflect.Slice, reflect.Array:
		return empty.Transform(func(t *TVector) *TVector {
			for i := 0; i < val.Len(); i++ {
				t = t.Append(val.Index(i).Interface())
			}
			return t
		})
	default:
		panic(fmt.Sprintf("vector: cannot create a vector from %T", value))
	}
}

// Length returns the number of elements in the vector.
func (v *Vector) Length() int {
	return v.count
}

// sliceFor returns the chunk holding index i. The caller is
// responsible for the bounds check.
func (v *Vector) sliceFor(i int) []interface{} {
	if i >= tailoff(v.count) {
		return v.tail
	}
	n := v.root
	for shift := v.height * bitChunk; shift > 0; shift -= bitChunk {
		n = n.array[(i>>shift)&chunkMask].(*node)
	}
	return n.array[:]
}

// At returns the element at index i. At panics with ErrRange if i is
// out of bounds; Find is the non panicking variant.
func (v *Vector) At(i int) interface{} {
	if i < 0 || i >= v.count {
		panic(ErrRange)
	}
	return v.sliceFor(i)[i&chunkMask]
}

// Find returns the element at index i and whether the index was in
// the bounds of the vector.
func (v *Vector) Find(i int) (interface{}, bool) {
	if i < 0 || i >= v.count {
		return nil, false
	}
	return v.sliceFor(i)[i&chunkMask], true
}

// Assoc returns a new vector with the element at index i replaced by
// val. Assoc of Length() appends val to the end of the vector. Assoc
// panics with ErrRange if i is outside [0, Length()].
func (v *Vector) Assoc(i int, val interface{}) *Vector {
	switch {
	case i < 0 || i > v.count:
		panic(ErrRange)
	case i == v.count:
		return v.Append(val)
	case i >= tailoff(v.count):
		newTail := make([]interface{}, len(v.tail))
		copy(newTail, v.tail)
		newTail[i&chunkMask] = val
		return &Vector{
			count:  v.count,
			height: v.height,
			root:   v.root,
			tail:   newTail,
		}
	default:
		return &Vector{
			count:  v.count,
			height: v.height,
			root:   doAssoc(v.height, v.root, i, val),
			tail:   v.tail,
		}
	}
}

// doAssoc returns a new trie with the i-th element replaced by val,
// copying only the nodes on the path to it.
func doAssoc(height uint, n *node, i int, val interface{}) *node {
	m := n.clone()
	if height == 0 {
		m.array[i&chunkMask] = val
	} else {
		sub := (i >> (height * bitChunk)) & chunkMask
		m.array[sub] = doAssoc(height-1, m.array[sub].(*node), i, val)
	}
	return m
}

// Append returns a new vector with val added to the end.
func (v *Vector) Append(val interface{}) *Vector {
	// Room in the tail?
	if v.count-tailoff(v.count) < tailMaxLen {
		newTail := make([]interface{}, len(v.tail)+1)
		copy(newTail, v.tail)
		newTail[len(v.tail)] = val
		return &Vector{
			count:  v.count + 1,
			height: v.height,
			root:   v.root,
			tail:   newTail,
		}
	}
	// Full tail, push it into the trie.
	tailNode := &node{}
	copy(tailNode.array[:], v.tail)
	newHeight := v.height
	var newRoot *node
	// Overflow root?
	if (v.count >> bitChunk) > (1 << (v.height * bitChunk)) {
		newRoot = &node{}
		newRoot.array[0] = v.root
		newRoot.array[1] = newPath(nil, v.height, tailNode)
		newHeight++
	} else {
		newRoot = v.pushTail(v.height, v.root, tailNode)
	}
	return &Vector{
		count:  v.count + 1,
		height: newHeight,
		root:   newRoot,
		tail:   []interface{}{val},
	}
}

// pushTail returns a trie with the tail appended as its rightmost
// leaf.
func (v *Vector) pushTail(height uint, n *node, tail *node) *node {
	if height == 0 {
		return tail
	}
	idx := ((v.count - 1) >> (height * bitChunk)) & chunkMask
	m := n.clone()
	child := n.array[idx]
	if child == nil {
		m.array[idx] = newPath(nil, height-1, tail)
	} else {
		m.array[idx] = v.pushTail(height-1, child.(*node), tail)
	}
	return m
}

// Pop returns a new vector with the last element removed. Pop panics
// with ErrEmpty if the vector is empty.
func (v *Vector) Pop() *Vector {
	switch v.count {
	case 0:
		panic(ErrEmpty)
	case 1:
		return empty
	}
	if v.count-tailoff(v.count) > 1 {
		newTail := make([]interface{}, len(v.tail)-1)
		copy(newTail, v.tail)
		return &Vector{
			count:  v.count - 1,
			height: v.height,
			root:   v.root,
			tail:   newTail,
		}
	}
	// The tail empties, pull the rightmost leaf out of the trie to
	// become the new tail.
	newTail := v.sliceFor(v.count - 2)
	newRoot := v.popTail(v.height, v.root)
	newHeight := v.height
	if v.height > 0 && newRoot.array[1] == nil {
		newRoot = newRoot.array[0].(*node)
		newHeight--
	}
	return &Vector{
		count:  v.count - 1,
		height: newHeight,
		root:   newRoot,
		tail:   newTail,
	}
}

// popTail returns a trie with the rightmost leaf removed.
func (v *Vector) popTail(level uint, n *node) *node {
	idx := ((v.count - 2) >> (level * bitChunk)) & chunkMask
	if level > 1 {
		newChild := v.popTail(level-1, n.array[idx].(*node))
		if newChild == nil && idx == 0 {
			return nil
		}
		m := n.clone()
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
	m := n.clone()
	m.array[idx] = nil
	return m
}

// Delete returns a new vector with the element at index i removed
// and the later elements shifted down. Removing from the interior is
// linear in the length of the vector; removing the last element is
// Pop. Delete panics with ErrRange if i is out of bounds.
func (v *Vector) Delete(i int) *Vector {
	switch {
	case i < 0 || i >= v.count:
		panic(ErrRange)
	case i == v.count-1:
		return v.Pop()
	case i >= tailoff(v.count):
		off := i - tailoff(v.count)
		newTail := make([]interface{}, len(v.tail)-1)
		copy(newTail, v.tail[:off])
		copy(newTail[off:], v.tail[off+1:])
		return &Vector{
			count:  v.count - 1,
			height: v.height,
			root:   v.root,
			tail:   newTail,
		}
	default:
		return v.Transform(func(t *TVector) *TVector {
			return t.Delete(i)
		})
	}
}

// Slice returns a new vector holding the elements from index start
// up to but not including index end. The copy is linear in the size
// of the result. Slice panics with ErrRange unless
// 0 <= start <= end <= Length().
func (v *Vector) Slice(start, end int) *Vector {
	if start < 0 || start > end || end > v.count {
		panic(ErrRange)
	}
	if start == 0 && end == v.count {
		return v
	}
	return empty.Transform(func(t *TVector) *TVector {
		for i := start; i < end; i++ {
			t = t.Append(v.At(i))
		}
		return t
	})
}

// Range calls the function for each element of the vector in index
// order. Range can take a set of functions matched by type. If the
// function returns a bool this is treated as a loop termination
// variable, if false the loop will terminate.
//
//	func(int, interface{}) iterates over indices and elements.
//	func(int, interface{}) bool
//	func(interface{}) iterates over only the elements.
//	func(interface{}) bool
//
// Any other function is dispatched reflectively and must take an
// index and an element.
func (v *Vector) Range(fn interface{}) {
	rangeVector(v.count, v.sliceFor, fn)
}

func rangeVector(count int, sliceFor func(int) []interface{}, fn interface{}) {
	f := rangeFunc(fn)
	for i := 0; i < count; {
		chunk := sliceFor(i)
		for j := i & chunkMask; j < len(chunk); j++ {
			if !f(i, chunk[j]) {
				return
			}
			i++
		}
	}
}

func rangeFunc(fn interface{}) func(int, interface{}) bool {
	switch f := fn.(type) {
	case func(int, interface{}) bool:
		return f
	case func(int, interface{}):
		return func(i int, elem interface{}) bool {
			f(i, elem)
			return true
		}
	case func(interface{}) bool:
		return func(_ int, elem interface{}) bool {
			return f(elem)
		}
	case func(interface{}):
		return func(_ int, elem interface{}) bool {
			f(elem)
			return true
		}
	default:
		return func(i int, elem interface{}) bool {
			cont, isBool := dyn.Apply(fn, i, elem).(bool)
			return !isBool || cont
		}
	}
}

// Iterator returns an iterator over the vector's elements starting
// at index 0.
func (v *Vector) Iterator() *Iterator {
	return &Iterator{v: v}
}

// Iterator is a cursor over a vector's elements. It fetches a leaf
// chunk at a time.
type Iterator struct {
	v     *Vector
	index int
	chunk []interface{}
	off   int
}

// HasElem returns whether the iterator is positioned on an element.
func (it *Iterator) HasElem() bool {
	return it.index < it.v.count
}

// Elem returns the element under the iterator.
func (it *Iterator) Elem() interface{} {
	if it.chunk == nil || it.index >= it.off+len(it.chunk) {
		it.chunk = it.v.sliceFor(it.index)
		it.off = it.index &^ chunkMask
	}
	return it.chunk[it.index-it.off]
}

// Next advances the iterator.
func (it *Iterator) Next() {
	it.index++
}

// Equal returns whether the other value is a vector with equal
// elements in the same order. Elements are compared with dyn.Equal.
// Equality checks are linear with respect to the number of elements.
func (v *Vector) Equal(other interface{}) bool {
	o, isVector := other.(*Vector)
	if !isVector {
		return false
	}
	if o == v {
		return true
	}
	if o.count != v.count {
		return false
	}
	oit := o.Iterator()
	eq := true
	v.Range(func(_ int, elem interface{}) bool {
		if !dyn.Equal(elem, oit.Elem()) {
			eq = false
			return false
		}
		oit.Next()
		return true
	})
	return eq
}

// String returns a string representation of the vector.
func (v *Vector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	v.Range(func(i int, elem interface{}) {
		if i != 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%v", elem)
	})
	b.WriteByte(']')
	return b.String()
}

// AsTransient returns a mutable vector sharing the persistent
// vector's structure. Transient vectors are not safe for concurrent
// use and are invalidated by AsPersistent.
func (v *Vector) AsTransient() *TVector {
	tail := make([]interface{}, len(v.tail), nodeCap)
	copy(tail, v.tail)
	return &TVector{
		edit:   new(uint32),
		count:  v.count,
		height: v.height,
		root:   v.root,
		tail:   tail,
	}
}

// Transform applies the function to a transient copy of the vector
// and returns the persistent result. This provides a faster, less
// memory intensive way to make a series of edits than chains of
// Assoc and Append.
func (v *Vector) Transform(fn func(*TVector) *TVector) *Vector {
	return fn(v.AsTransient()).AsPersistent()
}
