// Copyright (c) 2019-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

// Package hashmap implements a persistent hash map as a hash array
// mapped trie. Lookups and updates are O(log32 n). Maps are
// immutable, the mutation methods return new structurally shared
// copies of the original map with the changes. Bulk edits may be
// made with the transient map obtained from AsTransient.
package hashmap

import (
	"errors"
	"fmt"
	"math/bits"
	"reflect"
	"strings"

	"jsouthworth.net/go/dyn"
)

const (
	bitChunk  = 5
	nodeCap   = 1 << bitChunk
	chunkMask = nodeCap - 1
)

// ErrNilKey is the panic value for operations on a nil key.
var ErrNilKey = errors.New("hashmap: nil key")

// Entry is a key value pair in the map.
type Entry interface {
	Key() interface{}
	Value() interface{}
}

type entry struct {
	key, value interface{}
}

func (e entry) Key() interface{}   { return e.key }
func (e entry) Value() interface{} { return e.value }

func (e entry) String() string {
	return fmt.Sprintf("[%v %v]", e.key, e.value)
}

// mapNode is a node of the trie. Nodes hand back themselves from
// assoc and without when the operation was a no-op, so pointer
// identity propagates no-ops to the root.
type mapNode interface {
	assoc(edit *uint32, shift uint, hash uint32, key, val interface{}, added *bool) mapNode
	without(edit *uint32, shift uint, hash uint32, key interface{}, removed *bool) mapNode
	find(shift uint, hash uint32, key interface{}) (interface{}, bool)
	rangeEntries(fn func(key, val interface{}) bool) bool
	slice() []interface{}
}

func mask(h uint32, shift uint) uint32 {
	return (h >> shift) & chunkMask
}

func bitpos(h uint32, shift uint) uint32 {
	return 1 << mask(h, shift)
}

// identical reports whether two values are the same Go value. It is
// the no-op check for Assoc and never panics on uncomparable types.
func identical(a, b interface{}) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta == nil {
		return true
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

// bitmapNode holds up to 32 slots compressed by a bitmap. entries
// alternates keys and values; a nil key marks the value slot as a
// child node. edit is the ownership token of the transient that
// allocated the node, nil on nodes reachable from persistent maps.
type bitmapNode struct {
	edit    *uint32
	bitmap  uint32
	entries []interface{}
}

var emptyBitmapNode = &bitmapNode{}

// index returns the entries offset for bit, twice the number of
// bits set below it.
func (n *bitmapNode) index(bit uint32) int {
	return bits.OnesCount32(n.bitmap&(bit-1)) * 2
}

// modify returns n if the transient owns it, otherwise a copy owned
// by edit. The copy has room for one more pair.
func (n *bitmapNode) modify(edit *uint32) *bitmapNode {
	if edit != nil && n.edit == edit {
		return n
	}
	entries := make([]interface{}, len(n.entries), len(n.entries)+2)
	copy(entries, n.entries)
	return &bitmapNode{edit: edit, bitmap: n.bitmap, entries: entries}
}

func (n *bitmapNode) assoc(edit *uint32, shift uint, h uint32, key, val interface{}, added *bool) mapNode {
	bit := bitpos(h, shift)
	idx := n.index(bit)
	if n.bitmap&bit == 0 {
		*added = true
		m := n.modify(edit)
		m.bitmap |= bit
		m.entries = append(m.entries, nil, nil)
		copy(m.entries[idx+2:], m.entries[idx:len(m.entries)-2])
		m.entries[idx] = key
		m.entries[idx+1] = val
		return m
	}
	k, v := n.entries[idx], n.entries[idx+1]
	if k == nil {
		child := v.(mapNode)
		newChild := child.assoc(edit, shift+bitChunk, h, key, val, added)
		if newChild == child {
			return n
		}
		m := n.modify(edit)
		m.entries[idx+1] = newChild
		return m
	}
	if dyn.Equal(k, key) {
		if identical(v, val) {
			return n
		}
		m := n.modify(edit)
		m.entries[idx+1] = val
		return m
	}
	// Two keys in one slot, push them down a level.
	*added = true
	m := n.modify(edit)
	m.entries[idx] = nil
	m.entries[idx+1] = newChildNode(edit, shift+bitChunk, k, v, h, key, val)
	return m
}

// newChildNode combines an existing pair and a new pair one level
// down, as a collision node when the full hashes match.
func newChildNode(edit *uint32, shift uint, k1, v1 interface{}, h2 uint32, k2, v2 interface{}) mapNode {
	h1 := hash(k1)
	if h1 == h2 {
		return &collisionNode{
			edit:    edit,
			hash:    h1,
			entries: []interface{}{k1, v1, k2, v2},
		}
	}
	var added bool
	var n mapNode = &bitmapNode{edit: edit}
	n = n.assoc(edit, shift, h1, k1, v1, &added)
	n = n.assoc(edit, shift, h2, k2, v2, &added)
	return n
}

func (n *bitmapNode) without(edit *uint32, shift uint, h uint32, key interface{}, removed *bool) mapNode {
	bit := bitpos(h, shift)
	if n.bitmap&bit == 0 {
		return n
	}
	idx := n.index(bit)
	k, v := n.entries[idx], n.entries[idx+1]
	if k == nil {
		child := v.(mapNode)
		newChild := child.without(edit, shift+bitChunk, h, key, removed)
		switch {
		case newChild == child:
			return n
		case newChild != nil:
			m := n.modify(edit)
			m.entries[idx+1] = newChild
			return m
		case n.bitmap == bit:
			return nil
		default:
			return n.removeSlot(edit, bit, idx)
		}
	}
	if !dyn.Equal(k, key) {
		return n
	}
	*removed = true
	if n.bitmap == bit {
		return nil
	}
	return n.removeSlot(edit, bit, idx)
}

func (n *bitmapNode) removeSlot(edit *uint32, bit uint32, idx int) *bitmapNode {
	m := n.modify(edit)
	m.bitmap &^= bit
	copy(m.entries[idx:], m.entries[idx+2:])
	m.entries[len(m.entries)-2] = nil
	m.entries[len(m.entries)-1] = nil
	m.entries = m.entries[:len(m.entries)-2]
	return m
}

func (n *bitmapNode) find(shift uint, h uint32, key interface{}) (interface{}, bool) {
	bit := bitpos(h, shift)
	if n.bitmap&bit == 0 {
		return nil, false
	}
	idx := n.index(bit)
	k, v := n.entries[idx], n.entries[idx+1]
	if k == nil {
		return v.(mapNode).find(shift+bitChunk, h, key)
	}
	if dyn.Equal(k, key) {
		return v, true
	}
	return nil, false
}

func (n *bitmapNode) rangeEntries(fn func(key, val interface{}) bool) bool {
	for i := 0; i < len(n.entries); i += 2 {
		k, v := n.entries[i], n.entries[i+1]
		if k == nil {
			if !v.(mapNode).rangeEntries(fn) {
				return false
			}
			continue
		}
		if !fn(k, v) {
			return false
		}
	}
	return true
}

func (n *bitmapNode) slice() []interface{} {
	return n.entries
}

// collisionNode holds the pairs whose keys share a full 32 bit
// hash.
type collisionNode struct {
	edit    *uint32
	hash    uint32
	entries []interface{}
}

func (n *collisionNode) modify(edit *uint32) *collisionNode {
	if edit != nil && n.edit == edit {
		return n
	}
	entries := make([]interface{}, len(n.entries), len(n.entries)+2)
	copy(entries, n.entries)
	return &collisionNode{edit: edit, hash: n.hash, entries: entries}
}

func (n *collisionNode) indexOf(key interface{}) int {
	for i := 0; i < len(n.entries); i += 2 {
		if dyn.Equal(n.entries[i], key) {
			return i
		}
	}
	return -1
}

func (n *collisionNode) assoc(edit *uint32, shift uint, h uint32, key, val interface{}, added *bool) mapNode {
	if h != n.hash {
		// The key belongs elsewhere, nest this node under a
		// bitmap node and add the key to that.
		m := &bitmapNode{
			edit:    edit,
			bitmap:  bitpos(n.hash, shift),
			entries: []interface{}{nil, n},
		}
		return m.assoc(edit, shift, h, key, val, added)
	}
	idx := n.indexOf(key)
	if idx < 0 {
		*added = true
		m := n.modify(edit)
		m.entries = append(m.entries, key, val)
		return m
	}
	if identical(n.entries[idx+1], val) {
		return n
	}
	m := n.modify(edit)
	m.entries[idx+1] = val
	return m
}

func (n *collisionNode) without(edit *uint32, shift uint, h uint32, key interface{}, removed *bool) mapNode {
	idx := n.indexOf(key)
	if idx < 0 {
		return n
	}
	*removed = true
	if len(n.entries) == 2 {
		return nil
	}
	m := n.modify(edit)
	copy(m.entries[idx:], m.entries[idx+2:])
	m.entries[len(m.entries)-2] = nil
	m.entries[len(m.entries)-1] = nil
	m.entries = m.entries[:len(m.entries)-2]
	return m
}

func (n *collisionNode) find(shift uint, h uint32, key interface{}) (interface{}, bool) {
	idx := n.indexOf(key)
	if idx < 0 {
		return nil, false
	}
	return n.entries[idx+1], true
}

func (n *collisionNode) rangeEntries(fn func(key, val interface{}) bool) bool {
	for i := 0; i < len(n.entries); i += 2 {
		if !fn(n.entries[i], n.entries[i+1]) {
			return false
		}
	}
	return true
}

func (n *collisionNode) slice() []interface{} {
	return n.entries
}

// Map is a persistent hash map. The zero value is a valid empty
// map.
type Map struct {
	count int
	root  mapNode
}

var emptyMap = &Map{}

// Empty returns the empty map.
func Empty() *Map {
	return emptyMap
}

// New returns a map containing the supplied alternating keys and
// values.
func New(pairs ...interface{}) *Map {
	if len(pairs)%2 != 0 {
		panic("hashmap: New requires one value for each key")
	}
	return Empty().Transform(func(t *TMap) *TMap {
		for i := 0; i < len(pairs); i += 2 {
			t = t.Assoc(pairs[i], pairs[i+1])
		}
		return t
	})
}

// From returns a map containing the entries of the supplied Go map.
// Maps are passed through unchanged.
func From(value interface{}) *Map {
	switch v := value.(type) {
	case nil:
		return emptyMap
	case *Map:
		return v
	case map[interface{}]interface{}:
		return Empty().Transform(func(t *TMap) *TMap {
			for key, val := range v {
				t = t.Assoc(key, val)
			}
			return t
		})
	case map[string]interface{}:
		return Empty().Transform(func(t *TMap) *TMap {
			for key, val := range v {
				t = t.Assoc(key, val)
			}
			return t
		})
	}
	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Map {
		panic(fmt.Sprintf("hashmap: cannot create a map from %T", value))
	}
	return Empty().Transform(func(t *TMap) *TMap {
		iter := val.MapRange()
		for iter.Next() {
			t = t.Assoc(iter.Key().Interface(), iter.Value().Interface())
		}
		return t
	})
}

// Length returns the number of entries in the map.
func (m *Map) Length() int {
	return m.count
}

// Find returns the value associated with the key and whether the
// key was in the map. Find panics with ErrNilKey on a nil key.
func (m *Map) Find(key interface{}) (interface{}, bool) {
	if key == nil {
		panic(ErrNilKey)
	}
	if m.root == nil {
		return nil, false
	}
	return m.root.find(0, hash(key), key)
}

// At returns the value associated with the key or nil if the key is
// not in the map. Find distinguishes a stored nil value from an
// absent key.
func (m *Map) At(key interface{}) interface{} {
	v, _ := m.Find(key)
	return v
}

// Contains returns whether the key is in the map.
func (m *Map) Contains(key interface{}) bool {
	_, ok := m.Find(key)
	return ok
}

// Assoc associates the value with the key in the map. The map is
// returned unchanged when the key already maps to this exact value.
func (m *Map) Assoc(key, val interface{}) *Map {
	if key == nil {
		panic(ErrNilKey)
	}
	var added bool
	root := m.root
	if root == nil {
		root = emptyBitmapNode
	}
	newRoot := root.assoc(nil, 0, hash(key), key, val, &added)
	if newRoot == m.root {
		return m
	}
	count := m.count
	if added {
		count++
	}
	return &Map{count: count, root: newRoot}
}

// Delete removes the key from the map. The map is returned
// unchanged when the key is not in it.
func (m *Map) Delete(key interface{}) *Map {
	if key == nil {
		panic(ErrNilKey)
	}
	if m.root == nil {
		return m
	}
	var removed bool
	newRoot := m.root.without(nil, 0, hash(key), key, &removed)
	switch {
	case !removed:
		return m
	case m.count == 1:
		return emptyMap
	default:
		return &Map{count: m.count - 1, root: newRoot}
	}
}

// Range calls the function for each entry of the map. The order of
// iteration is unspecified but is the same every time for a given
// map value. Range can take a set of functions matched by type. If
// the function returns a bool this is treated as a loop termination
// variable, if false the loop will terminate.
//
//	func(key, value interface{}) iterates over keys and values.
//	func(key, value interface{}) bool
//	func(Entry) iterates over entries.
//	func(Entry) bool
//
// Any other function is dispatched reflectively and must take a key
// and a value.
func (m *Map) Range(fn interface{}) {
	if m.root == nil {
		return
	}
	m.root.rangeEntries(rangeFunc(fn))
}

func rangeFunc(fn interface{}) func(key, val interface{}) bool {
	switch f := fn.(type) {
	case func(key, val interface{}) bool:
		return f
	case func(key, val interface{}):
		return func(key, val interface{}) bool {
			f(key, val)
			return true
		}
	case func(Entry) bool:
		return func(key, val interface{}) bool {
			return f(entry{key: key, value: val})
		}
	case func(Entry):
		return func(key, val interface{}) bool {
			f(entry{key: key, value: val})
			return true
		}
	default:
		return func(key, val interface{}) bool {
			cont, isBool := dyn.Apply(fn, key, val).(bool)
			return !isBool || cont
		}
	}
}

// Iterator returns an iterator over the map's entries. The order of
// iteration is unspecified but is the same every time for a given
// map value.
func (m *Map) Iterator() *Iterator {
	it := &Iterator{}
	if m.root != nil {
		it.stack = append(it.stack, m.root.slice())
		it.normalize()
	}
	return it
}

// Iterator is a cursor over a map's entries.
type Iterator struct {
	stack [][]interface{}
}

// normalize positions the top of the stack on a key value pair,
// descending into child nodes and popping exhausted ones.
func (it *Iterator) normalize() {
	for len(it.stack) > 0 {
		top := it.stack[len(it.stack)-1]
		if len(top) == 0 {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		if top[0] != nil {
			return
		}
		child := top[1].(mapNode)
		it.stack[len(it.stack)-1] = top[2:]
		it.stack = append(it.stack, child.slice())
	}
}

// HasElem returns whether the iterator is positioned on an entry.
func (it *Iterator) HasElem() bool {
	return len(it.stack) > 0
}

// Elem returns the entry under the iterator.
func (it *Iterator) Elem() Entry {
	top := it.stack[len(it.stack)-1]
	return entry{key: top[0], value: top[1]}
}

// Next advances the iterator.
func (it *Iterator) Next() {
	top := it.stack[len(it.stack)-1]
	it.stack[len(it.stack)-1] = top[2:]
	it.normalize()
}

// Equal returns whether the other value is a map with the same key
// value mappings. Values are compared with dyn.Equal. Equality
// checks are linear with respect to the number of entries.
func (m *Map) Equal(other interface{}) bool {
	om, isMap := other.(*Map)
	if !isMap {
		return false
	}
	if om == m {
		return true
	}
	if om.count != m.count {
		return false
	}
	eq := true
	m.Range(func(key, val interface{}) bool {
		ov, ok := om.Find(key)
		if !ok || !dyn.Equal(val, ov) {
			eq = false
		}
		return eq
	})
	return eq
}

// String returns a string representation of the map.
func (m *Map) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	m.Range(func(key, val interface{}) {
		if !first {
			b.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&b, "%v: %v", key, val)
	})
	b.WriteByte('}')
	return b.String()
}

// AsTransient returns a mutable map sharing the persistent map's
// structure. Transient maps are not safe for concurrent use and are
// invalidated by AsPersistent.
func (m *Map) AsTransient() *TMap {
	return &TMap{
		edit:  new(uint32),
		count: m.count,
		root:  m.root,
	}
}

// Transform applies the function to a transient copy of the map and
// returns the persistent result. This provides a faster, less
// memory intensive way to make a series of edits than chains of
// Assoc and Delete.
func (m *Map) Transform(fn func(*TMap) *TMap) *Map {
	return fn(m.AsTransient()).AsPersistent()
}
