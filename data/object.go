// Copyright (c) 2018-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/danos/jsondata/hashmap"
)

// ObjectNew creates a new object.
func ObjectNew() *Object {
	return objectNew()
}

func objectNew() *Object {
	return &Object{
		store: hashmap.Empty(),
	}
}

// ObjectWith creates a new object and then populates it with the supplied pairs
func ObjectWith(pairs ...Pair) *Object {
	return ObjectNew().with(pairs...)
}

// ObjectFrom creates a new object and then populates it with the data from the supplied map
func ObjectFrom(in map[string]interface{}) *Object {
	return ObjectNew().from(in)
}

// PairNew creates a new pair
func PairNew(key string, value interface{}) Pair {
	return Pair{key: key, value: ValueNew(value)}
}

// Pair is a key/value pair. These are representations of the members
// of Objects per RFC7159.
type Pair struct {
	key   string
	value *Value
}

// Key returns the key.
func (p Pair) Key() string { return p.key }

// Value returns the value.
func (p Pair) Value() *Value { return p.value }

// String returns a string representation of the Pair.
func (p Pair) String() string { return fmt.Sprintf("[%v %v]", p.key, p.value) }

// Equal implements equality between Pairs.
func (p Pair) Equal(other interface{}) bool {
	op, isPair := other.(Pair)
	if !isPair {
		return false
	}
	return op.key == p.key && equal(op.value, p.value)
}

// Object is an RFC7159 (JSON) object. These objects are immutable,
// the mutation methods return a structurally shared copy of the
// object with the required changes. This provides cheap copies of the
// object and preserves the original allowing it to be easily shared.
type Object struct {
	store *hashmap.Map
}

// from converts a native go map to an Object.
func (obj *Object) from(in map[string]interface{}) *Object {
	return &Object{
		store: obj.store.Transform(
			func(store *hashmap.TMap) *hashmap.TMap {
				for k, v := range in {
					store = store.Assoc(k, ValueNew(v))
				}
				return store
			}),
	}
}

// with allows one to build an object from a list of Pairs. This provides
// a declarative mechanism for producing an object.
func (obj *Object) with(pairs ...Pair) *Object {
	return &Object{
		store: obj.store.Transform(
			func(store *hashmap.TMap) *hashmap.TMap {
				for _, pair := range pairs {
					store = store.Assoc(pair.Key(), pair.Value())
				}
				return store
			}),
	}
}

// Range iterates over the object's members. Range can take a set of functions
// matched by type. If the function returns a bool this is treated as a
// loop terminataion variable if false the loop will terminate.
//
//	func(Pair) iterates over Pairs
//	func(Pair) bool, called with a Pair, terminates the loop on false.
//	func(string, *Value) iterates over keys and values.
//	func(string, *Value) bool
//	func(string) iterates over only the keys
//	func(string) bool
//	func(*Value) iterates over only the values
//	func(*Value) bool
func (obj *Object) Range(fn interface{}) *Object {
	obj.store.Range(objectRangeFunc(fn))
	return obj
}

func objectRangeFunc(fn interface{}) func(hashmap.Entry) bool {
	switch f := fn.(type) {
	case func(Pair):
		return func(e hashmap.Entry) bool {
			f(PairNew(e.Key().(string), e.Value()))
			return true
		}
	case func(Pair) bool:
		return func(e hashmap.Entry) bool {
			return f(PairNew(e.Key().(string), e.Value()))
		}
	case func(string, *Value):
		return func(e hashmap.Entry) bool {
			f(e.Key().(string), e.Value().(*Value))
			return true
		}
	case func(string, *Value) bool:
		return func(e hashmap.Entry) bool {
			return f(e.Key().(string), e.Value().(*Value))
		}
	case func(*Value):
		return func(e hashmap.Entry) bool {
			f(e.Value().(*Value))
			return true
		}
	case func(*Value) bool:
		return func(e hashmap.Entry) bool {
			return f(e.Value().(*Value))
		}
	case func(string):
		return func(e hashmap.Entry) bool {
			f(e.Key().(string))
			return true
		}
	case func(string) bool:
		return func(e hashmap.Entry) bool {
			return f(e.Key().(string))
		}
	default:
		panic("invalid range function")
	}
}

// At returns the Value at the key's location or nil if it doesn't exist.
func (obj *Object) At(key string) *Value {
	out, ok := obj.store.Find(key)
	if !ok {
		return nil
	}
	return out.(*Value)
}

// Contains returns true if the key exists in the object.
func (obj *Object) Contains(key string) bool {
	return obj.store.Contains(key)
}

// Find returns the value at the key or nil if it doesn't exist and
// whether the key was in the object.
func (obj *Object) Find(key string) (*Value, bool) {
	out, ok := obj.store.Find(key)
	if !ok {
		return nil, ok
	}
	return out.(*Value), ok
}

// Assoc associates a new value with the key. Associating the value
// the key already maps to returns the original object.
func (obj *Object) Assoc(key string, value interface{}) *Object {
	new := obj.store.Assoc(key, ValueNew(value))
	if new == obj.store {
		return obj
	}
	return &Object{
		store: new,
	}
}

// Length returns the number of elements in the object.
func (obj *Object) Length() int {
	return obj.store.Length()
}

// Delete removes a key from the object. Deleting an absent key
// returns the original object.
func (obj *Object) Delete(key string) *Object {
	new := obj.store.Delete(key)
	if new == obj.store {
		return obj
	}
	return &Object{
		store: new,
	}
}

// Keys returns the object's keys in sorted order.
func (obj *Object) Keys() []string {
	return obj.sortedKeys()
}

// Values returns the object's values, ordered by their sorted keys.
func (obj *Object) Values() []*Value {
	keys := obj.sortedKeys()
	out := make([]*Value, len(keys))
	for i, k := range keys {
		out[i] = obj.At(k)
	}
	return out
}

func (obj *Object) sortedKeys() []string {
	out := make([]string, 0, obj.Length())
	obj.Range(func(key string) {
		out = append(out, key)
	})
	sort.Strings(out)
	return out
}

// toNative produces a go native map[string]interface{} from the object.
func (obj *Object) toNative() interface{} {
	out := make(map[string]interface{})
	obj.Range(func(assoc Pair) {
		out[assoc.Key()] = assoc.Value().ToNative()
	})
	return out
}

// merge merges one object with another. The returned object is the
// old object with any existing keys replaced with counterparts from the
// new object and any new keys added. Merge is accretive only and will
// not remove non-existant keys.
func (obj *Object) merge(new *Value) *Value {
	return new.Perform(func(n *Object) *Value {
		out := &Object{
			store: obj.store.Transform(
				func(store *hashmap.TMap) *hashmap.TMap {
					obj.Range(func(k string, v *Value) {
						if n.Contains(k) {
							store = store.Assoc(k,
								v.Merge(n.At(k)))
						}
					})
					n.Range(func(k string, v *Value) {
						if !store.Contains(k) {
							store = store.Assoc(k, v)
						}
					})
					return store
				}),
		}
		return ValueNew(out)
	}, func(_ interface{}) *Value {
		// By default just return the original object; can't merge
		// unlike types.
		return ValueNew(obj)
	}).(*Value)
}

// Merge combines this object with another, returning the merged
// object. Existing keys are merged recursively, new keys are added.
func (obj *Object) Merge(other *Object) *Object {
	return obj.merge(ValueNew(other)).AsObject()
}

// Equal implements equality for objects. An object is equal to another
// object if all their keys contains equal values. Equality checks are linear
// with respect to the number of keys.
func (obj *Object) Equal(other interface{}) bool {
	oo, isObject := other.(*Object)
	return isObject &&
		oo.store.Length() == obj.store.Length() &&
		equal(oo.store, obj.store)
}

// String returns the JSON text representation of the Object.
func (obj *Object) String() string {
	var buf bytes.Buffer
	obj.marshalJSON(&buf)
	return buf.String()
}

// MarshalJSON returns the object encoded as JSON text. Members are
// encoded in sorted key order so the output is deterministic.
func (obj *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	err := obj.marshalJSON(&buf)
	return buf.Bytes(), err
}

func (obj *Object) marshalJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, k := range obj.sortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		elem, err := json.Marshal(obj.At(k))
		if err != nil {
			return err
		}
		buf.Write(elem)
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON replaces the object's contents with the decoded form
// of the supplied JSON text.
func (obj *Object) UnmarshalJSON(msg []byte) error {
	var decoded map[string]interface{}
	err := json.Unmarshal(msg, &decoded)
	if err != nil {
		return err
	}
	strs := stringInternerNew()
	vals := valueInternerNew()
	obj.store = objectDecode(decoded, strs, vals).store
	return nil
}

func objectDecode(
	msg map[string]interface{},
	strs *stringInterner,
	vals *valueInterner,
) *Object {
	obj := objectNew()
	obj.store = obj.store.Transform(
		func(store *hashmap.TMap) *hashmap.TMap {
			for k, v := range msg {
				store = store.Assoc(strs.Intern(k),
					valueDecode(v, strs, vals))
			}
			return store
		})
	return obj
}

func (obj *Object) diff(new *Value, path *Path) []EditEntry {
	out := []EditEntry{}
	new.Perform(func(other *Object) {
		obj.Range(func(k string, v *Value) {
			if other.Contains(k) {
				out = append(out,
					v.diff(other.At(k), path.addKey(k))...)
			} else {
				out = append(out,
					EditEntry{
						Action: EditDelete,
						Path:   path.addKey(k),
					})
			}
		})
		other.Range(func(k string, v *Value) {
			if obj.Contains(k) {
				return
			}
			out = append(out,
				EditEntry{
					Action: EditAssoc,
					Path:   path.addKey(k),
					Value:  v,
				})
		})
	}, func(other interface{}) {
		out = []EditEntry{
			{Action: EditAssoc, Path: path, Value: new},
		}
	})
	return out
}

// Transform executes the provided function against a mutable
// transient object to provide a faster, less memory intensive, object
// editing mechanism.
func (obj *Object) Transform(fn func(*TObject)) *Object {
	tobj := &TObject{
		store: obj.store.AsTransient(),
	}
	fn(tobj)
	return &Object{
		store: tobj.store.AsPersistent(),
	}
}

// TObject is a transient object that may be used to perform
// transformations on an object in a fast mutable fashion. This can
// only be accessed via the (*Object).Transform method. Care should be
// taken not to share this among threads as its values are mutable.
type TObject struct {
	store *hashmap.TMap
}

// Assoc associates a new value with the key.
func (obj *TObject) Assoc(key string, value interface{}) *TObject {
	obj.store = obj.store.Assoc(key, ValueNew(value))
	return obj
}

// Delete removes a key from the object.
func (obj *TObject) Delete(key string) *TObject {
	obj.store = obj.store.Delete(key)
	return obj
}

// At returns the Value at the key's location or nil if it doesn't exist.
func (obj *TObject) At(key string) *Value {
	out, ok := obj.store.Find(key)
	if !ok {
		return nil
	}
	return out.(*Value)
}

// Contains returns true if the key exists in the object.
func (obj *TObject) Contains(key string) bool {
	return obj.store.Contains(key)
}

// Find returns the value at the key or nil if it doesn't exist and
// whether the key was in the object.
func (obj *TObject) Find(key string) (*Value, bool) {
	out, ok := obj.store.Find(key)
	if !ok {
		return nil, ok
	}
	return out.(*Value), ok
}

// Length returns the number of elements in the object.
func (obj *TObject) Length() int {
	return obj.store.Length()
}

// Equal determines if two transient objects hold the same members.
// It implements a common equality interface so other must be
// interface{}.
func (obj *TObject) Equal(other interface{}) bool {
	oobj, isTObject := other.(*TObject)
	if !isTObject || oobj.Length() != obj.Length() {
		return false
	}
	out := true
	obj.Range(func(key string, val *Value) bool {
		ov, ok := oobj.Find(key)
		out = ok && val.Equal(ov)
		return out
	})
	return out
}

// Range iterates over the object's members the same way the
// persistent Range does.
func (obj *TObject) Range(fn interface{}) {
	obj.store.Range(objectRangeFunc(fn))
}

// String returns the JSON text representation of the Object.
func (obj *TObject) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	n := 0
	obj.Range(func(key string, val *Value) {
		if n > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return
		}
		buf.Write(k)
		buf.WriteByte(':')
		elem, err := json.Marshal(val)
		if err != nil {
			return
		}
		buf.Write(elem)
		n++
	})
	buf.WriteByte('}')
	return buf.String()
}
