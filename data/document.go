// Copyright (c) 2018-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"reflect"

	"jsouthworth.net/go/dyn"
)

// Document pairs a root value with path addressed operations. A
// document is as immutable as the value it holds; operations that
// change it return a new document sharing all untouched subtrees with
// the original. Any number of goroutines may read a document while
// derived documents are built from it.
type Document struct {
	root *Value
}

// DocumentNew creates a document whose root is an empty object.
func DocumentNew() *Document {
	return &Document{root: ValueNew(ObjectNew())}
}

// DocumentFromValue creates a document rooted at the supplied value.
// Any kind of value may be the root, including null.
func DocumentFromValue(root *Value) *Document {
	if root == nil {
		root = valueNull
	}
	return &Document{root: root}
}

// DocumentFromObject creates a document rooted at the supplied object.
func DocumentFromObject(root *Object) *Document {
	return &Document{root: ValueNew(root)}
}

// Root returns the document's root value.
func (doc *Document) Root() *Value {
	return doc.root
}

// At returns the value at the location represented by path. If none,
// it returns nil. At panics if path is not syntactically valid.
func (doc *Document) At(path string) *Value {
	return doc.at(PathNew(path))
}

func (doc *Document) at(p *Path) *Value {
	return p.MatchAgainst(doc.root)
}

// Find returns the value at the location represented by path and
// whether the location exists. Find panics if path is not
// syntactically valid.
func (doc *Document) Find(path string) (*Value, bool) {
	return doc.find(PathNew(path))
}

func (doc *Document) find(p *Path) (*Value, bool) {
	return p.Find(doc.root)
}

// Contains returns whether path addresses a value in the document.
// Contains panics if path is not syntactically valid.
func (doc *Document) Contains(path string) bool {
	_, ok := doc.Find(path)
	return ok
}

// Get resolves path strictly and returns the value it addresses.
// Unlike At, every step of the path must resolve; a failure is
// reported as a *PathError wrapping the taxonomy error for the first
// step that did not (ErrTypeMismatch, ErrKeyNotFound,
// ErrIndexOutOfRange or ErrEmptyCollection).
func (doc *Document) Get(path string) (*Value, error) {
	p, err := PathParse(path)
	if err != nil {
		return nil, err
	}
	return p.get("get", doc.root)
}

// Length returns the number of values in the document. Every object
// member and array element is counted, at any depth; the root
// container itself is not.
func (doc *Document) Length() int {
	length := 0
	doc.Range(func(v *Value) {
		length++
	})
	return length
}

// Update strictly replaces the value at the location addressed by
// path: every step of the path must resolve or a *PathError wrapping
// the taxonomy error is returned and the document is unchanged. When
// update is a function it is applied, Perform style, to the value at
// the terminal position and must return the replacement; a function
// that cannot accept the terminal value fails with ErrTypeMismatch.
// Any other update becomes the replacement value directly.
//
// Assoc is the non-strict twin; it creates missing locations instead
// of failing.
func (doc *Document) Update(path string, update interface{}) (*Document, error) {
	p, err := PathParse(path)
	if err != nil {
		return nil, err
	}
	newRoot, err := p.update("update", doc.root,
		func(old *Value) (*Value, error) {
			out, err := applyUpdate(old, update)
			if err != nil {
				return nil, p.wrapError("update", p.terminal(), err)
			}
			return out, nil
		})
	if err != nil {
		return nil, err
	}
	return &Document{root: newRoot}, nil
}

func applyUpdate(old *Value, update interface{}) (*Value, error) {
	if reflect.ValueOf(update).Kind() != reflect.Func {
		return ValueNew(update), nil
	}
	out, matched := old.perform([]interface{}{update})
	if !matched {
		return nil, ErrTypeMismatch
	}
	return ValueNew(out), nil
}

// Remove strictly removes the value at the location addressed by
// path: every step of the path must resolve or a *PathError wrapping
// the taxonomy error is returned and the document is unchanged.
// Removing the root path "/" fails with ErrTypeMismatch since there
// is no parent to remove it from.
//
// Delete is the non-strict twin; it ignores absent locations.
func (doc *Document) Remove(path string) (*Document, error) {
	p, err := PathParse(path)
	if err != nil {
		return nil, err
	}
	newRoot, err := p.remove("remove", doc.root)
	if err != nil {
		return nil, err
	}
	return &Document{root: newRoot}, nil
}

// Assoc associates a value with the location represented by the path,
// creating any part of the path that doesn't exist: a key step
// creates an object, an index step creates an array padded with
// nulls, and an intermediate of the wrong kind is replaced. Assoc
// panics if path is not syntactically valid.
func (doc *Document) Assoc(path string, value interface{}) *Document {
	return doc.assoc(PathNew(path), value)
}

func (doc *Document) assoc(p *Path, value interface{}) *Document {
	newRoot := p.assoc(doc.root, ValueNew(value))
	if newRoot == doc.root {
		return doc
	}
	return &Document{root: newRoot}
}

// Delete removes the value at the location represented by the path.
// Deleting a location that does not exist returns the original
// document. Delete panics if path is not syntactically valid.
func (doc *Document) Delete(path string) *Document {
	return doc.delete(PathNew(path))
}

func (doc *Document) delete(p *Path) *Document {
	newRoot := p.delete(doc.root)
	if newRoot == doc.root {
		return doc
	}
	return &Document{root: newRoot}
}

// Merge merges the other document into this one and returns the
// result. Object members accrete, arrays merge element-wise, scalars
// take other's value. A container is never replaced by a value of an
// unlike kind.
func (doc *Document) Merge(other *Document) *Document {
	return &Document{root: doc.root.Merge(other.root)}
}

// Diff computes the edit operation that transforms this document into
// other.
func (doc *Document) Diff(other *Document) *EditOperation {
	return &EditOperation{
		Actions: doc.root.diff(other.root, &Path{}),
	}
}

// Edit applies an edit operation's actions to the document in order
// and returns the result.
func (doc *Document) Edit(op *EditOperation) *Document {
	return op.eval()(doc)
}

// Range calls fn on every value in the document in depth first,
// document order. Supported function types are:
//
//	func(p *Path, v *Value) bool
//	func(p *Path, v *Value)
//	func(p string, v *Value) bool
//	func(p string, v *Value)
//	func(v *Value) bool
//	func(v *Value)
//	func(p *Path) bool
//	func(p *Path)
//	func(p string) bool
//	func(p string)
//
// Other functions taking a path and a value are applied by reflection.
// Returning false from fn terminates the iteration early.
func (doc *Document) Range(fn interface{}) *Document {
	rangeFn := genDocumentRangeFunc(fn)
	var recur func(p *Path, v *Value) bool
	recur = func(p *Path, v *Value) bool {
		if !rangeFn(p, v) {
			return false
		}
		return rangeChildren(p, v, recur)
	}
	root := &Path{}
	if doc.root.IsObject() || doc.root.IsArray() {
		rangeChildren(root, doc.root, recur)
	} else {
		rangeFn(root, doc.root)
	}
	return doc
}

func rangeChildren(p *Path, v *Value, recur func(*Path, *Value) bool) bool {
	cont := true
	v.Perform(
		func(obj *Object) {
			obj.Range(func(key string, member *Value) bool {
				cont = recur(p.addKey(key), member)
				return cont
			})
		},
		func(arr *Array) {
			arr.Range(func(index int, elem *Value) bool {
				cont = recur(p.addIndex(index), elem)
				return cont
			})
		})
	return cont
}

func genDocumentRangeFunc(fn interface{}) func(*Path, *Value) bool {
	switch f := fn.(type) {
	case func(*Path, *Value) bool:
		return f
	case func(*Path, *Value):
		return func(p *Path, v *Value) bool {
			f(p, v)
			return true
		}
	case func(string, *Value) bool:
		return func(p *Path, v *Value) bool {
			return f(p.String(), v)
		}
	case func(string, *Value):
		return func(p *Path, v *Value) bool {
			f(p.String(), v)
			return true
		}
	case func(*Value) bool:
		return func(_ *Path, v *Value) bool {
			return f(v)
		}
	case func(*Value):
		return func(_ *Path, v *Value) bool {
			f(v)
			return true
		}
	case func(*Path) bool:
		return func(p *Path, _ *Value) bool {
			return f(p)
		}
	case func(*Path):
		return func(p *Path, _ *Value) bool {
			f(p)
			return true
		}
	case func(string) bool:
		return func(p *Path, _ *Value) bool {
			return f(p.String())
		}
	case func(string):
		return func(p *Path, _ *Value) bool {
			f(p.String())
			return true
		}
	default:
		return func(p *Path, v *Value) bool {
			cont, isBool := dyn.Apply(fn, p, v).(bool)
			return !isBool || cont
		}
	}
}

// Equal determines if two documents hold equal values.
// It implements a common equality interface so other must be
// interface{}.
func (doc *Document) Equal(other interface{}) bool {
	odoc, isDoc := other.(*Document)
	return isDoc && doc.root.Equal(odoc.root)
}

// String returns the document rendered as JSON text.
func (doc *Document) String() string {
	out, err := doc.MarshalJSON()
	if err != nil {
		return "invalid document: " + err.Error()
	}
	return string(out)
}

// MarshalJSON encodes the document as JSON text.
func (doc *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(doc.root)
}

// UnmarshalJSON replaces the document's contents with the decoded
// message. The previous root value is untouched; documents derived
// from it before the decode are unaffected.
func (doc *Document) UnmarshalJSON(msg []byte) error {
	root := &Value{}
	err := json.Unmarshal(msg, root)
	if err != nil {
		return err
	}
	doc.root = root
	return nil
}
