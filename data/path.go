// Copyright (c) 2018-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"errors"
	"strconv"
	"strings"

	"jsouthworth.net/go/try"
)

const (
	sp   = " "
	htab = "\t"
	wsp  = sp + htab
)

// PathNew parses a path string into a Path. It panics if the string
// is not a valid path; PathParse reports the failure as an error
// instead.
func PathNew(path string) *Path {
	return (&Path{}).parse(path)
}

// PathParse parses a path string into a Path, converting parse
// failures to errors.
func PathParse(path string) (*Path, error) {
	out, err := try.Apply(PathNew, path)
	if err != nil {
		return nil, err
	}
	return out.(*Path), nil
}

// PathWith builds a path from the supplied steps without parsing. A
// string step addresses an object key and an int step addresses an
// array index. Keys containing '/' or '[' can only be addressed by
// paths built this way.
func PathWith(steps ...interface{}) *Path {
	out := make([]pathStep, len(steps))
	for i, step := range steps {
		switch s := step.(type) {
		case string:
			out[i] = keyStep{key: s}
		case int:
			out[i] = indexStep{index: s}
		default:
			panic(errors.New(
				"invalid path step, must be a string or an int"))
		}
	}
	return &Path{steps: out}
}

// Path addresses a nested location inside a Value by a sequence of
// steps, each either an object key or an array index.
//
// Paths match the following grammar:
//
//	path      = "/" / 1*("/" segment)
//	segment   = (key *predicate) / 1*predicate
//	predicate = "[" *WSP index *WSP "]"
//	key       = 1*(any character except "/" and "[")
//	index     = non-negative-integer-value
//
// The path "/" addresses the root value itself. A key containing '/'
// or '[' cannot be written in this syntax; build such paths with
// PathWith.
type Path struct {
	steps []pathStep
}

// parse implements a straight forward recursive descent parser for the
// path grammar. Using lex/yacc for this would be overkill so just
// parse the segments inline.
func (p *Path) parse(input string) *Path {
	defer func() {
		errstr := "invalid path"
		v := recover()
		if v == nil {
			return
		}
		switch v := v.(type) {
		case string:
			errstr += ": " + v
		case error:
			errstr += ": " + v.Error()
		}
		panic(errors.New(errstr))
	}()

	if input == "" {
		panic("must specify at least the root \"/\"")
	}
	if input[0] != '/' {
		panic("must start with a \"/\"")
	}
	if input == "/" {
		return p
	}
	for _, segment := range strings.Split(input[1:], "/") {
		p.steps = append(p.steps, parseSegment(segment)...)
	}
	return p
}

func parseSegment(segment string) []pathStep {
	// segment = (key *predicate) / 1*predicate
	if segment == "" {
		panic("empty segment")
	}
	key := segment
	var preds string
	if i := strings.IndexByte(segment, '['); i >= 0 {
		key, preds = segment[:i], segment[i:]
	}
	var out []pathStep
	if key != "" {
		out = append(out, keyStep{key: key})
	}
	for preds != "" {
		// predicate = "[" *WSP index *WSP "]"
		if preds[0] != '[' {
			panic("invalid predicate \"" + preds + "\"")
		}
		end := strings.IndexByte(preds, ']')
		if end < 0 {
			panic("unterminated predicate")
		}
		index := strings.Trim(preds[1:end], wsp)
		u, err := strconv.ParseUint(index, 10, 63)
		if err != nil {
			panic("invalid index \"" + index + "\"")
		}
		out = append(out, indexStep{index: int(u)})
		preds = preds[end+1:]
	}
	return out
}

// String will format the path as a string in its canonical form.
func (p *Path) String() string {
	if len(p.steps) == 0 {
		return "/"
	}
	var b strings.Builder
	for i, step := range p.steps {
		if _, isKey := step.(keyStep); isKey || i == 0 {
			b.WriteByte('/')
		}
		b.WriteString(step.String())
	}
	return b.String()
}

// Equal determines if two paths address the same location.
// It implements a common equality interface so other must be
// interface{}.
func (p *Path) Equal(other interface{}) bool {
	op, isPath := other.(*Path)
	return isPath && op.String() == p.String()
}

// MarshalJSON encodes the path as a JSON string in its canonical form.
func (p *Path) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON parses a path from a JSON string.
func (p *Path) UnmarshalJSON(msg []byte) error {
	var s string
	err := json.Unmarshal(msg, &s)
	if err != nil {
		return err
	}
	parsed, err := PathParse(s)
	if err != nil {
		return err
	}
	p.steps = parsed.steps
	return nil
}

func (p *Path) copySteps(extra int) []pathStep {
	out := make([]pathStep, len(p.steps), len(p.steps)+extra)
	copy(out, p.steps)
	return out
}

func (p *Path) addKey(key string) *Path {
	return &Path{steps: append(p.copySteps(1), keyStep{key: key})}
}

func (p *Path) addIndex(index int) *Path {
	return &Path{steps: append(p.copySteps(1), indexStep{index: index})}
}

func (p *Path) lastStep() (pathStep, bool) {
	if len(p.steps) == 0 {
		return nil, false
	}
	return p.steps[len(p.steps)-1], true
}

func (p *Path) terminal() string {
	last, ok := p.lastStep()
	if !ok {
		return "/"
	}
	return last.String()
}

// Find will traverse the value to find the Value to which the path
// refers.
func (p *Path) Find(value *Value) (*Value, bool) {
	for _, step := range p.steps {
		var found bool
		value, found = step.find(value)
		if !found {
			return nil, false
		}
	}
	return value, true
}

// MatchAgainst returns the value at the location represented by the
// path. If none, it returns nil.
func (p *Path) MatchAgainst(value *Value) *Value {
	v, _ := p.Find(value)
	return v
}

// get resolves the path strictly. Every step must find a value of the
// kind it addresses or an error from the navigation taxonomy is
// returned.
func (p *Path) get(op string, value *Value) (*Value, error) {
	for _, step := range p.steps {
		out, err := step.get(value)
		if err != nil {
			return nil, p.wrapError(op, step.String(), err)
		}
		value = out
	}
	return value, nil
}

// update rebuilds the chain of ancestors from the root down to the
// value the path addresses, replacing that value with the result of
// fn. Every sibling subtree is shared unchanged with the original.
// Resolution is strict; on failure the original value is returned
// untouched alongside the error.
func (p *Path) update(
	op string,
	value *Value,
	fn func(*Value) (*Value, error),
) (*Value, error) {
	return p.updateRest(op, p.steps, value, fn)
}

func (p *Path) updateRest(
	op string,
	steps []pathStep,
	value *Value,
	fn func(*Value) (*Value, error),
) (*Value, error) {
	if len(steps) == 0 {
		return fn(value)
	}
	step := steps[0]
	cur, err := step.get(value)
	if err != nil {
		return nil, p.wrapError(op, step.String(), err)
	}
	child, err := p.updateRest(op, steps[1:], cur, fn)
	if err != nil {
		return nil, err
	}
	out, err := step.set(value, child)
	if err != nil {
		return nil, p.wrapError(op, step.String(), err)
	}
	return out, nil
}

// remove strictly resolves the path's parent and removes the final
// step from it.
func (p *Path) remove(op string, value *Value) (*Value, error) {
	last, ok := p.lastStep()
	if !ok {
		return nil, p.wrapError(op, "/", ErrTypeMismatch)
	}
	return p.updateRest(op, p.steps[:len(p.steps)-1], value,
		func(parent *Value) (*Value, error) {
			out, err := last.remove(parent)
			if err != nil {
				return nil, p.wrapError(op, last.String(), err)
			}
			return out, nil
		})
}

func (p *Path) wrapError(op, step string, err error) error {
	return &PathError{Op: op, Path: p.String(), Step: step, Err: err}
}

// assoc associates the value at the path, creating missing
// intermediates on the way down. A key step creates an object, an
// index step creates an array padded with nulls, and an intermediate
// of the wrong kind is replaced by the kind the step requires.
func (p *Path) assoc(value, nv *Value) *Value {
	return assocRest(p.steps, value, nv)
}

func assocRest(steps []pathStep, value, nv *Value) *Value {
	if len(steps) == 0 {
		return nv
	}
	step := steps[0]
	cur, _ := step.find(value)
	child := assocRest(steps[1:], cur, nv)
	return step.assoc(value, child)
}

// delete removes the value at the path. An absent path returns the
// original value.
func (p *Path) delete(value *Value) *Value {
	last, ok := p.lastStep()
	if !ok {
		return value
	}
	return deleteRest(p.steps[:len(p.steps)-1], last, value)
}

func deleteRest(steps []pathStep, last pathStep, value *Value) *Value {
	if len(steps) == 0 {
		return last.delete(value)
	}
	step := steps[0]
	cur, found := step.find(value)
	if !found {
		return value
	}
	child := deleteRest(steps[1:], last, cur)
	if child == cur {
		return value
	}
	return step.assoc(value, child)
}

// pathStep is one step of a path. The find, assoc and delete
// operations never fail, treating absent or mismatched values as
// "not there"; the get, set and remove operations are strict and
// report failures with the navigation taxonomy errors.
type pathStep interface {
	find(v *Value) (*Value, bool)
	get(v *Value) (*Value, error)
	set(v *Value, nv *Value) (*Value, error)
	remove(v *Value) (*Value, error)
	assoc(v *Value, nv *Value) *Value
	delete(v *Value) *Value
	create() *Value
	String() string
}

// keyStep addresses a member of an object by key.
type keyStep struct {
	key string
}

func (s keyStep) String() string { return s.key }

func (s keyStep) find(v *Value) (*Value, bool) {
	if v == nil || !v.IsObject() {
		return nil, false
	}
	return v.AsObject().Find(s.key)
}

func (s keyStep) get(v *Value) (*Value, error) {
	if !v.IsObject() {
		return nil, ErrTypeMismatch
	}
	out, ok := v.AsObject().Find(s.key)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return out, nil
}

func (s keyStep) set(v *Value, nv *Value) (*Value, error) {
	if !v.IsObject() {
		return nil, ErrTypeMismatch
	}
	obj := v.AsObject()
	if !obj.Contains(s.key) {
		return nil, ErrKeyNotFound
	}
	return ValueNew(obj.Assoc(s.key, nv)), nil
}

func (s keyStep) remove(v *Value) (*Value, error) {
	if !v.IsObject() {
		return nil, ErrTypeMismatch
	}
	obj := v.AsObject()
	if !obj.Contains(s.key) {
		return nil, ErrKeyNotFound
	}
	return ValueNew(obj.Delete(s.key)), nil
}

func (s keyStep) assoc(v *Value, nv *Value) *Value {
	if v == nil || !v.IsObject() {
		v = s.create()
	}
	obj := v.AsObject()
	nobj := obj.Assoc(s.key, nv)
	if nobj == obj {
		return v
	}
	return ValueNew(nobj)
}

func (s keyStep) delete(v *Value) *Value {
	if v == nil || !v.IsObject() {
		return v
	}
	obj := v.AsObject()
	nobj := obj.Delete(s.key)
	if nobj == obj {
		return v
	}
	return ValueNew(nobj)
}

func (s keyStep) create() *Value {
	return ValueNew(ObjectNew())
}

// indexStep addresses an element of an array by position.
type indexStep struct {
	index int
}

func (s indexStep) String() string { return "[" + strconv.Itoa(s.index) + "]" }

func (s indexStep) find(v *Value) (*Value, bool) {
	if v == nil || !v.IsArray() {
		return nil, false
	}
	return v.AsArray().Find(s.index)
}

func (s indexStep) get(v *Value) (*Value, error) {
	arr, err := s.resolve(v)
	if err != nil {
		return nil, err
	}
	return arr.At(s.index), nil
}

func (s indexStep) set(v *Value, nv *Value) (*Value, error) {
	arr, err := s.resolve(v)
	if err != nil {
		return nil, err
	}
	return ValueNew(arr.Assoc(s.index, nv)), nil
}

func (s indexStep) remove(v *Value) (*Value, error) {
	arr, err := s.resolve(v)
	if err != nil {
		return nil, err
	}
	return ValueNew(arr.Delete(s.index)), nil
}

// resolve checks that the value is an array holding the step's index.
// An empty array is reported as ErrEmptyCollection, a populated one
// that is too short as ErrIndexOutOfRange.
func (s indexStep) resolve(v *Value) (*Array, error) {
	if !v.IsArray() {
		return nil, ErrTypeMismatch
	}
	arr := v.AsArray()
	switch {
	case arr.Length() == 0:
		return nil, ErrEmptyCollection
	case !arr.Contains(s.index):
		return nil, ErrIndexOutOfRange
	}
	return arr, nil
}

func (s indexStep) assoc(v *Value, nv *Value) *Value {
	if v == nil || !v.IsArray() {
		v = s.create()
	}
	return ValueNew(v.AsArray().Assoc(s.index, nv))
}

func (s indexStep) delete(v *Value) *Value {
	if v == nil || !v.IsArray() {
		return v
	}
	arr := v.AsArray()
	if !arr.Contains(s.index) {
		return v
	}
	return ValueNew(arr.Delete(s.index))
}

func (s indexStep) create() *Value {
	return ValueNew(ArrayNew())
}
