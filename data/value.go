// Copyright (c) 2018-2021, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"jsouthworth.net/go/dyn"
)

// ValueNew turns a native go value into a JSON Value as long as the
// type can be represented in JSON encoding. ValueNew will panic if the
// value is not a JSON compatible type. All numeric inputs are stored
// as float64, the single number representation of the encoding.
func ValueNew(data interface{}) *Value {
	return valueNew(data)
}

func valueNew(data interface{}) *Value {
	if data == nil {
		return valueNull
	}
	switch d := data.(type) {
	case *Value:
		return d
	case *Object, *Array:
	case bool:
		if d {
			return valueTrue
		}
		return valueFalse
	case string:
	case float64:
		return numberNew(d)
	case float32:
		return numberNew(float64(d))
	case int:
		return numberNew(float64(d))
	case int8:
		return numberNew(float64(d))
	case int16:
		return numberNew(float64(d))
	case int32:
		return numberNew(float64(d))
	case int64:
		return numberNew(float64(d))
	case uint:
		return numberNew(float64(d))
	case uint8:
		return numberNew(float64(d))
	case uint16:
		return numberNew(float64(d))
	case uint32:
		return numberNew(float64(d))
	case uint64:
		return numberNew(float64(d))
	case map[string]interface{}:
		data = ObjectFrom(d)
	case []interface{}:
		data = ArrayFrom(d)
	default:
		panic(errors.New("cannot create value, invalid type"))
	}
	return &Value{
		data: data,
	}
}

func numberNew(f float64) *Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(errors.New("cannot create value, number is not representable in json"))
	}
	if f == 0 {
		return valueZero
	}
	return &Value{data: f}
}

// Value is a JSON value. Values may be *Object, *Array, float64,
// string, bool, or nil. Integer and float32 inputs are converted to
// float64 when creating a value so that values built directly and
// values produced by the unmarshaller always compare equal.
type Value struct {
	data interface{}
}

var valType = reflect.TypeOf((*Value)(nil))
var interfaceType = reflect.TypeOf((*interface{})(nil)).Elem()

// Perform allows one to match the kind of the Value with a behavior
// to perform on that kind without resorting to the assertion
// operations. Think of this as the switch v.(type) { ... } analogue
// for JSON kinds. It takes a list of func(v vT) oT functions and
// applies the first match to the held data.
//
// If vT above is *Value or interface{} it matches all value kinds.
// A null value only matches interface{}.
func (val *Value) Perform(fns ...interface{}) interface{} {
	if val == nil {
		return nil
	}
	out, _ := val.perform(fns)
	return out
}

func (val *Value) perform(fns []interface{}) (interface{}, bool) {
	vty := reflect.TypeOf(val.data)
	var action interface{}
	arg := val.data
	for _, fn := range fns {
		if action != nil {
			break
		}
		fnty := reflect.TypeOf(fn)
		if fnty.Kind() != reflect.Func || fnty.NumIn() != 1 {
			continue
		}
		inputType := fnty.In(0)
		switch {
		case vty == nil:
			if inputType == interfaceType {
				action = fn
			}
		case inputType == valType:
			arg = val
			action = fn
		case vty.AssignableTo(inputType):
			action = fn
		}
	}
	if action == nil {
		return nil, false
	}
	return dyn.Apply(action, arg), true
}

// ToDocument wraps the value in a document so the path operations may
// be applied to it.
func (val *Value) ToDocument() *Document {
	return DocumentFromValue(val)
}

// AsObject returns an *Object if the value is an Object and panics otherwise.
func (val *Value) AsObject() *Object {
	return val.data.(*Object)
}

// IsObject returns if the data stored in the value is an Object.
func (val *Value) IsObject() bool {
	_, isObject := val.data.(*Object)
	return isObject
}

// ToObject returns an *Object and allows the user to define a
// default. The value (*Object)(nil) is returned if no default is defined
// and the value is not an *Object.
func (val *Value) ToObject(defaultVal ...*Object) *Object {
	o, isObject := val.data.(*Object)
	if isObject {
		return o
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return nil
}

// AsArray returns an *Array if the value is an Array and panics otherwise.
func (val *Value) AsArray() *Array {
	return val.data.(*Array)
}

// IsArray returns if the data stored in the value is an Array.
func (val *Value) IsArray() bool {
	_, isArray := val.data.(*Array)
	return isArray
}

// ToArray returns an *Array and allows the user to define a
// default. The value (*Array)(nil) is returned if no default is defined
// and the value is not an *Array.
func (val *Value) ToArray(defaultVal ...*Array) *Array {
	arr, isArray := val.data.(*Array)
	if isArray {
		return arr
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return nil
}

// AsString returns a string if the value is a String and panics otherwise.
func (val *Value) AsString() string {
	return val.data.(string)
}

// IsString returns if the data stored in the value is a String.
func (val *Value) IsString() bool {
	_, isString := val.data.(string)
	return isString
}

// ToString returns a string and allows the user to define a
// default. The value "" is returned if no default is defined
// and the value is not a string.
func (val *Value) ToString(defaultVal ...string) string {
	str, isString := val.data.(string)
	if isString {
		return str
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return ""
}

// AsNumber returns a float64 if the value is a Number and panics otherwise.
func (val *Value) AsNumber() float64 {
	return val.data.(float64)
}

// IsNumber returns if the data stored in the value is a Number.
func (val *Value) IsNumber() bool {
	_, isNumber := val.data.(float64)
	return isNumber
}

// ToNumber returns a float64 and allows the user to define a
// default. The value 0 is returned if no default is defined and the
// value is not a Number.
func (val *Value) ToNumber(defaultVal ...float64) float64 {
	f, isNumber := val.data.(float64)
	if isNumber {
		return f
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return 0
}

// AsBoolean returns a bool if the value is a Boolean and panics otherwise.
func (val *Value) AsBoolean() bool {
	return val.data.(bool)
}

// IsBoolean returns if the data stored in the value is a Boolean.
func (val *Value) IsBoolean() bool {
	_, isBoolean := val.data.(bool)
	return isBoolean
}

// ToBoolean returns a bool and allows the user to define a
// default. The value false is returned if no default is defined and
// the value is not a Boolean.
func (val *Value) ToBoolean(defaultVal ...bool) bool {
	b, isBool := val.data.(bool)
	if isBool {
		return b
	}
	if len(defaultVal) != 0 {
		return defaultVal[0]
	}
	return false
}

// IsNull returns whether the value's data is nil.
func (val *Value) IsNull() bool {
	return val.data == nil
}

// ToInterface returns the held data directly as a native interface.
// Composite kinds are returned as *Array and *Object; use ToNative to
// convert the whole tree to plain go types.
func (val *Value) ToInterface() interface{} {
	return val.data
}

// ToNative converts a value to a go native type. Arrays become
// []interface{}, Objects become map[string]interface{}, and the
// conversion is applied recursively. Numbers come back as float64
// regardless of the type they were created from.
func (val *Value) ToNative() interface{} {
	switch v := val.data.(type) {
	case interface {
		toNative() interface{}
	}:
		return v.toNative()
	default:
		return val.data
	}
}

// Copy returns the value itself. Values are immutable and share all
// storage, so a copy is free no matter how large the value is.
func (val *Value) Copy() *Value {
	return val
}

// Merge will combine the old value with the new value and return the
// result. Objects merge per-key and arrays merge index-wise, both
// recursively. A scalar is replaced by the new value; a container
// merged with a value of an unlike kind is kept as is.
func (val *Value) Merge(new *Value) *Value {
	if new == nil {
		return val
	}
	switch v := val.data.(type) {
	case interface {
		merge(*Value) *Value
	}:
		return v.merge(new)
	default:
		return new
	}
}

func (val *Value) diff(new *Value, path *Path) []EditEntry {
	switch v := val.data.(type) {
	case interface {
		diff(*Value, *Path) []EditEntry
	}:
		return v.diff(new, path)
	default:
		// Leaf values
		if equal(val, new) {
			return nil
		}
		return []EditEntry{
			{Action: EditAssoc, Path: path, Value: new},
		}
	}
}

// Equal provides an implementation of Equality for Value types.
func (val *Value) Equal(other interface{}) bool {
	if other == nil {
		return val == nil
	}
	ov, isValue := other.(*Value)
	if !isValue {
		return false
	}
	return (val == nil && ov == nil) ||
		equal(val.data, ov.data)
}

// Compare provides an implementation of Comparison for Value types.
func (val *Value) Compare(other interface{}) int {
	return dyn.Compare(val.data, other.(*Value).data)
}

// String returns a go string representation of the Value for
// diagnostics. Use MarshalJSON for the JSON text form.
func (val *Value) String() string {
	return fmt.Sprintf("%v", val.data)
}

// MarshalJSON returns the value encoded as JSON text.
func (val *Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(val.data)
}

// UnmarshalJSON replaces the value's data with the decoded form of
// the supplied JSON text.
func (val *Value) UnmarshalJSON(msg []byte) error {
	var decoded interface{}
	err := json.Unmarshal(msg, &decoded)
	if err != nil {
		return err
	}
	strs := stringInternerNew()
	vals := valueInternerNew()
	val.data = valueDecode(decoded, strs, vals).data
	return nil
}

// valueDecode builds a *Value from the generic decoded form of a JSON
// message, folding repeated strings and scalar values into shared
// instances.
func valueDecode(
	data interface{},
	strs *stringInterner,
	vals *valueInterner,
) *Value {
	switch d := data.(type) {
	case nil:
		return valueNull
	case bool:
		if d {
			return valueTrue
		}
		return valueFalse
	case float64:
		return vals.Intern(numberNew(d))
	case string:
		return vals.Intern(&Value{data: strs.Intern(d)})
	case []interface{}:
		return &Value{data: arrayDecode(d, strs, vals)}
	case map[string]interface{}:
		return &Value{data: objectDecode(d, strs, vals)}
	default:
		panic(errors.New("cannot decode value, invalid type"))
	}
}

func equal(v1, v2 interface{}) bool {
	return dyn.Equal(v1, v2)
}
