// Copyright (c) 2020, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

// Shared instances of the values that occur over and over in JSON
// documents. Values are immutable so handing out the same pointer is
// always safe.
var (
	valueNull  = &Value{data: nil}
	valueTrue  = &Value{data: true}
	valueFalse = &Value{data: false}
	valueZero  = &Value{data: float64(0)}
)

type stringInterner struct {
	vals map[string]string
}

func (i *stringInterner) Intern(str string) string {
	out, ok := i.vals[str]
	if ok {
		return out
	}
	i.vals[str] = str
	return str
}

func stringInternerNew() *stringInterner {
	return &stringInterner{
		vals: make(map[string]string),
	}
}

type valueInterner struct {
	vals map[interface{}]*Value
}

// Intern folds scalar values that decode to the same payload into one
// shared *Value. Array and Object payloads are left alone; they are
// keyed by pointer identity and never repeat during one decode.
func (i *valueInterner) Intern(val *Value) *Value {
	data := val.ToInterface()
	out, ok := i.vals[data]
	if ok {
		return out
	}
	i.vals[data] = val
	return val
}

func valueInternerNew() *valueInterner {
	return &valueInterner{
		vals: make(map[interface{}]*Value),
	}
}
