// Copyright (c) 2018-2019, AT&T Intellectual Property.
// All rights reserved.
//
// SPDX-License-Identifier: MPL-2.0

package data

import (
	"errors"
	"testing"
)

func TestDocumentMerge(t *testing.T) {
	one := DocumentFromObject(ObjectFrom(map[string]interface{}{
		"only-one-leaf": 1,
		"leaf":          1,
		"only-one-container": map[string]interface{}{
			"foo": 1,
			"bar": 2,
		},
		"container": map[string]interface{}{
			"foo":  1,
			"bar":  1,
			"quux": 1,
		},
		"leaf-list": []interface{}{
			1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12,
		},
		"leaf-list-longer-new": []interface{}{
			1, 2, 3, 4, 5,
		},
		"list": []interface{}{
			map[string]interface{}{
				"foo":     1,
				"one-bar": 1,
				"quux":    1,
			},
			map[string]interface{}{
				"foo":     2,
				"one-bar": 2,
				"quux":    2,
			},
		},
		"null":          nil,
		"only-one-null": nil,
		"leaf-list-other-not-array": []interface{}{
			1, 2, 3, 4, 5,
		},
		"container-other-not-object": map[string]interface{}{
			"foo": 1,
			"bar": 2,
		},
	}))
	two := DocumentFromObject(ObjectFrom(map[string]interface{}{
		"only-two-leaf": 1,
		"leaf":          2,
		"only-two-container": map[string]interface{}{
			"foo": 1,
			"bar": 2,
		},
		"container": map[string]interface{}{
			"foo": 1,
			"bar": 2,
			"baz": 2,
		},
		"leaf-list": []interface{}{
			1, 2, 3, 4, 10, 11, 12, 13, 14, 15,
		},
		"leaf-list-longer-new": []interface{}{
			1, 2, 3, 4, 10, 11, 12, 13, 14, 15,
		},
		"list": []interface{}{
			map[string]interface{}{
				"foo":     2,
				"two-bar": 2,
				"baz":     2,
			},
			map[string]interface{}{
				"foo":     3,
				"two-bar": 3,
				"baz":     3,
			},
		},
		"null":                       nil,
		"only-two-null":              nil,
		"leaf-list-other-not-array":  1,
		"container-other-not-object": 1,
	}))
	expected := DocumentFromObject(ObjectFrom(map[string]interface{}{
		"only-one-leaf": 1,
		"only-two-leaf": 1,
		"leaf":          2,
		"only-one-container": map[string]interface{}{
			"foo": 1,
			"bar": 2,
		},
		"only-two-container": map[string]interface{}{
			"foo": 1,
			"bar": 2,
		},
		"container": map[string]interface{}{
			"foo":  1,
			"bar":  2,
			"baz":  2,
			"quux": 1,
		},
		"leaf-list": []interface{}{
			1, 2, 3, 4, 10, 11, 12, 13, 14, 15, 11, 12,
		},
		"leaf-list-longer-new": []interface{}{
			1, 2, 3, 4, 10, 11, 12, 13, 14, 15,
		},
		"list": []interface{}{
			map[string]interface{}{
				"one-bar": 1,
				"quux":    1,
				"foo":     2,
				"two-bar": 2,
				"baz":     2,
			},
			map[string]interface{}{
				"one-bar": 2,
				"quux":    2,
				"foo":     3,
				"two-bar": 3,
				"baz":     3,
			},
		},
		"null":          nil,
		"only-one-null": nil,
		"only-two-null": nil,
		"leaf-list-other-not-array": []interface{}{
			1, 2, 3, 4, 5,
		},
		"container-other-not-object": map[string]interface{}{
			"foo": 1,
			"bar": 2,
		},
	}))
	got := one.Merge(two)
	if !equal(got, expected) {
		t.Fatalf("Didn't get expected merge result\n\ngot:%s\n\nexpected:%s\n", got, expected)
	}
}

func TestDocumentAssoc(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		value interface{}
	}{
		{
			name:  "existing leaf replacement",
			path:  "/container/containerleaf",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested leaf replacement",
			path:  "/nested/container/containerleaf",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested-list leaf replacement",
			path:  "/nested-list[0]/container/containerleaf",
			value: ValueNew("!!!"),
		},
		{
			name:  "existing list entry modification",
			path:  "/list[0]/objleaf",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested list entry modification",
			path:  "/nested/list[0]/objleaf",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested-list list entry modification",
			path:  "/nested-list[0]/list[0]/objleaf",
			value: ValueNew("!!!"),
		},
		{
			name:  "list entry addition",
			path:  "/list[4]/objleaf",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested list entry addition",
			path:  "/nested/list[4]/objleaf",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested-list list entry addition",
			path:  "/nested-list[0]/list[4]/objleaf",
			value: ValueNew("!!!"),
		},
		{
			name:  "existing leaf-list entry modification",
			path:  "/leaf-list[0]",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested leaf-list entry modification",
			path:  "/nested/leaf-list[1]",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested-list leaf-list entry modification",
			path:  "/nested-list[0]/leaf-list[2]",
			value: ValueNew("!!!"),
		},
		{
			name:  "leaf-list entry addition",
			path:  "/leaf-list[7]",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested leaf-list entry addition",
			path:  "/nested/leaf-list[7]",
			value: ValueNew("!!!"),
		},
		{
			name:  "nested-list leaf-list entry addition",
			path:  "/nested-list[0]/leaf-list[7]",
			value: ValueNew("!!!"),
		},
		{
			name:  "deeply nested entry addition",
			path:  "/foo/bar/baz[0]/quux/newnestedlist[0]/objleaf",
			value: ValueNew("!!!"),
		},
	}
	doc := DocumentFromObject(TESTOBJ)
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			new := doc.Assoc(test.path, test.value)
			got := new.At(test.path)
			if !equal(got, test.value) {
				t.Fatalf("Assoc failed, expected %s, got %s in\n%s",
					test.value, got, new)
			}
		})
	}
	t.Run("addition past the end pads with null", func(t *testing.T) {
		new := doc.Assoc("/leaf-list[9]", ValueNew("!!!"))
		if !new.At("/leaf-list[7]").IsNull() ||
			!new.At("/leaf-list[8]").IsNull() {
			t.Fatal("expected null padding in", new.At("/leaf-list"))
		}
	})
	t.Run("stored value is identity", func(t *testing.T) {
		v := doc.At("/container/containerleaf")
		if doc.Assoc("/container/containerleaf", v) != doc {
			t.Fatal("assoc of the stored value should return the same document")
		}
	})
	t.Run("root replacement", func(t *testing.T) {
		new := doc.Assoc("/", ValueNew("!!!"))
		if !equal(new.Root(), ValueNew("!!!")) {
			t.Fatal("didn't replace the root", new)
		}
	})
}

func TestDocumentDelete(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{
			name: "leaf",
			path: "/container/containerleaf",
		},
		{
			name: "container",
			path: "/container",
		},
		{
			name: "list entry leaf",
			path: "/list[0]/objleaf",
		},
		{
			name: "last list entry",
			path: "/list[3]",
		},
		{
			name: "last leaf-list entry",
			path: "/leaf-list[6]",
		},
		{
			name: "list",
			path: "/list",
		},
		{
			name: "leaf-list",
			path: "/leaf-list",
		},
		//nested
		{
			name: "nested leaf",
			path: "/nested/container/containerleaf",
		},
		{
			name: "nested container",
			path: "/nested/container",
		},
		{
			name: "nested list entry leaf",
			path: "/nested/list[0]/objleaf",
		},
		{
			name: "nested last list entry",
			path: "/nested/list[3]",
		},
		{
			name: "nested last leaf-list entry",
			path: "/nested/leaf-list[6]",
		},
		{
			name: "nested list",
			path: "/nested/list",
		},
		{
			name: "nested leaf-list",
			path: "/nested/leaf-list",
		},
		//nested list
		{
			name: "nested-list leaf",
			path: "/nested-list[0]/container/containerleaf",
		},
		{
			name: "nested-list container",
			path: "/nested-list[0]/container",
		},
		{
			name: "nested-list list entry leaf",
			path: "/nested-list[0]/list[0]/objleaf",
		},
		{
			name: "nested-list last list entry",
			path: "/nested-list[0]/list[3]",
		},
		{
			name: "nested-list last leaf-list entry",
			path: "/nested-list[0]/leaf-list[6]",
		},
		{
			name: "nested-list list",
			path: "/nested-list[0]/list",
		},
		{
			name: "nested-list leaf-list",
			path: "/nested-list[0]/leaf-list",
		},
	}
	doc := DocumentFromObject(TESTOBJ)
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			new := doc.Delete(test.path)
			if new.Contains(test.path) {
				t.Fatalf("delete failed, %s still exists in %s",
					test.path, new)
			}
		})
	}

	t.Run("list entry by position", func(t *testing.T) {
		path := "/list[0]"
		old := doc.At(path)
		newDoc := doc.Delete(path)
		new := newDoc.At(path)
		if equal(old, new) {
			t.Fatalf("delete failed, %s still exists in %s",
				path, newDoc)
		}
	})
	t.Run("leaf-list entry by position", func(t *testing.T) {
		path := "/leaf-list[0]"
		old := doc.At(path)
		newDoc := doc.Delete(path)
		new := newDoc.At(path)
		if equal(old, new) {
			t.Fatalf("delete failed, %s still exists in %s",
				path, newDoc)
		}
	})
	t.Run("absent path is identity", func(t *testing.T) {
		if doc.Delete("/nope/deeper") != doc {
			t.Fatal("deleting an absent path should return the same document")
		}
		if doc.Delete("/leaf-list[9]") != doc {
			t.Fatal("deleting an absent element should return the same document")
		}
	})
	t.Run("root is identity", func(t *testing.T) {
		if doc.Delete("/") != doc {
			t.Fatal("the root cannot be deleted")
		}
	})
}

func TestDocumentGet(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ.Assoc("empty", ArrayNew()))
	t.Run("existing leaf", func(t *testing.T) {
		v, err := doc.Get("/list[1]/objleaf")
		if err != nil {
			t.Fatal(err)
		}
		if !equal(v, ValueNew("baz")) {
			t.Fatal("didn't get expected value", v)
		}
	})
	t.Run("root", func(t *testing.T) {
		v, err := doc.Get("/")
		if err != nil || v != doc.Root() {
			t.Fatal("root get should return the root value")
		}
	})
	cases := []struct {
		name string
		path string
		err  error
	}{
		{"missing key", "/nope", ErrKeyNotFound},
		{"missing nested key", "/container/nope", ErrKeyNotFound},
		{"missing key stops the walk", "/nope/deeper", ErrKeyNotFound},
		{"key step into array", "/leaf-list/foo", ErrTypeMismatch},
		{"key step into leaf", "/leaf/foo", ErrTypeMismatch},
		{"index step into object", "/container[0]", ErrTypeMismatch},
		{"index step into leaf", "/leaf[0]", ErrTypeMismatch},
		{"index beyond the end", "/leaf-list[7]", ErrIndexOutOfRange},
		{"index into empty array", "/empty[0]", ErrEmptyCollection},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			_, err := doc.Get(test.path)
			if !errors.Is(err, test.err) {
				t.Fatalf("expected %v, got %v", test.err, err)
			}
		})
	}
	t.Run("error reports the failed step", func(t *testing.T) {
		_, err := doc.Get("/list[5]/objleaf")
		var perr *PathError
		if !errors.As(err, &perr) {
			t.Fatal("expected a *PathError, got", err)
		}
		if perr.Op != "get" ||
			perr.Path != "/list[5]/objleaf" ||
			perr.Step != "[5]" {
			t.Fatal("wrong location in", perr)
		}
		const expected = "get /list[5]/objleaf at [5]: index out of range"
		if err.Error() != expected {
			t.Fatal("unexpected message", err)
		}
	})
	t.Run("invalid path", func(t *testing.T) {
		_, err := doc.Get("no-leading-slash")
		if err == nil {
			t.Fatal("should have failed")
		}
	})
}

func TestDocumentUpdate(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ)
	t.Run("function update", func(t *testing.T) {
		new, err := doc.Update("/leaf", func(v *Value) string {
			return v.ToString() + "!"
		})
		if err != nil {
			t.Fatal(err)
		}
		if !equal(new.At("/leaf"), ValueNew("foo!")) {
			t.Fatal("didn't get updated value", new.At("/leaf"))
		}
	})
	t.Run("typed function update", func(t *testing.T) {
		new, err := doc.Update("/leaf-list[0]", func(n float64) float64 {
			return n + 10
		})
		if err != nil {
			t.Fatal(err)
		}
		if !equal(new.At("/leaf-list[0]"), ValueNew(11)) {
			t.Fatal("didn't get updated value", new.At("/leaf-list[0]"))
		}
	})
	t.Run("literal update", func(t *testing.T) {
		new, err := doc.Update("/container/containerleaf", "!!!")
		if err != nil {
			t.Fatal(err)
		}
		if !equal(new.At("/container/containerleaf"), ValueNew("!!!")) {
			t.Fatal("didn't get updated value")
		}
	})
	t.Run("root update", func(t *testing.T) {
		new, err := doc.Update("/", 42)
		if err != nil {
			t.Fatal(err)
		}
		if !equal(new.Root(), ValueNew(42)) {
			t.Fatal("didn't replace the root", new)
		}
	})
	t.Run("function the value cannot accept", func(t *testing.T) {
		_, err := doc.Update("/leaf", func(o *Object) *Object {
			return o
		})
		if !errors.Is(err, ErrTypeMismatch) {
			t.Fatal("expected a type mismatch, got", err)
		}
	})
	t.Run("missing location", func(t *testing.T) {
		_, err := doc.Update("/nope", "!!!")
		if !errors.Is(err, ErrKeyNotFound) {
			t.Fatal("expected key not found, got", err)
		}
	})
	t.Run("index beyond the end", func(t *testing.T) {
		_, err := doc.Update("/leaf-list[7]", "!!!")
		if !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatal("expected index out of range, got", err)
		}
	})
	t.Run("untouched branches are shared", func(t *testing.T) {
		doc := DocumentFromObject(ObjectWith(
			PairNew("a", ArrayWith(1, 2, 3)),
			PairNew("b", ObjectWith(PairNew("c", "x")))))
		before := doc.At("/b")
		new, err := doc.Update("/a[1]", 99)
		if err != nil {
			t.Fatal(err)
		}
		if new.At("/b") != before {
			t.Fatal("untouched subtree should be shared by pointer")
		}
		if !equal(doc.At("/a[1]"), ValueNew(2)) {
			t.Fatal("original document changed")
		}
		if !equal(new.At("/a[1]"), ValueNew(99)) {
			t.Fatal("update didn't take")
		}
	})
}

func TestDocumentRemove(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ.Assoc("empty", ArrayNew()))
	t.Run("leaf", func(t *testing.T) {
		new, err := doc.Remove("/container/containerleaf")
		if err != nil {
			t.Fatal(err)
		}
		if new.Contains("/container/containerleaf") {
			t.Fatal("remove failed in", new)
		}
		if !new.Contains("/container") {
			t.Fatal("remove took the parent with it")
		}
	})
	t.Run("array element shifts the suffix", func(t *testing.T) {
		new, err := doc.Remove("/leaf-list[0]")
		if err != nil {
			t.Fatal(err)
		}
		if !equal(new.At("/leaf-list[0]"), ValueNew(2)) {
			t.Fatal("didn't shift", new.At("/leaf-list"))
		}
		if new.At("/leaf-list").AsArray().Length() != 6 {
			t.Fatal("didn't shrink", new.At("/leaf-list"))
		}
	})
	cases := []struct {
		name string
		path string
		err  error
	}{
		{"missing key", "/nope", ErrKeyNotFound},
		{"missing leaf", "/container/nope", ErrKeyNotFound},
		{"index beyond the end", "/leaf-list[7]", ErrIndexOutOfRange},
		{"index into empty array", "/empty[0]", ErrEmptyCollection},
		{"index into leaf", "/leaf[0]", ErrTypeMismatch},
		{"root", "/", ErrTypeMismatch},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			_, err := doc.Remove(test.path)
			if !errors.Is(err, test.err) {
				t.Fatalf("expected %v, got %v", test.err, err)
			}
		})
	}
}

func matchEditEntry(in EditEntry, entries []EditEntry) bool {
	for _, entry := range entries {
		if entry.Action == in.Action &&
			equal(entry.Path, in.Path) &&
			equal(entry.Value, in.Value) {
			return true
		}
	}
	return false
}
func TestDocumentDiff(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ)
	cases := []struct {
		name    string
		actions []EditEntry
	}{
		{
			name: "delete",
			actions: []EditEntry{
				EditEntryNew("delete", "/nested/container"),
			},
		}, {
			name: "assoc",
			actions: []EditEntry{
				EditEntryNew("assoc",
					"/nested/list[0]/objleaf",
					EditEntryValue("!!!")),
			},
		}, {
			name: "assoc/delete",
			actions: []EditEntry{
				EditEntryNew("assoc",
					"/nested/list[0]/objleaf",
					EditEntryValue("!!!")),
				EditEntryNew("delete", "/nested/container"),
			},
		}, {
			name: "assoc new array entry",
			actions: []EditEntry{
				EditEntryNew("assoc",
					"/leaf-list[7]",
					EditEntryValue(8)),
			},
		},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			new := doc
			for _, action := range test.actions {
				switch action.Action {
				case "assoc":
					new = new.assoc(action.Path,
						action.Value)
				case "delete":
					new = new.delete(action.Path)
				}
			}
			diff := doc.Diff(new)
			for _, action := range diff.Actions {
				if !matchEditEntry(action, test.actions) {
					t.Fatal("didn't find expected edit entry", action, test.actions)
				}
			}
		})
	}
	t.Run("new array is longer than old", func(t *testing.T) {
		new := doc.Assoc("/leaf-list[7]", 8)
		diff := doc.Diff(new)
		if !equal(diff.Actions[0].Value, ValueNew(8)) {
			t.Fatal("didn't find expected diff")
		}
	})
	t.Run("new array has changed to other value", func(t *testing.T) {
		new := doc.Assoc("/leaf-list", "!!!")
		diff := doc.Diff(new)
		if !equal(diff.Actions[0].Value, ValueNew("!!!")) {
			t.Fatal("didn't find expected diff")
		}
	})
	t.Run("new object has changed to other value", func(t *testing.T) {
		new := doc.Assoc("/container", "!!!")
		diff := doc.Diff(new)
		if !equal(diff.Actions[0].Value, ValueNew("!!!")) {
			t.Fatal("didn't find expected diff")
		}
	})
	t.Run("new array is shorter than old", func(t *testing.T) {
		new := doc.Delete("/list[1]").Delete("/list[1]")
		diff := doc.Diff(new)
		edited := doc.Edit(diff)
		if !equal(new, edited) {
			t.Fatalf("shrinking diff didn't round trip:\n\t%s\nvs:\n\t%s",
				new.At("/list"), edited.At("/list"))
		}
	})
}

func TestDocumentEdit(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ)
	cases := []struct {
		name string
		edit *EditOperation
	}{
		{
			name: "sniff test",
			edit: EditOperationNew(
				EditEntryNew("delete",
					"/nested/list[0]"),
				EditEntryNew("delete",
					"/nested/container"),
				EditEntryNew("assoc",
					"/new/othercontainer/leaf",
					EditEntryValue("!!!")),
				EditEntryNew("assoc",
					"/new/othercontainer/leaf2",
					EditEntryValue("!!!!")),
				EditEntryNew("merge",
					"/container",
					EditEntryValue(ObjectWith(
						PairNew("containerleaf", "bar"),
						PairNew("newleaf", "baz")))),
				EditEntryNew("merge",
					"/list",
					EditEntryValue(ArrayWith(
						ObjectWith(
							PairNew("key", "foo"),
							PairNew("objleaf", "baz"),
							PairNew("newleaf", "baz")),
						ObjectWith(
							PairNew("key", "!!!"),
							PairNew("objleaf", "!!!"),
							PairNew("newleaf", "!!!"))))),
			),
		},
	}
	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			new := doc.Edit(test.edit)
			diff := doc.Diff(new)
			edited := doc.Edit(diff)
			if !equal(new, edited) {
				t.Fatalf("When editing document:\n\t%s\nwith:\n\t%s\ngot:\n\t%s\nexpected:\n\t%s\ndifferences were:\n\t%s",
					doc.Root().AsObject(),
					diff,
					edited.Root().AsObject(),
					new.Root().AsObject(),
					new.Diff(edited))
			}
		})
	}
	t.Run("merge into an absent path", func(t *testing.T) {
		new := doc.Edit(EditOperationNew(
			EditEntryNew("merge", "/not-there",
				EditEntryValue(ObjectWith(
					PairNew("leaf", "!!!"))))))
		if !equal(new.At("/not-there/leaf"), ValueNew("!!!")) {
			t.Fatal("merge didn't create the target", new)
		}
	})
}

func TestDocumentMarshalUnmarshal(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ)
	d, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	new := DocumentNew()
	err = Unmarshal(d, new)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Equal(new) {
		t.Fatalf("got:\n\t%s\nexpected:\n\t%s\ndiffereneces:\n\t%s\n",
			new, doc, doc.Diff(new))
	}
}

func TestDocumentMarshalEmpty(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ)
	d, err := Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	new := new(Document)
	err = Unmarshal(d, new)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Equal(new) {
		t.Fatalf("got:\n\t%s\nexpected:\n\t%s\ndiffereneces:\n\t%s\n",
			new, doc, doc.Diff(new))
	}
}

func TestDocumentLength(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ)
	if doc.Length() != 102 {
		t.Fatal("didn't get expected length for representative document")
	}
}

func TestDocumentEqual(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ)
	t.Run("document == document", func(t *testing.T) {
		if !equal(doc, doc) {
			t.Fatal("document didn't equal itsself")
		}
	})
	t.Run("document != document.Root()", func(t *testing.T) {
		if equal(doc, doc.Root()) {
			t.Fatal("document shouldn't equal a value")
		}
	})
}

func TestDocumentString(t *testing.T) {
	orig := DocumentFromObject(TESTOBJ)
	str := orig.String()
	doc := DocumentNew()
	err := Unmarshal([]byte(str), doc)
	if err != nil {
		t.Fatal(err)
	}
	if !equal(doc, orig) {
		t.Fatalf("got:\n\t%s\nexpected:\n\t%s\ndifferences:\n\t%s\n",
			doc,
			orig,
			doc.Diff(orig))
	}
}

func TestDocumentFromValue(t *testing.T) {
	doc := DocumentFromValue(ValueNew(TESTOBJ))
	if !equal(doc.Root(), ValueNew(TESTOBJ)) {
		t.Fatal("root should be the supplied value")
	}
	t.Run("null root", func(t *testing.T) {
		doc := DocumentFromValue(nil)
		if !doc.Root().IsNull() {
			t.Fatal("nil becomes the null value")
		}
		if doc.String() != "null" {
			t.Fatal("unexpected rendering", doc.String())
		}
	})
	t.Run("scalar root", func(t *testing.T) {
		doc := DocumentFromValue(ValueNew(42))
		v, err := doc.Get("/")
		if err != nil || !equal(v, ValueNew(42)) {
			t.Fatal("root get failed", v, err)
		}
	})
}

func TestDocumentFind(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ)
	t.Run("existing key", func(t *testing.T) {
		v, ok := doc.Find("/container")
		if !ok || v == nil {
			t.Fatal("didn't find expected value")
		}
	})
	t.Run("non-existant key", func(t *testing.T) {
		v, ok := doc.Find("/foo")
		if ok || v != nil {
			t.Fatal("found unexpected value")
		}
	})
}

func TestDocumentRange(t *testing.T) {
	doc := DocumentFromObject(TESTOBJ)
	rangeLeaves := map[string]interface{}{
		"/container/containerleaf":                "foo",
		"/nested-list[0]/key":                     "nest1",
		"/nested-list[0]/container/containerleaf": "foo",
		"/nested-list[0]/leaf-list[0]":            1,
		"/nested-list[0]/leaf-list[1]":            2,
		"/nested-list[0]/leaf-list[2]":            3,
		"/nested-list[0]/leaf-list[3]":            4,
		"/nested-list[0]/leaf-list[4]":            5,
		"/nested-list[0]/leaf-list[5]":            6,
		"/nested-list[0]/leaf-list[6]":            7,
		"/nested-list[0]/list[0]/objleaf":         "bar",
		"/nested-list[0]/list[0]/key":             "foo",
		"/nested-list[0]/list[1]/objleaf":         "baz",
		"/nested-list[0]/list[1]/key":             "bar",
		"/nested-list[0]/list[2]/key":             "baz",
		"/nested-list[0]/list[2]/objleaf":         "quux",
		"/nested-list[0]/list[3]/key":             "quux",
		"/nested-list[0]/list[3]/objleaf":         "quuz",
		"/nested-list[0]/leaf":                    "foo",
		"/nested-list[1]/list[0]/objleaf":         "bar",
		"/nested-list[1]/list[0]/key":             "foo",
		"/nested-list[1]/list[1]/key":             "bar",
		"/nested-list[1]/list[1]/objleaf":         "baz",
		"/nested-list[1]/list[2]/key":             "baz",
		"/nested-list[1]/list[2]/objleaf":         "quux",
		"/nested-list[1]/list[3]/key":             "quux",
		"/nested-list[1]/list[3]/objleaf":         "quuz",
		"/nested-list[1]/container/containerleaf": "foo",
		"/nested-list[1]/leaf-list[0]":            1,
		"/nested-list[1]/leaf-list[1]":            2,
		"/nested-list[1]/leaf-list[2]":            3,
		"/nested-list[1]/leaf-list[3]":            4,
		"/nested-list[1]/leaf-list[4]":            5,
		"/nested-list[1]/leaf-list[5]":            6,
		"/nested-list[1]/leaf-list[6]":            7,
		"/nested-list[1]/key":                     "nest2",
		"/nested-list[1]/leaf":                    "foo",
		"/nested/container/containerleaf":         "foo",
		"/nested/leaf":                            "foo",
		"/nested/list[0]/objleaf":                 "bar",
		"/nested/list[0]/key":                     "foo",
		"/nested/list[1]/objleaf":                 "baz",
		"/nested/list[1]/key":                     "bar",
		"/nested/list[2]/objleaf":                 "quux",
		"/nested/list[2]/key":                     "baz",
		"/nested/list[3]/key":                     "quux",
		"/nested/list[3]/objleaf":                 "quuz",
		"/nested/leaf-list[0]":                    1,
		"/nested/leaf-list[1]":                    2,
		"/nested/leaf-list[2]":                    3,
		"/nested/leaf-list[3]":                    4,
		"/nested/leaf-list[4]":                    5,
		"/nested/leaf-list[5]":                    6,
		"/nested/leaf-list[6]":                    7,
		"/list[0]/key":                            "foo",
		"/list[0]/objleaf":                        "bar",
		"/list[1]/objleaf":                        "baz",
		"/list[1]/key":                            "bar",
		"/list[2]/objleaf":                        "quux",
		"/list[2]/key":                            "baz",
		"/list[3]/key":                            "quux",
		"/list[3]/objleaf":                        "quuz",
		"/leaf-list[0]":                           1,
		"/leaf-list[1]":                           2,
		"/leaf-list[2]":                           3,
		"/leaf-list[3]":                           4,
		"/leaf-list[4]":                           5,
		"/leaf-list[5]":                           6,
		"/leaf-list[6]":                           7,
		"/leaf":                                   "foo",
	}
	t.Run("func(*Path, *Value)", func(t *testing.T) {
		count := 0
		doc.Range(func(p *Path, v *Value) {
			v.Perform(func(o *Object) {
			}, func(a *Array) {
			}, func(other interface{}) {
				count++
				if !equal(ValueNew(rangeLeaves[p.String()]), v) {
					t.Fatal("didn't get expected value for",
						p, rangeLeaves[p.String()], v)
				}
			})
		})
		if count != len(rangeLeaves) {
			t.Fatal("didn't access all the values")
		}
	})
	t.Run("func(*Path, *Value) bool", func(t *testing.T) {
		count := 0
		doc.Range(func(p *Path, v *Value) bool {
			return v.Perform(func(o *Object) bool {
				return true
			}, func(a *Array) bool {
				return true
			}, func(other interface{}) bool {
				if p.String() == "/leaf-list[2]" {
					return false
				}
				count++
				if !equal(ValueNew(rangeLeaves[p.String()]), v) {
					t.Fatal("didn't get expected value for",
						p, rangeLeaves[p.String()], v)
				}
				return true
			}).(bool)
		})
		if count == len(rangeLeaves) {
			t.Fatal("accessed too many values")
		}
	})
	t.Run("func(string, *Value)", func(t *testing.T) {
		count := 0
		doc.Range(func(p string, v *Value) {
			v.Perform(func(o *Object) {
			}, func(a *Array) {
			}, func(other interface{}) {
				count++
				if !equal(ValueNew(rangeLeaves[p]), v) {
					t.Fatal("didn't get expected value for",
						p, rangeLeaves[p], v)
				}
			})
		})
		if count != len(rangeLeaves) {
			t.Fatal("didn't access all the values")
		}
	})
	t.Run("func(string, *Value) bool", func(t *testing.T) {
		count := 0
		doc.Range(func(p string, v *Value) bool {
			return v.Perform(func(o *Object) bool {
				return true
			}, func(a *Array) bool {
				return true
			}, func(other interface{}) bool {
				if p == "/leaf-list[2]" {
					return false
				}
				count++
				if !equal(ValueNew(rangeLeaves[p]), v) {
					t.Fatal("didn't get expected value for",
						p, rangeLeaves[p], v)
				}
				return true
			}).(bool)
		})
		if count == len(rangeLeaves) {
			t.Fatal("accessed too many values")
		}
	})
	t.Run("func(*Path)", func(t *testing.T) {
		count := 0
		doc.Range(func(p *Path) {
			count++
		})
		if count < len(rangeLeaves) {
			t.Fatal("didn't access all the values")
		}
	})
	t.Run("func(*Path) bool", func(t *testing.T) {
		total := 0
		doc.Range(func(p *Path) {
			total++
		})
		count := 0
		doc.Range(func(p *Path) bool {
			if p.String() == "/leaf-list[2]" {
				return false
			}
			count++
			return true
		})
		if count >= total {
			t.Fatal("accessed too many values")
		}
	})
	t.Run("func(string)", func(t *testing.T) {
		count := 0
		doc.Range(func(p string) {
			count++
		})
		if count < len(rangeLeaves) {
			t.Fatal("didn't access all the values")
		}
	})
	t.Run("func(string) bool", func(t *testing.T) {
		total := 0
		doc.Range(func(p string) {
			total++
		})
		count := 0
		doc.Range(func(p string) bool {
			if p == "/leaf-list[2]" {
				return false
			}
			count++
			return true
		})
		if count >= total {
			t.Fatal("accessed too many values")
		}
	})
	t.Run("func(*Value)", func(t *testing.T) {
		count := 0
		doc.Range(func(v *Value) {
			v.Perform(func(o *Object) {
			}, func(a *Array) {
			}, func(other interface{}) {
				count++
			})
		})
		if count != len(rangeLeaves) {
			t.Fatal("didn't access all the values")
		}
	})
	t.Run("func(*Value) bool", func(t *testing.T) {
		count := 0
		doc.Range(func(v *Value) bool {
			return v.Perform(func(o *Object) bool {
				return true
			}, func(a *Array) bool {
				return false
			}, func(other interface{}) bool {
				count++
				return true
			}).(bool)
		})
		if count == len(rangeLeaves) {
			t.Fatal("accessed too many values")
		}
	})
	t.Run("func(*Value) bool object", func(t *testing.T) {
		count := 0
		doc.Range(func(v *Value) bool {
			return v.Perform(func(o *Object) bool {
				return false
			}, func(a *Array) bool {
				return true
			}, func(other interface{}) bool {
				count++
				return true
			}).(bool)
		})
		if count == len(rangeLeaves) {
			t.Fatal("accessed too many values")
		}
	})
	t.Run("other function shapes", func(t *testing.T) {
		count := 0
		doc.Range(func(p *Path, v interface{}) {
			count++
		})
		if count < len(rangeLeaves) {
			t.Fatal("didn't access all the values")
		}
	})
	t.Run("null root visits the root itself", func(t *testing.T) {
		count := 0
		DocumentFromValue(nil).Range(func(p *Path, v *Value) {
			count++
			if p.String() != "/" || !v.IsNull() {
				t.Fatal("expected the null root at /", p, v)
			}
		})
		if count != 1 {
			t.Fatal("expected exactly one visit, got", count)
		}
	})
}
