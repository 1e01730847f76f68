// Package jsonld models a parsed JSON-LD payload as a tree of typed nodes. Decoding preserves the
// declaration order of properties, list items and @type values, which type resolution relies on.
package jsonld

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformedInput marks payloads that are not well-formed JSON objects or arrays of objects.
var ErrMalformedInput = errors.New("malformed JSON-LD payload")

// Kind tags the variant held by a Value.
type Kind int

const (
	// KindScalar is a string, number, boolean or null.
	KindScalar Kind = iota
	// KindList is an ordered list of values.
	KindList
	// KindNode is an embedded entity.
	KindNode
	// KindReference is an object carrying only an @id.
	KindReference
)

// Value is a property value.
type Value struct {
	Kind Kind
	// Scalar holds a string, json.Number, bool or nil when Kind is KindScalar.
	Scalar any
	List   []Value
	Node   *Node
	// Ref is the referenced @id when Kind is KindReference.
	Ref string
}

// IsEmpty reports whether the value carries no content: null, blank strings, empty lists and lists
// of empty values.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindScalar:
		if v.Scalar == nil {
			return true
		}
		if s, ok := v.Scalar.(string); ok {
			return strings.TrimSpace(s) == ""
		}
		return false
	case KindList:
		for _, item := range v.List {
			if !item.IsEmpty() {
				return false
			}
		}
		return true
	case KindReference:
		return v.Ref == ""
	default:
		return v.Node == nil
	}
}

// Strings returns the string scalars held by v, flattening lists.
func (v Value) Strings() []string {
	switch v.Kind {
	case KindScalar:
		if s, ok := v.Scalar.(string); ok {
			return []string{s}
		}
	case KindList:
		var out []string
		for _, item := range v.List {
			out = append(out, item.Strings()...)
		}
		return out
	case KindReference:
		return []string{v.Ref}
	}
	return nil
}

// Property is a named value in declaration order.
type Property struct {
	Name  string
	Value Value
}

// Node is one entity of the document.
type Node struct {
	ID    string
	Types []string
	// Context is the node's own @context declaration, if any.
	Context    any
	Properties []Property
}

// Get returns the value of the named property.
func (n *Node) Get(name string) (Value, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether the named property is present with a non-empty value.
func (n *Node) Has(name string) bool {
	v, ok := n.Get(name)
	return ok && !v.IsEmpty()
}

// Children returns the entities embedded in n's property values, in declaration order.
func (n *Node) Children() []*Node {
	var out []*Node
	for _, p := range n.Properties {
		out = collectNodes(p.Value, out)
	}
	return out
}

// Nodes returns the entities embedded in v, flattening lists.
func (v Value) Nodes() []*Node {
	return collectNodes(v, nil)
}

func collectNodes(v Value, out []*Node) []*Node {
	switch v.Kind {
	case KindNode:
		return append(out, v.Node)
	case KindList:
		for _, item := range v.List {
			out = collectNodes(item, out)
		}
	}
	return out
}

// Document is a parsed structured-data block.
type Document struct {
	Raw []byte
	// Contexts are the @context declarations found on the top-level object or array elements.
	Contexts []any
	Roots    []*Node
}

// Walk visits every entity depth-first in declaration order. depth is 0 for roots.
func (d *Document) Walk(fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, child := range n.Children() {
			visit(child, depth+1)
		}
	}
	for _, root := range d.Roots {
		visit(root, 0)
	}
}

// Parse decodes raw into a Document. Errors wrap ErrMalformedInput.
func Parse(raw []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedInput)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	top, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedInput, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after top-level value", ErrMalformedInput)
	}

	doc := &Document{Raw: append([]byte(nil), trimmed...)}

	switch t := top.(type) {
	case *object:
		doc.addTopLevel(t)
	case []any:
		if len(t) == 0 {
			return nil, fmt.Errorf("%w: empty top-level array", ErrMalformedInput)
		}
		for i, item := range t {
			obj, ok := item.(*object)
			if !ok {
				return nil, fmt.Errorf("%w: array element %d is not an object", ErrMalformedInput, i)
			}
			doc.addTopLevel(obj)
		}
	default:
		return nil, fmt.Errorf("%w: payload must be an object or an array of objects", ErrMalformedInput)
	}

	return doc, nil
}

// addTopLevel registers obj's context and either its @graph members or obj itself as roots.
func (d *Document) addTopLevel(obj *object) {
	if ctx, ok := obj.get("@context"); ok {
		d.Contexts = append(d.Contexts, plain(ctx))
	}

	if graph, ok := obj.get("@graph"); ok {
		items, isList := graph.([]any)
		if !isList {
			items = []any{graph}
		}
		for _, item := range items {
			if member, isObj := item.(*object); isObj {
				d.Roots = append(d.Roots, toNode(member))
			}
		}
		return
	}

	d.Roots = append(d.Roots, toNode(obj))
}

func toNode(obj *object) *Node {
	n := &Node{}
	for _, e := range obj.entries {
		switch e.key {
		case "@id":
			if s, ok := e.value.(string); ok {
				n.ID = strings.TrimSpace(s)
			}
		case "@type":
			n.Types = appendTypes(n.Types, e.value)
		case "@context":
			n.Context = plain(e.value)
		default:
			if strings.HasPrefix(e.key, "@") {
				continue
			}
			n.Properties = append(n.Properties, Property{Name: e.key, Value: toValue(e.value)})
		}
	}
	return n
}

func appendTypes(types []string, v any) []string {
	switch t := v.(type) {
	case string:
		if s := strings.TrimSpace(t); s != "" {
			types = append(types, s)
		}
	case []any:
		for _, item := range t {
			types = appendTypes(types, item)
		}
	}
	return types
}

func toValue(v any) Value {
	switch t := v.(type) {
	case *object:
		if inner, ok := t.get("@value"); ok {
			return Value{Kind: KindScalar, Scalar: plain(inner)}
		}
		if id, ok := t.get("@id"); ok && len(t.entries) == 1 {
			ref, _ := id.(string)
			return Value{Kind: KindReference, Ref: strings.TrimSpace(ref)}
		}
		return Value{Kind: KindNode, Node: toNode(t)}
	case []any:
		list := make([]Value, 0, len(t))
		for _, item := range t {
			list = append(list, toValue(item))
		}
		return Value{Kind: KindList, List: list}
	default:
		return Value{Kind: KindScalar, Scalar: t}
	}
}
