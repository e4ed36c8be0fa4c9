package schema

import (
	"fmt"
	"reflect"
	"strings"
)

// maxGenerateDepth bounds reflection recursion so that self-referential
// types fail cleanly instead of looping.
const maxGenerateDepth = 16

// FromType derives a schema from a Go type using reflection. Struct fields
// map to object properties named by their json tag (falling back to the
// field name); non-pointer fields are required unless tagged
// `parsefix:"optional"`. Pointer fields and fields with omitempty are
// optional. Slices map to arrays, maps to open objects, numeric kinds to
// number, and interface fields to an unconstrained open object.
//
// Example:
//
//	type Person struct {
//	    Name string `json:"name"`
//	    Age  int    `json:"age"`
//	    Bio  string `json:"bio,omitempty"`
//	}
//
//	node, err := schema.FromType[Person]()
func FromType[T any]() (*Node, error) {
	return fromReflectType(reflect.TypeFor[T](), 0)
}

func fromReflectType(t reflect.Type, depth int) (*Node, error) {
	if depth > maxGenerateDepth {
		return nil, fmt.Errorf("schema: type nesting exceeds %d levels (recursive type?)", maxGenerateDepth)
	}

	switch t.Kind() {
	case reflect.Pointer:
		return fromReflectType(t.Elem(), depth)
	case reflect.String:
		return String(), nil
	case reflect.Bool:
		return Boolean(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number(), nil
	case reflect.Slice, reflect.Array:
		items, err := fromReflectType(t.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		return Array(items), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("schema: map key type %s is not representable", t.Key())
		}
		return Object().Additional(true), nil
	case reflect.Interface:
		return Object().Additional(true), nil
	case reflect.Struct:
		return fromStruct(t, depth)
	default:
		return nil, fmt.Errorf("schema: cannot derive schema for %s", t)
	}
}

func fromStruct(t reflect.Type, depth int) (*Node, error) {
	node := Object()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitempty, skip := jsonName(field)
		if skip {
			continue
		}

		child, err := fromReflectType(field.Type, depth+1)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", field.Name, err)
		}
		node.Prop(name, child)

		optional := omitempty ||
			field.Type.Kind() == reflect.Pointer ||
			field.Tag.Get("parsefix") == "optional"
		if !optional {
			node.Require(name)
		}
	}
	return node, nil
}

func jsonName(field reflect.StructField) (name string, omitempty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	name = field.Name
	if tag != "" {
		parts := strings.Split(tag, ",")
		if parts[0] != "" {
			name = parts[0]
		}
		for _, opt := range parts[1:] {
			if opt == "omitempty" {
				omitempty = true
			}
		}
	}
	return name, omitempty, false
}
