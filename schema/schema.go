package schema

import (
	"fmt"

	gojson "github.com/goccy/go-json"
)

// Kind identifies the variant of a schema node.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindNull    Kind = "null"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
	KindAnyOf   Kind = "anyOf"
	KindOneOf   Kind = "oneOf"
)

// Property is one declared object property. Declaration order is significant:
// extraction emits output properties in this order.
type Property struct {
	Name string
	Node *Node
}

// Node is one node of a recursive schema. Exactly the fields relevant to its
// Kind are populated; the rest stay zero.
type Node struct {
	Kind Kind

	// Numeric bounds, inclusive. Nil means unbounded.
	Min *float64
	Max *float64

	// Object fields.
	Properties           []Property
	Required             []string
	AdditionalProperties bool

	// Array item schema. Nil means items pass through unmodified.
	Items *Node

	// Alternation members for anyOf/oneOf.
	Members []*Node
}

// String returns a string schema.
func String() *Node { return &Node{Kind: KindString} }

// Number returns a number schema. Bounds are added with [Node.WithMin] and
// [Node.WithMax].
func Number() *Node { return &Node{Kind: KindNumber} }

// Boolean returns a boolean schema.
func Boolean() *Node { return &Node{Kind: KindBoolean} }

// Null returns a null schema.
func Null() *Node { return &Node{Kind: KindNull} }

// Object returns an object schema with no declared properties.
func Object() *Node { return &Node{Kind: KindObject} }

// Array returns an array schema. items may be nil, in which case elements
// pass through extraction unmodified.
func Array(items *Node) *Node { return &Node{Kind: KindArray, Items: items} }

// AnyOf returns an alternation matched by the first member that accepts the
// value, in declaration order.
func AnyOf(members ...*Node) *Node { return &Node{Kind: KindAnyOf, Members: members} }

// OneOf returns an alternation that requires exactly one member to accept
// the value.
func OneOf(members ...*Node) *Node { return &Node{Kind: KindOneOf, Members: members} }

// Prop declares a property on an object schema and returns the node for
// chaining.
func (n *Node) Prop(name string, child *Node) *Node {
	n.Properties = append(n.Properties, Property{Name: name, Node: child})
	return n
}

// Require marks property names as required and returns the node for chaining.
func (n *Node) Require(names ...string) *Node {
	n.Required = append(n.Required, names...)
	return n
}

// Additional controls whether undeclared source keys are copied through
// extraction.
func (n *Node) Additional(allow bool) *Node {
	n.AdditionalProperties = allow
	return n
}

// WithMin sets the inclusive lower bound of a number schema.
func (n *Node) WithMin(min float64) *Node {
	n.Min = &min
	return n
}

// WithMax sets the inclusive upper bound of a number schema.
func (n *Node) WithMax(max float64) *Node {
	n.Max = &max
	return n
}

// PropNode returns the declared schema for a property name.
func (n *Node) PropNode(name string) (*Node, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Node, true
		}
	}
	return nil, false
}

// IsRequired reports whether a property name is in the required set.
func (n *Node) IsRequired(name string) bool {
	for _, r := range n.Required {
		if r == name {
			return true
		}
	}
	return false
}

// ToJSON renders the schema as a JSON Schema document, suitable for
// embedding in an LLM prompt.
func (n *Node) ToJSON() ([]byte, error) {
	return gojson.Marshal(n.toJSONSchema())
}

func (n *Node) toJSONSchema() map[string]any {
	doc := map[string]any{}
	switch n.Kind {
	case KindAnyOf, KindOneOf:
		members := make([]map[string]any, len(n.Members))
		for i, m := range n.Members {
			members[i] = m.toJSONSchema()
		}
		doc[string(n.Kind)] = members
		return doc
	case KindObject:
		doc["type"] = "object"
		if len(n.Properties) > 0 {
			props := map[string]any{}
			for _, p := range n.Properties {
				props[p.Name] = p.Node.toJSONSchema()
			}
			doc["properties"] = props
		}
		if len(n.Required) > 0 {
			doc["required"] = n.Required
		}
		doc["additionalProperties"] = n.AdditionalProperties
	case KindArray:
		doc["type"] = "array"
		if n.Items != nil {
			doc["items"] = n.Items.toJSONSchema()
		}
	default:
		doc["type"] = string(n.Kind)
		if n.Min != nil {
			doc["minimum"] = *n.Min
		}
		if n.Max != nil {
			doc["maximum"] = *n.Max
		}
	}
	return doc
}

// Validate checks basic well-formedness of the schema itself: known kinds,
// non-empty alternations, required names that are declared.
func (n *Node) Validate() error {
	switch n.Kind {
	case KindString, KindNumber, KindBoolean, KindNull:
		return nil
	case KindObject:
		for _, r := range n.Required {
			if _, ok := n.PropNode(r); !ok {
				return fmt.Errorf("schema: required property %q is not declared", r)
			}
		}
		for _, p := range n.Properties {
			if err := p.Node.Validate(); err != nil {
				return err
			}
		}
		return nil
	case KindArray:
		if n.Items != nil {
			return n.Items.Validate()
		}
		return nil
	case KindAnyOf, KindOneOf:
		if len(n.Members) == 0 {
			return fmt.Errorf("schema: %s with no members", n.Kind)
		}
		for _, m := range n.Members {
			if err := m.Validate(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("schema: unknown kind %q", n.Kind)
	}
}
