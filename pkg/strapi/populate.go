package strapi

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// PopulateKey is the mapping key that nests a populate spec under a relation
// without extending the dotted path.
const PopulateKey = "populate"

// Populate describes which relations the content API should eagerly load.
// It is one of Wildcard, FieldList or Nested.
type Populate interface {
	isPopulate()
}

// Wildcard is a plain populate string, usually "*".
type Wildcard string

// FieldList is an ordered list of relation paths ("sections.backgroundImage").
type FieldList []string

// Nested is an ordered mapping of relation names to nested specs.
type Nested []Node

// Node is one key/value pair of a Nested spec.
type Node struct {
	Key   string
	Value Populate
}

func (Wildcard) isPopulate()  {}
func (FieldList) isPopulate() {}
func (Nested) isPopulate()    {}

// All populates every first-level relation.
const All = Wildcard("*")

// Fields builds a FieldList.
func Fields(paths ...string) FieldList {
	return FieldList(paths)
}

// Nest builds a Nested spec from nodes, keeping their order.
func Nest(nodes ...Node) Nested {
	return Nested(nodes)
}

// N builds a single Nested node.
func N(key string, value Populate) Node {
	return Node{Key: key, Value: value}
}

// Deep is shorthand for {key: {populate: {nodes...}}}.
func Deep(key string, nodes ...Node) Node {
	return N(key, Nest(N(PopulateKey, Nest(nodes...))))
}

// FlattenPopulate turns a populate spec into dot-joined relation paths in
// traversal order. Duplicates are kept.
func FlattenPopulate(p Populate) []string {
	return flatten(p, "", nil)
}

func flatten(p Populate, prefix string, out []string) []string {
	switch v := p.(type) {
	case Wildcard:
		// A leaf under a prefix means "everything under prefix".
		if prefix != "" {
			return append(out, prefix)
		}
		if v != "" {
			return append(out, string(v))
		}
	case FieldList:
		for _, field := range v {
			if field == "" {
				continue
			}
			out = append(out, joinPath(prefix, field))
		}
	case Nested:
		for _, node := range v {
			if node.Key == PopulateKey {
				out = flatten(node.Value, prefix, out)
				continue
			}
			if node.Key == "" {
				continue
			}
			path := joinPath(prefix, node.Key)
			if nested, ok := node.Value.(Nested); ok {
				out = flatten(nested, path, out)
				continue
			}
			out = append(out, path)
		}
	}
	return out
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// UnmarshalYAML decodes a YAML mapping into a Nested spec, preserving key order.
func (n *Nested) UnmarshalYAML(node *yaml.Node) error {
	node = resolveYAML(node)
	if node == nil || node.Kind != yaml.MappingNode {
		return fmt.Errorf("populate: expected mapping, got %s", yamlKind(node))
	}
	*n = parseYAMLMapping(node)
	return nil
}

// ParsePopulateYAML parses a YAML (or JSON) document into a Populate spec.
// Shapes other than string, sequence or mapping yield nil.
func ParsePopulateYAML(data []byte) (Populate, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("populate: %w", err)
	}
	return parseYAML(&node), nil
}

// ParsePopulate converts an already-decoded value into a Populate spec.
// Accepted inputs are Populate values, string, []string, []any, *yaml.Node and
// map[string]any. Go maps carry no order, so map keys are visited sorted;
// use YAML input when the order of nested keys matters.
func ParsePopulate(v any) Populate {
	switch val := v.(type) {
	case nil:
		return nil
	case Populate:
		return val
	case string:
		return Wildcard(val)
	case []string:
		return FieldList(val)
	case []any:
		fields := make(FieldList, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				fields = append(fields, s)
			}
		}
		return fields
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		nested := make(Nested, 0, len(keys))
		for _, k := range keys {
			nested = append(nested, N(k, ParsePopulate(val[k])))
		}
		return nested
	case *yaml.Node:
		return parseYAML(val)
	}
	return nil
}

func parseYAML(node *yaml.Node) Populate {
	node = resolveYAML(node)
	if node == nil {
		return nil
	}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil
		}
		return Wildcard(node.Value)
	case yaml.SequenceNode:
		fields := make(FieldList, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolveYAML(item)
			if item != nil && item.Kind == yaml.ScalarNode {
				fields = append(fields, item.Value)
			}
		}
		return fields
	case yaml.MappingNode:
		return parseYAMLMapping(node)
	}
	return nil
}

func parseYAMLMapping(node *yaml.Node) Nested {
	nested := make(Nested, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := resolveYAML(node.Content[i])
		if key == nil || key.Kind != yaml.ScalarNode {
			continue
		}
		nested = append(nested, N(key.Value, parseYAML(node.Content[i+1])))
	}
	return nested
}

func resolveYAML(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch node.Kind {
		case yaml.DocumentNode:
			if len(node.Content) == 0 {
				return nil
			}
			node = node.Content[0]
		case yaml.AliasNode:
			node = node.Alias
		default:
			return node
		}
	}
	return nil
}

func yamlKind(node *yaml.Node) string {
	if node == nil {
		return "nothing"
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return fmt.Sprintf("yaml kind %d", node.Kind)
	}
}
