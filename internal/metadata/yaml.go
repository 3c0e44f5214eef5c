package metadata

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DuplicateKeyError reports a flattened key declared twice in one document.
// Keys are compared case-insensitively.
type DuplicateKeyError struct {
	Layer string
	Key   string
	Line  int
}

func (e *DuplicateKeyError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: duplicate key %q at line %d", e.Layer, e.Key, e.Line)
	}
	return fmt.Sprintf("%s: duplicate key %q", e.Layer, e.Key)
}

// NotMappingError reports a YAML document whose root is not a mapping.
type NotMappingError struct {
	Layer string
	Kind  string
}

func (e *NotMappingError) Error() string {
	return fmt.Sprintf("%s: expected a mapping at document root, found %s", e.Layer, e.Kind)
}

// ParseYAML decodes text and flattens it into a layer. Empty or comment-only
// text produces an empty layer.
func ParseYAML(name, text string) (*Layer, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return FlattenYAML(name, &doc)
}

// FlattenYAML flattens a decoded document (or any mapping node) into a layer.
// Nested mappings join with ":", sequence items use their index, and plain
// "~", "null", "Null" or "NULL" become explicit nulls.
func FlattenYAML(name string, node *yaml.Node) (*Layer, error) {
	layer := NewLayer(name)
	if node == nil || node.Kind == 0 {
		return layer, nil
	}
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return layer, nil
		}
		node = node.Content[0]
	}
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return layer, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, &NotMappingError{Layer: name, Kind: kindName(node.Kind)}
	}
	if err := flatten(layer, "", node); err != nil {
		return nil, err
	}
	return layer, nil
}

func flatten(layer *Layer, prefix string, node *yaml.Node) error {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		var merges []*yaml.Node
		for i := 0; i+1 < len(node.Content); i += 2 {
			k, v := node.Content[i], node.Content[i+1]
			if k.Tag == "!!merge" {
				merges = append(merges, v)
				continue
			}
			if err := flatten(layer, join(prefix, k.Value), v); err != nil {
				return err
			}
		}
		return mergeInto(layer, prefix, merges)
	case yaml.SequenceNode:
		for i, item := range node.Content {
			if err := flatten(layer, join(prefix, strconv.Itoa(i)), item); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if layer.Has(prefix) {
			return &DuplicateKeyError{Layer: layer.Name(), Key: prefix, Line: node.Line}
		}
		if isNull(node) {
			layer.SetNull(prefix)
		} else {
			layer.Set(prefix, node.Value)
		}
	}
	return nil
}

// mergeInto applies "<<" merge keys; explicitly declared keys take precedence.
func mergeInto(layer *Layer, prefix string, merges []*yaml.Node) error {
	for _, m := range merges {
		m = resolveAlias(m)
		sources := []*yaml.Node{m}
		if m.Kind == yaml.SequenceNode {
			sources = m.Content
		}
		for _, src := range sources {
			tmp := NewLayer(layer.Name())
			if err := flatten(tmp, prefix, src); err != nil {
				return err
			}
			for _, folded := range tmp.order {
				if _, exists := layer.entries[folded]; !exists {
					e := tmp.entries[folded]
					layer.put(e.key, e.value)
				}
			}
		}
	}
	return nil
}

func isNull(node *yaml.Node) bool {
	if node.Style != 0 {
		return false
	}
	switch node.Value {
	case "~", "null", "Null", "NULL":
		return true
	}
	return false
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func join(prefix, key string) string {
	key = strings.TrimSpace(key)
	if prefix == "" {
		return key
	}
	return prefix + KeyDelimiter + key
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "node"
	}
}
