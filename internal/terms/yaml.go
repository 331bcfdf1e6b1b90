package terms

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// parseYAML mirrors the JSON shapes for YAML sources: a mapping of
// name -> pattern, or a sequence of records. Decoding goes through
// yaml.Node so that mapping order is preserved.
func parseYAML(data []byte) (*Set, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse term list YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("term list YAML must be a mapping or sequence")
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		return parseYAMLMapping(root)
	case yaml.SequenceNode:
		return parseYAMLSequence(root)
	default:
		return nil, fmt.Errorf("term list YAML must be a mapping or sequence")
	}
}

func parseYAMLMapping(node *yaml.Node) (*Set, error) {
	set := NewSet()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		value := node.Content[i+1]
		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("term %q: pattern must be a string", key.Value)
		}
		set.Add(key.Value, value.Value)
	}
	return set, nil
}

func parseYAMLSequence(node *yaml.Node) (*Set, error) {
	set := NewSet()
	for _, item := range node.Content {
		if item.Kind != yaml.MappingNode {
			continue
		}
		var fields []field
		for i := 0; i+1 < len(item.Content); i += 2 {
			key := item.Content[i]
			value := item.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				continue
			}
			var v any = nil
			if value.Kind == yaml.ScalarNode {
				v = value.Value
			}
			fields = append(fields, field{name: key.Value, value: v})
		}
		if name, pattern, ok := recordPair(fields); ok {
			set.Add(name, pattern)
		}
	}
	return set, nil
}
