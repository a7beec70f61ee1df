package mapping

import (
	"slices"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// File is the root of a YAML descriptor file.
type File struct {
	// Version of the descriptor schema.
	Version string `yaml:"version,omitempty"`
	// Types lists the descriptor entries, one per Go type.
	Types []TypeEntry `yaml:"types"`
}

// TypeEntry describes the fields of one Go type.
type TypeEntry struct {
	// Type is the name the Go type was registered under, e.g. "Entity" or "domain.Entity".
	Type string `yaml:"type"`
	// Table is an optional logical container name.
	Table string `yaml:"table,omitempty"`
	// Fields maps member names to their logical fields.
	Fields map[string]FieldList `yaml:"fields,omitempty"`
	// Ignore lists members that never take part in descriptor mapping.
	Ignore []string `yaml:"ignore,omitempty"`
}

// MemberNames returns the keys of Fields in sorted order.
func (e TypeEntry) MemberNames() []string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// FieldSpec is one logical field of a member.
type FieldSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"`
}

// FieldList is a collection of FieldSpec that can be unmarshaled from:
//   - a single name: order_id
//   - a single spec: {name: order_number_2, type: string}
//   - a list of either: [order_number, {name: order_number_2, type: string}]
type FieldList []FieldSpec

// UnmarshalYAML implements custom YAML unmarshaling for FieldList.
func (f *FieldList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.MappingNode:
		spec, err := decodeFieldSpec(node)
		if err != nil {
			return err
		}

		*f = FieldList{spec}

		return nil

	case yaml.SequenceNode:
		list := make(FieldList, 0, len(node.Content))

		for _, item := range node.Content {
			spec, err := decodeFieldSpec(item)
			if err != nil {
				return err
			}

			list = append(list, spec)
		}

		*f = list

		return nil

	default:
		return errors.Newf("line %d: expected field name, field spec or list, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML outputs the shortest form that decodes back to the same list.
func (f FieldList) MarshalYAML() (any, error) {
	out := make([]any, 0, len(f))

	for _, spec := range f {
		if spec.Type == "" {
			out = append(out, spec.Name)
		} else {
			out = append(out, spec)
		}
	}

	if len(out) == 1 {
		return out[0], nil
	}

	return out, nil
}

// Names returns the field names in order.
func (f FieldList) Names() []string {
	names := make([]string, 0, len(f))
	for _, spec := range f {
		names = append(names, spec.Name)
	}

	return names
}

func decodeFieldSpec(node *yaml.Node) (FieldSpec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var name string
		if err := node.Decode(&name); err != nil {
			return FieldSpec{}, err
		}

		return FieldSpec{Name: name}, nil

	case yaml.MappingNode:
		var spec FieldSpec
		if err := node.Decode(&spec); err != nil {
			return FieldSpec{}, err
		}

		return spec, nil

	default:
		return FieldSpec{}, errors.Newf("line %d: expected field name or field spec, got %v", node.Line, node.Kind)
	}
}
