package rules

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- StringArray YAML methods ---

// UnmarshalYAML implements yaml.Unmarshaler for StringArray.
func (s *StringArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str == "" {
			*s = StringArray{}
		} else {
			*s = StringArray{str}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise a list.
func (s StringArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// --- Props YAML methods ---

// UnmarshalYAML implements yaml.Unmarshaler for Props.
// Accepts:
//   - Single shorthand: "name:CustomerName"
//   - Single object: {src: name, ref: CustomerName}
//   - List mixing both forms
func (p *Props) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.MappingNode:
		prop, err := decodeProp(node)
		if err != nil {
			return err
		}

		*p = Props{prop}

		return nil

	case yaml.SequenceNode:
		props := make(Props, 0, len(node.Content))

		for _, item := range node.Content {
			prop, err := decodeProp(item)
			if err != nil {
				return err
			}

			props = append(props, prop)
		}

		*p = props

		return nil

	default:
		return fmt.Errorf("line %d: expected prop string, prop object or list", node.Line)
	}
}

func decodeProp(node *yaml.Node) (PropRule, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return PropRule{}, err
		}

		prop, err := ParseProp(str)
		if err != nil {
			return PropRule{}, fmt.Errorf("line %d: %w", node.Line, err)
		}

		return prop, nil

	case yaml.MappingNode:
		// Plain struct decode; an alias type avoids recursing into Props.
		type plain PropRule

		var prop plain
		if err := node.Decode(&prop); err != nil {
			return PropRule{}, err
		}

		return PropRule(prop), nil

	default:
		return PropRule{}, errors.New("expected prop string or object")
	}
}

// MarshalYAML writes props back in shorthand form where no expression is set.
func (p Props) MarshalYAML() (any, error) {
	out := make([]any, len(p))

	for i, prop := range p {
		if prop.Exp == "" && prop.ExpType == "" {
			out[i] = prop.String()
		} else {
			out[i] = map[string]string{
				"src":      prop.Src,
				"ref":      prop.Ref,
				"exp":      prop.Exp,
				"exp_type": prop.ExpType,
			}
		}
	}

	return out, nil
}
