package lint

import (
	"fmt"
	"sort"
	"strings"
)

// Schema is the subset of JSON Schema used to validate rule options.
type Schema struct {
	Type                 string             `json:"type,omitempty" yaml:"type,omitempty"`
	MinItems             *int               `json:"minItems,omitempty" yaml:"minItems,omitempty"`
	MaxItems             *int               `json:"maxItems,omitempty" yaml:"maxItems,omitempty"`
	Items                *Schema            `json:"items,omitempty" yaml:"items,omitempty"`
	PrefixItems          []*Schema          `json:"prefixItems,omitempty" yaml:"prefixItems,omitempty"`
	Required             []string           `json:"required,omitempty" yaml:"required,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty" yaml:"properties,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

// Validate checks value against the schema. Values are expected in the shape
// produced by YAML or JSON decoding into interface{}.
func (s *Schema) Validate(value any) error {
	if s == nil {
		return nil
	}

	switch s.Type {
	case "object":
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("expected object")
		}
		return s.validateObject(obj)
	case "array":
		arr, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected array")
		}
		return s.validateArray(arr)
	case "string":
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected string")
		}
		return nil
	case "integer":
		switch v := value.(type) {
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer")
			}
		case int, int32, int64, uint, uint32, uint64:
			// already integer
		default:
			return fmt.Errorf("expected integer")
		}
		return nil
	case "number":
		switch value.(type) {
		case float64, float32, int, int32, int64, uint, uint32, uint64:
			return nil
		}
		return fmt.Errorf("expected number")
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean")
		}
		return nil
	case "":
		return nil
	default:
		return fmt.Errorf("unsupported schema type %q", s.Type)
	}
}

func (s *Schema) validateArray(arr []any) error {
	if s.MinItems != nil && len(arr) < *s.MinItems {
		return fmt.Errorf("expected at least %d items, got %d", *s.MinItems, len(arr))
	}
	if s.MaxItems != nil && len(arr) > *s.MaxItems {
		return fmt.Errorf("expected at most %d items, got %d", *s.MaxItems, len(arr))
	}

	for i, item := range arr {
		itemSchema := s.Items
		if i < len(s.PrefixItems) {
			itemSchema = s.PrefixItems[i]
		}
		if err := itemSchema.Validate(item); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return nil
}

func (s *Schema) validateObject(obj map[string]any) error {
	required := map[string]struct{}{}
	for _, r := range s.Required {
		required[r] = struct{}{}
	}

	for key, val := range obj {
		delete(required, key)
		if propSchema, ok := s.Properties[key]; ok && propSchema != nil {
			if err := propSchema.Validate(val); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		} else if s.AdditionalProperties != nil && !*s.AdditionalProperties {
			return fmt.Errorf("unexpected property %q", key)
		}
	}

	if len(required) > 0 {
		missing := make([]string, 0, len(required))
		for key := range required {
			missing = append(missing, key)
		}
		sort.Strings(missing)
		return fmt.Errorf("missing required properties: %s", strings.Join(missing, ", "))
	}
	return nil
}

// IntPtr is a helper for building schemas inline.
func IntPtr(n int) *int {
	return &n
}
