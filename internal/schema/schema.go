// Package schema declares expected response shapes for AI-generated JSON and
// validates untrusted parsed values against them. Every analysis result is
// gated through Validate before any caller may trust it.
package schema

import (
	"fmt"

	"google.golang.org/genai"
)

// Type is the leaf or container type a field must hold.
type Type string

const (
	TypeObject Type = "object"
	TypeArray  Type = "array"
	TypeString Type = "string"
	TypeNumber Type = "number"
)

// Schema describes the exact shape a JSON value must have: field names,
// required-ness, and leaf types. Unknown extra fields are ignored so newer
// service output stays forward-compatible.
type Schema struct {
	Type        Type
	Description string
	Properties  map[string]*Schema // object schemas
	Items       *Schema            // array item schema
	Required    []string           // required object fields
}

// Object builds an object schema.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: TypeObject, Properties: properties, Required: required}
}

// Array builds an array schema with element-wise item validation.
func Array(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// String builds a string leaf schema.
func String() *Schema {
	return &Schema{Type: TypeString}
}

// Number builds a number leaf schema.
func Number() *Schema {
	return &Schema{Type: TypeNumber}
}

// Violation reports one field that failed validation.
type Violation struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Reason
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Reason)
}

// Validate recursively checks a parsed JSON value against the schema and
// returns every violation found. A nil result means the value conforms.
// Pure: neither the value nor the schema is modified.
func Validate(value any, s *Schema) []Violation {
	return validate(value, s, "")
}

func validate(value any, s *Schema, path string) []Violation {
	if s == nil {
		return nil
	}

	switch s.Type {
	case TypeObject:
		obj, ok := value.(map[string]any)
		if !ok {
			return []Violation{{Path: path, Reason: "expected object"}}
		}
		var violations []Violation
		for _, name := range s.Required {
			if _, present := obj[name]; !present {
				violations = append(violations, Violation{Path: joinPath(path, name), Reason: "required field missing"})
			}
		}
		for name, field := range s.Properties {
			child, present := obj[name]
			if !present {
				continue // absence of optional fields is fine; required absence reported above
			}
			violations = append(violations, validate(child, field, joinPath(path, name))...)
		}
		return violations

	case TypeArray:
		arr, ok := value.([]any)
		if !ok {
			return []Violation{{Path: path, Reason: "expected array"}}
		}
		var violations []Violation
		for i, item := range arr {
			violations = append(violations, validate(item, s.Items, fmt.Sprintf("%s[%d]", path, i))...)
		}
		return violations

	case TypeString:
		if _, ok := value.(string); !ok {
			return []Violation{{Path: path, Reason: "expected string"}}
		}
		return nil

	case TypeNumber:
		if !isNumber(value) {
			return []Violation{{Path: path, Reason: "expected number"}}
		}
		return nil

	default:
		return []Violation{{Path: path, Reason: fmt.Sprintf("unknown schema type %q", s.Type)}}
	}
}

func isNumber(value any) bool {
	switch value.(type) {
	case float64, float32, int, int32, int64:
		return true
	default:
		return false
	}
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// ToGenAI converts the schema into the genai response schema used to
// constrain service output. Validation still runs on the response; the
// declared schema is an instruction to the service, not a guarantee.
func (s *Schema) ToGenAI() *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
		if len(s.Properties) > 0 {
			out.Properties = make(map[string]*genai.Schema, len(s.Properties))
			for name, field := range s.Properties {
				out.Properties[name] = field.ToGenAI()
			}
		}
		out.Required = append([]string(nil), s.Required...)
	case TypeArray:
		out.Type = genai.TypeArray
		out.Items = s.Items.ToGenAI()
	case TypeString:
		out.Type = genai.TypeString
	case TypeNumber:
		out.Type = genai.TypeNumber
	}
	return out
}
