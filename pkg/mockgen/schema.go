package mockgen

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Kind is the closed set of schema variants the generator understands.
type Kind int

// Schema variants.
const (
	KindAny Kind = iota
	KindRef
	KindAllOf
	KindAnyOf
	KindOneOf
	KindConst
	KindEnum
	KindObject
	KindArray
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindNull
)

// String returns the variant name, for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindAllOf:
		return "allOf"
	case KindAnyOf:
		return "anyOf"
	case KindOneOf:
		return "oneOf"
	case KindConst:
		return "const"
	case KindEnum:
		return "enum"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	default:
		return "any"
	}
}

// Property is one object property. Order matters: the generator walks
// properties in declaration order to keep the random stream stable.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is a structural description of a value. Exactly one variant is
// meaningful per node, selected by Kind.
type Schema struct {
	Kind Kind

	// KindRef
	Ref string

	// KindAllOf / KindAnyOf / KindOneOf
	Branches []*Schema

	// KindConst
	Const any

	// KindEnum
	Enum []any

	// KindObject
	Properties           []Property
	Required             []string
	AdditionalProperties *Schema

	// KindArray
	Items       *Schema
	PrefixItems []*Schema
	MinItems    *int
	MaxItems    *int

	// KindString
	Format    string
	MinLength *int
	MaxLength *int

	// KindNumber / KindInteger
	Minimum    *float64
	Maximum    *float64
	MultipleOf *float64

	// Embedded definitions, resolvable by $ref anywhere below this node.
	Defs map[string]*Schema
}

// IsRequired reports whether name appears in the schema's required list.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// ParseSchema decodes a JSON schema document into the closed variant form.
// Property declaration order is preserved.
func ParseSchema(data []byte) (*Schema, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid schema document: %w", err)
	}
	return parseNode(raw)
}

// rawSchema mirrors the JSON keys the generator cares about. Properties are
// kept raw so their order can be recovered from the token stream.
type rawSchema struct {
	Ref                  string            `json:"$ref"`
	Type                 string            `json:"type"`
	AllOf                []json.RawMessage `json:"allOf"`
	AnyOf                []json.RawMessage `json:"anyOf"`
	OneOf                []json.RawMessage `json:"oneOf"`
	Const                json.RawMessage   `json:"const"`
	Enum                 []any             `json:"enum"`
	Properties           json.RawMessage   `json:"properties"`
	Required             []string          `json:"required"`
	AdditionalProperties json.RawMessage   `json:"additionalProperties"`
	Items                json.RawMessage   `json:"items"`
	PrefixItems          []json.RawMessage `json:"prefixItems"`
	MinItems             *int              `json:"minItems"`
	MaxItems             *int              `json:"maxItems"`
	Format               string            `json:"format"`
	MinLength            *int              `json:"minLength"`
	MaxLength            *int              `json:"maxLength"`
	Minimum              *float64          `json:"minimum"`
	Maximum              *float64          `json:"maximum"`
	MultipleOf           *float64          `json:"multipleOf"`
	Defs                 json.RawMessage   `json:"$defs"`
	Definitions          json.RawMessage   `json:"definitions"`
}

func parseNode(data json.RawMessage) (*Schema, error) {
	trimmed := bytes.TrimSpace(data)
	// `true` and `false` are valid schemas: anything / nothing.
	if bytes.Equal(trimmed, []byte("true")) || bytes.Equal(trimmed, []byte("null")) {
		return &Schema{Kind: KindAny}, nil
	}
	if bytes.Equal(trimmed, []byte("false")) {
		return &Schema{Kind: KindNull}, nil
	}

	var raw rawSchema
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid schema node: %w", err)
	}

	s := &Schema{
		Ref:        raw.Ref,
		Enum:       raw.Enum,
		Required:   raw.Required,
		MinItems:   raw.MinItems,
		MaxItems:   raw.MaxItems,
		Format:     raw.Format,
		MinLength:  raw.MinLength,
		MaxLength:  raw.MaxLength,
		Minimum:    raw.Minimum,
		Maximum:    raw.Maximum,
		MultipleOf: raw.MultipleOf,
	}

	defsRaw := raw.Defs
	if defsRaw == nil {
		defsRaw = raw.Definitions
	}
	if defsRaw != nil {
		defs, err := parseDefs(defsRaw)
		if err != nil {
			return nil, err
		}
		s.Defs = defs
	}

	var err error
	switch {
	case raw.Ref != "":
		s.Kind = KindRef
	case raw.Const != nil:
		s.Kind = KindConst
		if uerr := json.Unmarshal(raw.Const, &s.Const); uerr != nil {
			return nil, fmt.Errorf("invalid const value: %w", uerr)
		}
	case len(raw.AllOf) > 0:
		s.Kind = KindAllOf
		s.Branches, err = parseBranches(raw.AllOf)
	case len(raw.OneOf) > 0:
		s.Kind = KindOneOf
		s.Branches, err = parseBranches(raw.OneOf)
	case len(raw.AnyOf) > 0:
		s.Kind = KindAnyOf
		s.Branches, err = parseBranches(raw.AnyOf)
	case len(raw.Enum) > 0 && raw.Type != "":
		s.Kind = KindEnum
	default:
		err = parseTyped(s, &raw)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// parseTyped fills in the primitive variants, inferring a type when the
// schema omits one: properties or required imply object, items implies array,
// a bare enum collapses to its first value, anything else is untyped.
func parseTyped(s *Schema, raw *rawSchema) error {
	typ := raw.Type
	if typ == "" {
		switch {
		case raw.Properties != nil || len(raw.Required) > 0:
			typ = "object"
		case raw.Items != nil || len(raw.PrefixItems) > 0:
			typ = "array"
		case len(raw.Enum) > 0:
			s.Kind = KindConst
			s.Const = raw.Enum[0]
			return nil
		default:
			s.Kind = KindAny
			return nil
		}
	}

	switch typ {
	case "object":
		s.Kind = KindObject
		if raw.Properties != nil {
			props, err := parseProperties(raw.Properties)
			if err != nil {
				return err
			}
			s.Properties = props
		}
		if raw.AdditionalProperties != nil && !bytes.Equal(bytes.TrimSpace(raw.AdditionalProperties), []byte("false")) {
			ap, err := parseNode(raw.AdditionalProperties)
			if err != nil {
				return err
			}
			s.AdditionalProperties = ap
		}
	case "array":
		s.Kind = KindArray
		if raw.Items != nil {
			items, err := parseNode(raw.Items)
			if err != nil {
				return err
			}
			s.Items = items
		}
		for _, p := range raw.PrefixItems {
			ps, err := parseNode(p)
			if err != nil {
				return err
			}
			s.PrefixItems = append(s.PrefixItems, ps)
		}
	case "string":
		s.Kind = KindString
	case "number":
		s.Kind = KindNumber
	case "integer":
		s.Kind = KindInteger
	case "boolean":
		s.Kind = KindBoolean
	case "null":
		s.Kind = KindNull
	default:
		return fmt.Errorf("unknown schema type %q", typ)
	}
	return nil
}

func parseBranches(raws []json.RawMessage) ([]*Schema, error) {
	branches := make([]*Schema, 0, len(raws))
	for _, r := range raws {
		b, err := parseNode(r)
		if err != nil {
			return nil, err
		}
		branches = append(branches, b)
	}
	return branches, nil
}

// parseProperties decodes an object of sub-schemas preserving key order,
// which a plain map decode would lose.
func parseProperties(data json.RawMessage) ([]Property, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid properties: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("properties must be an object")
	}

	var props []Property
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid properties: %w", err)
		}
		name, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("invalid schema for property %q: %w", name, err)
		}
		sub, err := parseNode(raw)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		props = append(props, Property{Name: name, Schema: sub})
	}
	return props, nil
}

func parseDefs(data json.RawMessage) (map[string]*Schema, error) {
	var rawDefs map[string]json.RawMessage
	if err := json.Unmarshal(data, &rawDefs); err != nil {
		return nil, fmt.Errorf("invalid $defs: %w", err)
	}
	defs := make(map[string]*Schema, len(rawDefs))
	for name, r := range rawDefs {
		sub, err := parseNode(r)
		if err != nil {
			return nil, fmt.Errorf("$defs[%q]: %w", name, err)
		}
		defs[name] = sub
	}
	return defs, nil
}
