package adapter

import (
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

func toGenaiType(t string) (genai.Type, error) {
	switch t {
	case "object":
		return genai.TypeObject, nil
	case "string":
		return genai.TypeString, nil
	case "integer":
		return genai.TypeInteger, nil
	case "number":
		return genai.TypeNumber, nil
	case "boolean":
		return genai.TypeBoolean, nil
	case "array":
		return genai.TypeArray, nil
	default:
		return "", goerr.New("unsupported schema type", goerr.V("type", t))
	}
}

// convertJSONSchemaToGenai converts JSON Schema to Gemini genai.Schema.
// A type list of one type plus "null" becomes a nullable schema.
func convertJSONSchemaToGenai(schema *jsonschema.Schema) (*genai.Schema, error) {
	if schema == nil {
		return nil, nil
	}

	genaiSchema := &genai.Schema{}

	if schema.Type != "" {
		t, err := toGenaiType(schema.Type)
		if err != nil {
			return nil, err
		}
		genaiSchema.Type = t
	}

	if len(schema.Types) > 0 {
		var nonNull []string
		for _, t := range schema.Types {
			if t == "null" {
				nullable := true
				genaiSchema.Nullable = &nullable
				continue
			}
			nonNull = append(nonNull, t)
		}
		if len(nonNull) != 1 {
			return nil, goerr.New("union schema type is not supported", goerr.V("types", schema.Types))
		}
		t, err := toGenaiType(nonNull[0])
		if err != nil {
			return nil, err
		}
		genaiSchema.Type = t
	}

	if schema.Description != "" {
		genaiSchema.Description = schema.Description
	}

	if len(schema.Enum) > 0 {
		genaiSchema.Enum = make([]string, len(schema.Enum))
		for i, v := range schema.Enum {
			if s, ok := v.(string); ok {
				genaiSchema.Enum[i] = s
			}
		}
	}

	if len(schema.Properties) > 0 {
		genaiSchema.Properties = make(map[string]*genai.Schema)
		for name, propSchema := range schema.Properties {
			converted, err := convertJSONSchemaToGenai(propSchema)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to convert property schema",
					goerr.V("property", name))
			}
			genaiSchema.Properties[name] = converted
		}
	}

	if len(schema.Required) > 0 {
		genaiSchema.Required = schema.Required
	}

	if schema.Items != nil {
		converted, err := convertJSONSchemaToGenai(schema.Items)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to convert items schema")
		}
		genaiSchema.Items = converted
	}

	return genaiSchema, nil
}
