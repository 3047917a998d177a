package lint

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrSchemaInvalid    = errors.New("lint: schema invalid")
	ErrSchemaValidation = errors.New("lint: schema validation failed")
)

// ValidationIssue captures a single schema violation.
type ValidationIssue struct {
	Location string
	Message  string
}

// String renders the issue as "#/pointer: message".
func (i ValidationIssue) String() string {
	location := strings.TrimSpace(i.Location)
	switch {
	case location == "":
		location = "#"
	case !strings.HasPrefix(location, "#"):
		location = "#" + location
	}
	if i.Message == "" {
		return location
	}
	return location + ": " + i.Message
}

// PayloadValidationError carries the individual violations found when a
// front matter payload fails its schema.
type PayloadValidationError struct {
	Issues []ValidationIssue
	Cause  error
}

func (e *PayloadValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return e.Cause.Error()
		}
		return ErrSchemaValidation.Error()
	}
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return strings.Join(parts, "; ")
}

func (e *PayloadValidationError) Unwrap() error {
	return ErrSchemaValidation
}

// Issues pulls the individual violations out of err, whether it is a payload
// error, a bare jsonschema error, or anything else.
func Issues(err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	var payloadErr *PayloadValidationError
	if errors.As(err, &payloadErr) && payloadErr != nil {
		return payloadErr.Issues
	}
	var schemaErr *jsonschema.ValidationError
	if errors.As(err, &schemaErr) && schemaErr != nil {
		return leafIssues(schemaErr)
	}
	return []ValidationIssue{{Message: err.Error()}}
}

// leafIssues flattens a jsonschema error tree into its leaf causes. The
// leaves carry the concrete violations; interior nodes only summarise them.
func leafIssues(root *jsonschema.ValidationError) []ValidationIssue {
	issues := []ValidationIssue{}
	stack := []*jsonschema.ValidationError{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == nil {
			continue
		}
		if len(node.Causes) == 0 {
			issues = append(issues, ValidationIssue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			continue
		}
		for i := len(node.Causes) - 1; i >= 0; i-- {
			stack = append(stack, node.Causes[i])
		}
	}
	return issues
}

// NormalizeSchema converts a schema definition into a JSON schema. A
// definition may already be JSON Schema, or a simple fields list
// ({"fields": [{"name": ..., "type": ..., "required": ...}]}).
func NormalizeSchema(schema map[string]any) map[string]any {
	if len(schema) == 0 {
		return nil
	}
	if isJSONSchema(schema) {
		return deepCopyMap(schema)
	}

	properties, required := fieldProperties(schema["fields"])
	if len(properties) == 0 {
		return nil
	}

	normalized := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if allowed, ok := schema["additionalProperties"].(bool); ok {
		normalized["additionalProperties"] = allowed
	}
	if len(required) > 0 {
		normalized["required"] = required
	}
	return normalized
}

func isJSONSchema(schema map[string]any) bool {
	for _, key := range []string{"$schema", "type", "properties", "oneOf", "anyOf", "allOf"} {
		if _, ok := schema[key]; ok {
			return true
		}
	}
	return false
}

// fieldProperties builds JSON schema properties from a fields-list value.
// Entries may be field maps or bare field names.
func fieldProperties(fields any) (map[string]any, []string) {
	properties := map[string]any{}
	required := []string{}

	add := func(field map[string]any) {
		name, prop, mandatory := property(field)
		if name == "" {
			return
		}
		properties[name] = prop
		if mandatory {
			required = append(required, name)
		}
	}

	switch typed := fields.(type) {
	case []any:
		for _, entry := range typed {
			switch item := entry.(type) {
			case map[string]any:
				add(item)
			case string:
				add(map[string]any{"name": item})
			}
		}
	case []map[string]any:
		for _, item := range typed {
			add(item)
		}
	}

	return properties, required
}

// property maps one fields-list entry onto a named JSON schema property.
// Entries may carry an inline "schema", a shorthand "type", or neither.
func property(field map[string]any) (string, any, bool) {
	name, _ := field["name"].(string)
	name = strings.TrimSpace(name)
	if name == "" {
		return "", nil, false
	}

	var prop any = map[string]any{}
	if inline, ok := field["schema"].(map[string]any); ok {
		prop = deepCopyMap(inline)
	} else if fieldType, ok := field["type"].(string); ok {
		if jsonType := canonicalJSONType(fieldType); jsonType != "" {
			prop = map[string]any{"type": jsonType}
		}
	}

	mandatory, _ := field["required"].(bool)
	return name, prop, mandatory
}

func canonicalJSONType(value string) string {
	cleaned := strings.ToLower(strings.TrimSpace(value))
	switch cleaned {
	case "string", "number", "integer", "boolean", "object", "array", "null":
		return cleaned
	}
	return ""
}

func compileSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("frontmatter.json")
}

// validateAgainst runs the compiled schema over a YAML-decoded payload.
func validateAgainst(compiled *jsonschema.Schema, payload map[string]any) error {
	if compiled == nil {
		return nil
	}
	if err := compiled.Validate(normalizePayload(payload)); err != nil {
		return &PayloadValidationError{Issues: Issues(err), Cause: err}
	}
	return nil
}

// normalizePayload rebuilds YAML-decoded values in the JSON value space the
// validator understands: string-keyed containers and RFC3339 timestamps.
func normalizePayload(value any) any {
	switch typed := value.(type) {
	case time.Time:
		return typed.Format(time.RFC3339)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizePayload(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalizePayload(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizePayload(item)
		}
		return out
	default:
		return typed
	}
}

func deepCopyMap(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = deepCopyValue(value)
	}
	return out
}

func deepCopyValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return deepCopyMap(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return typed
	}
}
