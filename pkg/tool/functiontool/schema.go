// Copyright 2025 Prometheus Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package functiontool

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
)

// generateSchema creates a JSON schema from a Go type using struct tags.
//
// Supported tags:
//   - json:"name" - Parameter name
//   - json:",omitempty" - Optional parameter
//   - jsonschema:"required" - Explicitly mark as required
//   - jsonschema:"description=..." - Parameter description
//   - jsonschema:"default=..." - Default value
//   - jsonschema:"enum=val1|val2" - Allowed values
//   - jsonschema_description:"..." - Description that may contain commas
//
// Example:
//
//	type Args struct {
//	    SourceText string  `json:"source_text" jsonschema:"required" jsonschema_description:"Article, report, filing, etc."`
//	    Context    *string `json:"additional_context,omitempty" jsonschema:"description=Focus hint"`
//	}
func generateSchema[T any]() (map[string]any, error) {
	// The reflector needs a named type. An unnamed empty struct takes no
	// arguments; any other unnamed type is rejected.
	if rt := reflect.TypeOf((*T)(nil)).Elem(); rt.Name() == "" {
		if rt.Kind() == reflect.Struct && rt.NumField() == 0 {
			return map[string]any{"type": "object", "properties": map[string]any{}}, nil
		}
		return nil, fmt.Errorf("tool arguments must be a named struct type, got %s", rt)
	}

	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	schemaMap, err := schemaToMap(reflector.Reflect(new(T)))
	if err != nil {
		return nil, fmt.Errorf("failed to convert schema to map: %w", err)
	}

	if schemaMap["type"] != "object" {
		return nil, fmt.Errorf("tool arguments must be a struct, got schema type %v", schemaMap["type"])
	}

	// MCP hosts reject input schemas without a properties object.
	properties, _ := schemaMap["properties"].(map[string]any)
	if properties == nil {
		properties = map[string]any{}
	}

	result := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if required, ok := schemaMap["required"]; ok && len(properties) > 0 {
		result["required"] = required
	}
	if addProps, ok := schemaMap["additionalProperties"]; ok {
		result["additionalProperties"] = addProps
	}

	return result, nil
}

// schemaToMap converts a jsonschema.Schema to map[string]any.
func schemaToMap(schema *jsonschema.Schema) (map[string]any, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	delete(result, "$schema")
	delete(result, "$id")

	return result, nil
}
