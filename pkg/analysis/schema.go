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

package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
)

// KeywordRecord pairs a security with a research theme.
type KeywordRecord struct {
	// Security is the full company name or security identifier.
	Security string `json:"security"`

	// Theme is the industry theme or topic.
	Theme string `json:"theme"`

	// Context briefly explains why the pair is relevant.
	Context string `json:"context"`
}

// KeywordsResponse is the validated output of extract_research_keywords.
type KeywordsResponse struct {
	Keywords []KeywordRecord `json:"keywords"`
}

// JSON returns the compact serialization. Keywords is always an array.
func (r *KeywordsResponse) JSON() (string, error) {
	out := KeywordsResponse{Keywords: r.Keywords}
	if out.Keywords == nil {
		out.Keywords = []KeywordRecord{}
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// SchemaError identifies the first place model output departs from the
// keyword schema. Field is a path such as "keywords[2].theme"; empty means
// the document as a whole.
type SchemaError struct {
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return "schema validation failed: " + e.Reason
	}
	return fmt.Sprintf("schema validation failed at %s: %s", e.Field, e.Reason)
}

var keywordFields = []string{"security", "theme", "context"}

// ValidateKeywords parses raw model output against the keyword schema.
//
// The document must be a JSON object. An absent "keywords" key means no
// keywords; otherwise it must be an array of objects whose "security",
// "theme" and "context" fields are non-empty strings. Unknown fields are
// dropped. Exact duplicate records (same security, theme and context) are
// collapsed, keeping the first, so the result may hold fewer records than
// the model returned.
//
// Failures are *SchemaError values classified as
// errorsx.KindSchemaValidation. Nothing is returned on failure.
func ValidateKeywords(raw string) (*KeywordsResponse, error) {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, schemaError("", "invalid JSON: %v", err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, schemaError("", "expected a JSON object, got %s", jsonType(doc))
	}

	value, present := obj["keywords"]
	if !present {
		return &KeywordsResponse{Keywords: []KeywordRecord{}}, nil
	}

	items, ok := value.([]any)
	if !ok {
		return nil, schemaError("keywords", "expected an array, got %s", jsonType(value))
	}

	resp := &KeywordsResponse{Keywords: make([]KeywordRecord, 0, len(items))}
	seen := make(map[KeywordRecord]struct{}, len(items))

	for i, item := range items {
		path := fmt.Sprintf("keywords[%d]", i)

		fields, ok := item.(map[string]any)
		if !ok {
			return nil, schemaError(path, "expected an object, got %s", jsonType(item))
		}

		values := make(map[string]string, len(keywordFields))
		for _, name := range keywordFields {
			v, present := fields[name]
			if !present {
				return nil, schemaError(path+"."+name, "field required")
			}
			s, ok := v.(string)
			if !ok {
				return nil, schemaError(path+"."+name, "expected a string, got %s", jsonType(v))
			}
			if strings.TrimSpace(s) == "" {
				return nil, schemaError(path+"."+name, "must not be empty")
			}
			values[name] = s
		}

		record := KeywordRecord{
			Security: values["security"],
			Theme:    values["theme"],
			Context:  values["context"],
		}
		if _, dup := seen[record]; dup {
			continue
		}
		seen[record] = struct{}{}
		resp.Keywords = append(resp.Keywords, record)
	}

	return resp, nil
}

func schemaError(field, format string, args ...any) error {
	return errorsx.Wrap(&SchemaError{Field: field, Reason: fmt.Sprintf(format, args...)}, errorsx.KindSchemaValidation)
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
