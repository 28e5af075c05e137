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

package bedrock

import (
	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
)

// ExtractText returns output.message.content[0].text from a raw Converse
// response. Any missing or mistyped segment, or an empty content list, is an
// errorsx.KindMalformedResponse error naming the segment. There is no
// partial recovery.
func ExtractText(raw map[string]any) (string, error) {
	if raw == nil {
		return "", malformed("response")
	}

	output, ok := raw["output"].(map[string]any)
	if !ok {
		return "", malformed("output")
	}

	message, ok := output["message"].(map[string]any)
	if !ok {
		return "", malformed("output.message")
	}

	content, ok := message["content"].([]any)
	if !ok {
		return "", malformed("output.message.content")
	}
	if len(content) == 0 {
		return "", errorsx.New(errorsx.KindMalformedResponse, "malformed converse response: output.message.content is empty")
	}

	first, ok := content[0].(map[string]any)
	if !ok {
		return "", malformed("output.message.content[0]")
	}

	text, ok := first["text"].(string)
	if !ok {
		return "", malformed("output.message.content[0].text")
	}
	return text, nil
}

func malformed(path string) error {
	return errorsx.New(errorsx.KindMalformedResponse, "malformed converse response: missing %s", path)
}
