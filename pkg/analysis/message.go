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

// KeywordsMessage builds the user message of extract_research_keywords.
// Context, when supplied, always precedes the source text. A non-nil empty
// context still produces the prefix.
func KeywordsMessage(sourceText string, additionalContext *string) string {
	if additionalContext == nil {
		return sourceText
	}
	return "Context: " + *additionalContext + "\n\n" + sourceText
}

// PlanMessage builds the user message of generate_research_plan.
func PlanMessage(prompt string, context *string) string {
	if context == nil {
		return prompt
	}
	return "Context:\n" + *context + "\n\nResearch prompt: " + prompt
}
