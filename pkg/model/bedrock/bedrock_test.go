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
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prometheuslabstech/prometheus/pkg/errorsx"
	"github.com/prometheuslabstech/prometheus/pkg/model"
)

type fakeConverse struct {
	out   *bedrockruntime.ConverseOutput
	err   error
	input *bedrockruntime.ConverseInput
	calls int
}

func (f *fakeConverse) Converse(_ context.Context, params *bedrockruntime.ConverseInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	f.calls++
	f.input = params
	return f.out, f.err
}

func textOutput(texts ...string) *bedrockruntime.ConverseOutput {
	blocks := make([]types.ContentBlock, 0, len(texts))
	for _, t := range texts {
		blocks = append(blocks, &types.ContentBlockMemberText{Value: t})
	}
	return &bedrockruntime.ConverseOutput{
		Output: &types.ConverseOutputMemberMessage{
			Value: types.Message{Role: types.ConversationRoleAssistant, Content: blocks},
		},
		StopReason: types.StopReasonEndTurn,
		Usage: &types.TokenUsage{
			InputTokens:  aws.Int32(10),
			OutputTokens: aws.Int32(5),
			TotalTokens:  aws.Int32(15),
		},
	}
}

func TestConverseBuildsSingleTurnInput(t *testing.T) {
	api := &fakeConverse{out: textOutput("hello")}

	raw, err := Converse(context.Background(), api, &model.Request{
		UserMessage:  "Summarize AAPL",
		SystemPrompt: "You are an analyst.",
		ModelID:      "anthropic.claude-test",
	})
	require.NoError(t, err)
	require.Equal(t, 1, api.calls)

	in := api.input
	assert.Equal(t, "anthropic.claude-test", aws.ToString(in.ModelId))
	require.Len(t, in.System, 1)
	sys, ok := in.System[0].(*types.SystemContentBlockMemberText)
	require.True(t, ok)
	assert.Equal(t, "You are an analyst.", sys.Value)

	require.Len(t, in.Messages, 1)
	assert.Equal(t, types.ConversationRoleUser, in.Messages[0].Role)
	require.Len(t, in.Messages[0].Content, 1)
	user, ok := in.Messages[0].Content[0].(*types.ContentBlockMemberText)
	require.True(t, ok)
	assert.Equal(t, "Summarize AAPL", user.Value)

	require.NotNil(t, in.InferenceConfig)
	assert.Equal(t, int32(model.DefaultMaxTokens), aws.ToInt32(in.InferenceConfig.MaxTokens))

	assert.Equal(t, "end_turn", raw["stopReason"])
	text, err := ExtractText(raw)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestConverseTransportError(t *testing.T) {
	cause := errors.New("ThrottlingException: rate exceeded")
	api := &fakeConverse{err: cause}

	_, err := Converse(context.Background(), api, &model.Request{UserMessage: "m", SystemPrompt: "s"})
	require.Error(t, err)
	assert.True(t, errorsx.HasKind(err, errorsx.KindProviderTransport))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause.Error(), err.Error())
}

func TestConverseRejectsInvalidRequest(t *testing.T) {
	overflow := math.MaxInt32
	overflow++

	tests := []struct {
		name string
		req  *model.Request
	}{
		{name: "empty user message", req: &model.Request{SystemPrompt: "s"}},
		{name: "max tokens above int32", req: &model.Request{UserMessage: "m", SystemPrompt: "s", MaxTokens: overflow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeConverse{out: textOutput("x")}

			_, err := Converse(context.Background(), api, tt.req)
			require.Error(t, err)
			assert.True(t, errorsx.HasKind(err, errorsx.KindInvalidArgument))
			assert.Zero(t, api.calls)
		})
	}
}

func TestClientConverse(t *testing.T) {
	tests := []struct {
		name      string
		out       *bedrockruntime.ConverseOutput
		opts      []Option
		req       model.Request
		wantModel string
		wantText  string
		wantKind  errorsx.Kind
	}{
		{
			name:      "first block wins",
			out:       textOutput("first", "second"),
			req:       model.Request{UserMessage: "m", SystemPrompt: "s"},
			wantModel: DefaultModelID,
			wantText:  "first",
		},
		{
			name:      "client default model",
			out:       textOutput("ok"),
			opts:      []Option{WithDefaultModel("anthropic.custom")},
			req:       model.Request{UserMessage: "m", SystemPrompt: "s", MaxTokens: 64},
			wantModel: "anthropic.custom",
			wantText:  "ok",
		},
		{
			name:      "request model overrides default",
			out:       textOutput("ok"),
			opts:      []Option{WithDefaultModel("anthropic.custom")},
			req:       model.Request{UserMessage: "m", SystemPrompt: "s", ModelID: "anthropic.sonnet"},
			wantModel: "anthropic.sonnet",
			wantText:  "ok",
		},
		{
			name:      "empty content",
			out:       textOutput(),
			req:       model.Request{UserMessage: "m", SystemPrompt: "s"},
			wantModel: DefaultModelID,
			wantKind:  errorsx.KindMalformedResponse,
		},
		{
			name: "non-text first block",
			out: &bedrockruntime.ConverseOutput{
				Output: &types.ConverseOutputMemberMessage{
					Value: types.Message{
						Role:    types.ConversationRoleAssistant,
						Content: []types.ContentBlock{&types.ContentBlockMemberToolUse{}},
					},
				},
			},
			req:       model.Request{UserMessage: "m", SystemPrompt: "s"},
			wantModel: DefaultModelID,
			wantKind:  errorsx.KindMalformedResponse,
		},
		{
			name:      "no output message",
			out:       &bedrockruntime.ConverseOutput{},
			req:       model.Request{UserMessage: "m", SystemPrompt: "s"},
			wantModel: DefaultModelID,
			wantKind:  errorsx.KindMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeConverse{out: tt.out}
			client := New(api, tt.opts...)

			text, err := client.Converse(context.Background(), &tt.req)
			require.Equal(t, 1, api.calls)
			assert.Equal(t, tt.wantModel, aws.ToString(api.input.ModelId))

			if tt.wantKind != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantKind, errorsx.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, text)
		})
	}
}

func TestClientDoesNotMutateRequest(t *testing.T) {
	api := &fakeConverse{out: textOutput("ok")}
	req := &model.Request{UserMessage: "m", SystemPrompt: "s"}

	_, err := New(api).Converse(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, req.ModelID)
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr string
	}{
		{
			name:    "valid",
			payload: `{"output":{"message":{"role":"assistant","content":[{"text":"{\"keywords\":[]}"}]}}}`,
			want:    `{"keywords":[]}`,
		},
		{
			name:    "wrong field in block",
			payload: `{"output":{"message":{"content":[{"wrong_field":"bad"}]}}}`,
			wantErr: "output.message.content[0].text",
		},
		{
			name:    "missing output",
			payload: `{"stopReason":"end_turn"}`,
			wantErr: "missing output",
		},
		{
			name:    "missing message",
			payload: `{"output":{}}`,
			wantErr: "output.message",
		},
		{
			name:    "content not a list",
			payload: `{"output":{"message":{"content":"text"}}}`,
			wantErr: "output.message.content",
		},
		{
			name:    "empty content",
			payload: `{"output":{"message":{"content":[]}}}`,
			wantErr: "empty",
		},
		{
			name:    "text not a string",
			payload: `{"output":{"message":{"content":[{"text":42}]}}}`,
			wantErr: "output.message.content[0].text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw map[string]any
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &raw))

			got, err := ExtractText(raw)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errorsx.HasKind(err, errorsx.KindMalformedResponse))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractTextNil(t *testing.T) {
	_, err := ExtractText(nil)
	assert.True(t, errorsx.HasKind(err, errorsx.KindMalformedResponse))
}
