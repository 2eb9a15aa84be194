package services

import (
	"context"
	"testing"

	"github.com/go-playground/assert/v2"
	"google.golang.org/genai"
)

func TestNewGeminiService_MissingKey(t *testing.T) {
	svc, err := NewGeminiService(context.Background(), "", "", true)

	assert.Equal(t, true, svc == nil)
	assert.NotEqual(t, nil, err)
}

func TestConvertGeminiResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    Outcome
		wantTxt string
	}{
		{
			name: "text parts",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: "Found 2 events..."}}},
				}},
			},
			want:    OutcomeText,
			wantTxt: "Found 2 events...",
		},
		{
			name: "blocked prompt",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{
					BlockReason: genai.BlockedReasonSafety,
				},
			},
			want: OutcomeBlocked,
		},
		{
			name: "thought parts are skipped",
			resp: &genai.GenerateContentResponse{
				Candidates: []*genai.Candidate{{
					Content: &genai.Content{Parts: []*genai.Part{{Text: "thinking", Thought: true}}},
				}},
			},
			want: OutcomeEmpty,
		},
		{
			name: "no candidates",
			resp: &genai.GenerateContentResponse{},
			want: OutcomeEmpty,
		},
		{
			name: "nil response",
			want: OutcomeEmpty,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertGeminiResponse(tt.resp)

			assert.Equal(t, tt.want, got.Outcome())
			if tt.wantTxt != "" {
				text, err := got.ResultText()
				assert.Equal(t, nil, err)
				assert.Equal(t, tt.wantTxt, text)
			}
		})
	}
}

func TestConvertGeminiResponse_BlockReasonCode(t *testing.T) {
	got := convertGeminiResponse(&genai.GenerateContentResponse{
		PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
	})

	assert.Equal(t, "SAFETY", got.BlockReason)
}

func TestGeminiGenerateConfig(t *testing.T) {
	withSearch := &GeminiService{model: "m", webSearch: true}
	withoutSearch := &GeminiService{model: "m"}

	cfg := withSearch.generateConfig()
	assert.Equal(t, 1, len(cfg.Tools))
	assert.Equal(t, true, cfg.Tools[0].GoogleSearch != nil)
	assert.Equal(t, true, withoutSearch.generateConfig() == nil)
	assert.Equal(t, "m", withSearch.ModelName())
}
