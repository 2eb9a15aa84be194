package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"google.golang.org/genai"
)

// GeminiService sends prompts to Google's Gemini API with optional Google
// Search grounding.
type GeminiService struct {
	client    *genai.Client
	model     string
	webSearch bool
}

// NewGeminiService creates the Gemini client. It fails when apiKey is empty.
func NewGeminiService(ctx context.Context, apiKey, model string, webSearch bool) (*GeminiService, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key not found. Please set the GEMINI_API_KEY environment variable.")
	}
	if model == "" {
		model = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	log.Printf("Gemini model %s initialized (web search: %v)", model, webSearch)

	return &GeminiService{
		client:    client,
		model:     model,
		webSearch: webSearch,
	}, nil
}

// GenerateContent sends a single text prompt and normalizes the reply
func (g *GeminiService) GenerateContent(ctx context.Context, prompt string) (*GenerateResponse, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.generateConfig())
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	return convertGeminiResponse(resp), nil
}

// ModelName returns the configured model
func (g *GeminiService) ModelName() string {
	return g.model
}

func (g *GeminiService) generateConfig() *genai.GenerateContentConfig {
	if !g.webSearch {
		return nil
	}
	return &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
}

func convertGeminiResponse(resp *genai.GenerateContentResponse) *GenerateResponse {
	out := &GenerateResponse{}
	if resp == nil {
		return out
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		out.BlockReason = string(resp.PromptFeedback.BlockReason)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part == nil || part.Text == "" || part.Thought {
				continue
			}
			out.Parts = append(out.Parts, part.Text)
		}
	}

	out.Text = resp.Text()
	return out
}
