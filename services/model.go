package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrModelUnavailable = errors.New("AI model is not available. Please check server logs or try again later.")
	ErrContentBlocked   = errors.New("Content generation blocked")
	ErrEmptyResponse    = errors.New("Content generation failed. Received an empty response.")
)

// ModelClient is a handle to a hosted language model. Implementations must be
// safe for concurrent use.
type ModelClient interface {
	GenerateContent(ctx context.Context, prompt string) (*GenerateResponse, error)
	ModelName() string
}

// GenerateResponse is a model reply reduced to the fields the event search
// cares about.
type GenerateResponse struct {
	// Parts holds the text of each structured content part of the first candidate.
	Parts []string
	// BlockReason is set when the prompt was refused, e.g. "SAFETY".
	BlockReason string
	// Text is the raw text accessor of the reply, which may be set even when
	// Parts is empty.
	Text string
}

// Outcome classifies a GenerateResponse
type Outcome int

const (
	OutcomeEmpty Outcome = iota
	OutcomeText
	OutcomeBlocked
	OutcomeFallbackText
)

func (o Outcome) String() string {
	switch o {
	case OutcomeText:
		return "text"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeFallbackText:
		return "fallback_text"
	default:
		return "empty"
	}
}

// Outcome reports which shape the response has. Structured parts win over a
// block reason, and a block reason wins over raw fallback text.
func (r *GenerateResponse) Outcome() Outcome {
	switch {
	case r == nil:
		return OutcomeEmpty
	case len(r.Parts) > 0:
		return OutcomeText
	case r.BlockReason != "":
		return OutcomeBlocked
	case r.Text != "":
		return OutcomeFallbackText
	default:
		return OutcomeEmpty
	}
}

// ResultText extracts the usable answer or returns why there is none.
func (r *GenerateResponse) ResultText() (string, error) {
	switch r.Outcome() {
	case OutcomeText:
		if r.Text != "" {
			return r.Text, nil
		}
		return strings.Join(r.Parts, ""), nil
	case OutcomeBlocked:
		return "", fmt.Errorf("%w. Reason: %s", ErrContentBlocked, r.BlockReason)
	case OutcomeFallbackText:
		return r.Text, nil
	default:
		return "", ErrEmptyResponse
	}
}
