package services

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/assert/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"eventfinder/models"
)

type fakeModel struct {
	resp    *GenerateResponse
	err     error
	panicV  any
	block   chan struct{}
	calls   atomic.Int32
	prompts chan string
}

func (f *fakeModel) GenerateContent(ctx context.Context, prompt string) (*GenerateResponse, error) {
	f.calls.Add(1)
	if f.prompts != nil {
		f.prompts <- prompt
	}
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.panicV != nil {
		panic(f.panicV)
	}
	return f.resp, f.err
}

func (f *fakeModel) ModelName() string { return "fake-model" }

func newTestFinder(client ModelClient, metrics *Metrics) *EventFinder {
	return NewEventFinder(client, EventFinderOptions{
		Metrics: metrics,
		Now:     func() time.Time { return april1 },
	})
}

func TestFindEvents_NoClient(t *testing.T) {
	metrics := NewMetrics()
	finder := newTestFinder(nil, metrics)

	res := finder.FindEvents(context.Background(), models.EventSearchRequest{InterestDescription: "jazz"})

	assert.Equal(t, "", res.ResultsText)
	assert.Equal(t, true, res.Failed())
	assert.Equal(t, "AI model is not available. Please check server logs or try again later.", res.ErrorMessage())
	assert.Equal(t, false, finder.IsAvailable())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.searchTotal.WithLabelValues(outcomeUnavailable)))
}

func TestFindEvents_Outcomes(t *testing.T) {
	tests := []struct {
		name        string
		model       *fakeModel
		wantText    string
		wantErr     bool
		wantErrPart string
		wantOutcome string
	}{
		{
			name: "parts with text",
			model: &fakeModel{resp: &GenerateResponse{
				Parts: []string{"Found 2 events..."},
				Text:  "Found 2 events...",
			}},
			wantText:    "Found 2 events...",
			wantOutcome: outcomeSuccess,
		},
		{
			name:        "blocked",
			model:       &fakeModel{resp: &GenerateResponse{BlockReason: "SAFETY"}},
			wantErr:     true,
			wantErrPart: "SAFETY",
			wantOutcome: outcomeBlocked,
		},
		{
			name:        "empty response",
			model:       &fakeModel{resp: &GenerateResponse{}},
			wantErr:     true,
			wantErrPart: "Received an empty response",
			wantOutcome: outcomeEmpty,
		},
		{
			name:        "nil response",
			model:       &fakeModel{},
			wantErr:     true,
			wantErrPart: "Received an empty response",
			wantOutcome: outcomeEmpty,
		},
		{
			name:        "fallback raw text",
			model:       &fakeModel{resp: &GenerateResponse{Text: "1. Jazz on the Green"}},
			wantText:    "1. Jazz on the Green",
			wantOutcome: outcomeFallbackText,
		},
		{
			name:        "transport error",
			model:       &fakeModel{err: errors.New("quota exceeded")},
			wantErr:     true,
			wantErrPart: "quota exceeded",
			wantOutcome: outcomeError,
		},
		{
			name:        "panicking client",
			model:       &fakeModel{panicV: "boom"},
			wantErr:     true,
			wantErrPart: "boom",
			wantOutcome: outcomeError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := NewMetrics()
			finder := newTestFinder(tt.model, metrics)

			res := finder.FindEvents(context.Background(), models.EventSearchRequest{
				InterestDescription: "live music",
				Location:            "Blaine, MN",
			})

			assert.Equal(t, tt.wantText, res.ResultsText)
			assert.Equal(t, tt.wantErr, res.Failed())
			if tt.wantErr {
				assert.Equal(t, true, strings.HasPrefix(res.ErrorMessage(), "Failed to find events: "))
				assert.Equal(t, true, strings.Contains(res.ErrorMessage(), tt.wantErrPart))
			}
			assert.Equal(t, int32(1), tt.model.calls.Load())
			assert.Equal(t, float64(1), testutil.ToFloat64(metrics.searchTotal.WithLabelValues(tt.wantOutcome)))
		})
	}
}

func TestFindEvents_AppliesDefaults(t *testing.T) {
	model := &fakeModel{
		resp:    &GenerateResponse{Parts: []string{"ok"}, Text: "ok"},
		prompts: make(chan string, 1),
	}
	finder := newTestFinder(model, nil)

	finder.FindEvents(context.Background(), models.EventSearchRequest{InterestDescription: "  pottery classes "})

	prompt := <-model.prompts
	assert.Equal(t, true, strings.Contains(prompt, "Blaine, MN"))
	assert.Equal(t, true, strings.Contains(prompt, "April 15, 2025"))
	assert.Equal(t, true, strings.Contains(prompt, NoEventsSentence("pottery classes", "Blaine, MN", 14)))
}

func TestFindEvents_CustomTimeframe(t *testing.T) {
	model := &fakeModel{
		resp:    &GenerateResponse{Parts: []string{"ok"}, Text: "ok"},
		prompts: make(chan string, 1),
	}
	finder := newTestFinder(model, nil)

	finder.FindEvents(context.Background(), models.EventSearchRequest{
		InterestDescription: "farmers markets",
		Location:            "Anoka, MN",
		TimeframeDays:       7,
	})

	prompt := <-model.prompts
	assert.Equal(t, true, strings.Contains(prompt, "April 01, 2025 and April 08, 2025"))
	assert.Equal(t, true, strings.Contains(prompt, "Anoka, MN"))
}

func TestFindEvents_Timeout(t *testing.T) {
	model := &fakeModel{block: make(chan struct{})}
	defer close(model.block)
	finder := NewEventFinder(model, EventFinderOptions{Timeout: 20 * time.Millisecond})

	res := finder.FindEvents(context.Background(), models.EventSearchRequest{InterestDescription: "jazz"})

	assert.Equal(t, true, res.Failed())
	assert.Equal(t, true, strings.Contains(res.ErrorMessage(), context.DeadlineExceeded.Error()))
}

func TestFindEvents_ConcurrentCallsDoNotBlockEachOther(t *testing.T) {
	slow := &fakeModel{block: make(chan struct{}), resp: &GenerateResponse{Parts: []string{"slow"}, Text: "slow"}}
	fast := &fakeModel{resp: &GenerateResponse{Parts: []string{"fast"}, Text: "fast"}}

	slowDone := make(chan models.EventSearchResult, 1)
	go func() {
		slowDone <- newTestFinder(slow, nil).FindEvents(context.Background(), models.EventSearchRequest{InterestDescription: "a"})
	}()

	res := newTestFinder(fast, nil).FindEvents(context.Background(), models.EventSearchRequest{InterestDescription: "b"})
	assert.Equal(t, "fast", res.ResultsText)

	close(slow.block)
	assert.Equal(t, "slow", (<-slowDone).ResultsText)
}

func TestRunOffloaded_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	defer close(release)

	go cancel()
	_, err := runOffloaded(ctx, func(context.Context) (string, error) {
		<-release
		return "late", nil
	})

	assert.Equal(t, context.Canceled, err)
}

func TestGenerateResponse_Outcome(t *testing.T) {
	var nilResp *GenerateResponse

	assert.Equal(t, OutcomeEmpty, nilResp.Outcome())
	assert.Equal(t, OutcomeText, (&GenerateResponse{Parts: []string{"x"}, BlockReason: "SAFETY"}).Outcome())
	assert.Equal(t, OutcomeBlocked, (&GenerateResponse{BlockReason: "SAFETY", Text: "x"}).Outcome())
	assert.Equal(t, OutcomeFallbackText, (&GenerateResponse{Text: "x"}).Outcome())
	assert.Equal(t, "fallback_text", OutcomeFallbackText.String())
}

func TestGenerateResponse_ResultTextJoinsParts(t *testing.T) {
	text, err := (&GenerateResponse{Parts: []string{"Found ", "2 events"}}).ResultText()

	assert.Equal(t, nil, err)
	assert.Equal(t, "Found 2 events", text)
}

func TestGenerateResponse_BlockedWrapsSentinel(t *testing.T) {
	_, err := (&GenerateResponse{BlockReason: "PROHIBITED_CONTENT"}).ResultText()

	assert.Equal(t, true, errors.Is(err, ErrContentBlocked))
	assert.Equal(t, "Content generation blocked. Reason: PROHIBITED_CONTENT", err.Error())
}
