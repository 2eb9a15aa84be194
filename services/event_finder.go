package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"eventfinder/models"
)

// EventFinderOptions configures an EventFinder
type EventFinderOptions struct {
	DefaultLocation      string
	DefaultTimeframeDays int
	// Timeout bounds each model call. Zero means no timeout.
	Timeout time.Duration
	Metrics *Metrics
	// Now supplies the current date for the search window. Defaults to time.Now.
	Now func() time.Time
}

// EventFinder turns event search requests into model calls and folds every
// outcome into an EventSearchResult.
type EventFinder struct {
	client               ModelClient
	defaultLocation      string
	defaultTimeframeDays int
	timeout              time.Duration
	metrics              *Metrics
	now                  func() time.Time
}

// NewEventFinder creates an event finder. client may be nil when the model
// could not be initialized; every search then reports the model as unavailable.
func NewEventFinder(client ModelClient, opts EventFinderOptions) *EventFinder {
	if opts.DefaultLocation == "" {
		opts.DefaultLocation = "Blaine, MN"
	}
	if opts.DefaultTimeframeDays <= 0 {
		opts.DefaultTimeframeDays = 14
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &EventFinder{
		client:               client,
		defaultLocation:      opts.DefaultLocation,
		defaultTimeframeDays: opts.DefaultTimeframeDays,
		timeout:              opts.Timeout,
		metrics:              opts.Metrics,
		now:                  opts.Now,
	}
}

// IsAvailable reports whether a model client is configured
func (f *EventFinder) IsAvailable() bool {
	return f.client != nil
}

// ModelName returns the configured model, or "" without a client
func (f *EventFinder) ModelName() string {
	if f.client == nil {
		return ""
	}
	return f.client.ModelName()
}

// DefaultLocation returns the location used when a request leaves it empty
func (f *EventFinder) DefaultLocation() string {
	return f.defaultLocation
}

// FindEvents runs one event search. It never returns an error: failures are
// reported through the result's Error field.
func (f *EventFinder) FindEvents(ctx context.Context, req models.EventSearchRequest) models.EventSearchResult {
	if f.client == nil {
		log.Printf("Error: event search requested but AI model is not available")
		f.metrics.recordSearch(outcomeUnavailable)
		return models.NewEventSearchFailure(ErrModelUnavailable.Error())
	}

	location := strings.TrimSpace(req.Location)
	if location == "" {
		location = f.defaultLocation
	}
	timeframeDays := req.TimeframeDays
	if timeframeDays <= 0 {
		timeframeDays = f.defaultTimeframeDays
	}
	interest := strings.TrimSpace(req.InterestDescription)

	log.Printf("Received event search request: Location='%s', Interest='%s', Days=%d", location, interest, timeframeDays)

	text, outcome, err := f.search(ctx, location, interest, timeframeDays)
	f.metrics.recordSearch(outcome)
	if err != nil {
		log.Printf("Error processing event search request: %v", err)
		return models.NewEventSearchFailure(fmt.Sprintf("Failed to find events: %v", err))
	}

	log.Printf("Successfully generated event summary (%d chars)", len(text))
	return models.NewEventSearchSuccess(text)
}

func (f *EventFinder) search(ctx context.Context, location, interest string, timeframeDays int) (string, string, error) {
	prompt := BuildEventSearchPrompt(location, interest, timeframeDays, f.now())

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	done := f.metrics.startModelCall()
	resp, err := runOffloaded(ctx, func(ctx context.Context) (*GenerateResponse, error) {
		return f.client.GenerateContent(ctx, prompt)
	})
	done()
	if err != nil {
		return "", outcomeError, err
	}

	outcome := resp.Outcome()
	if outcome == OutcomeFallbackText {
		log.Printf("Warning: model response has no content parts, using raw text")
	}

	text, err := resp.ResultText()
	return text, outcomeLabel(outcome), err
}

// runOffloaded runs fn on its own goroutine and waits for it or for ctx.
// The result channel is buffered so an abandoned call can still finish.
func runOffloaded[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("model call panicked: %v", r)}
			}
		}()
		v, err := fn(ctx)
		ch <- result{value: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
