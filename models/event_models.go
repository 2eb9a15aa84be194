package models

// EventSearchRequest represents an incoming event search request
type EventSearchRequest struct {
	InterestDescription string `json:"interest_description"`
	Location            string `json:"location,omitempty"`
	TimeframeDays       int    `json:"timeframe_days,omitempty"`
}

// EventSearchResult is returned for every event search. Error is nil on
// success and serializes as JSON null.
type EventSearchResult struct {
	ResultsText string  `json:"results_text"`
	Error       *string `json:"error"`
}

// NewEventSearchSuccess wraps the model's answer
func NewEventSearchSuccess(text string) EventSearchResult {
	return EventSearchResult{ResultsText: text}
}

// NewEventSearchFailure builds a result carrying only an error message
func NewEventSearchFailure(message string) EventSearchResult {
	return EventSearchResult{ResultsText: "", Error: &message}
}

// Failed reports whether the search ended in an error
func (r EventSearchResult) Failed() bool {
	return r.Error != nil
}

// ErrorMessage returns the error text, or "" on success
func (r EventSearchResult) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}
