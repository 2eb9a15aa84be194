package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"eventfinder/models"
)

// FindEventsHandler runs an event search. Model-side failures are reported
// with status 200 and the error field set; only malformed requests get 400.
func (c *Controller) FindEventsHandler(w http.ResponseWriter, r *http.Request) {
	var req models.EventSearchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewEventSearchFailure("Invalid JSON format"))
		return
	}

	if strings.TrimSpace(req.InterestDescription) == "" {
		writeJSON(w, http.StatusBadRequest, models.NewEventSearchFailure("interest_description is required"))
		return
	}

	if req.TimeframeDays < 0 {
		writeJSON(w, http.StatusBadRequest, models.NewEventSearchFailure("timeframe_days must be positive"))
		return
	}

	result := c.finder.FindEvents(r.Context(), req)

	writeJSON(w, http.StatusOK, result)
}
