package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"eventfinder/models"
)

const fallbackIndexHTML = `<html><body><h1>Local Event Finder API</h1><p>Frontend not available.</p></body></html>`

// IndexHandler serves the frontend page, or a minimal page when the
// templates are missing
func (c *Controller) IndexHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"DefaultLocation": c.finder.DefaultLocation(),
	}
	if c.renderTemplate(w, "index.html", data) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, fallbackIndexHTML)
}

// HealthHandler reports model and Discord availability
func (c *Controller) HealthHandler(w http.ResponseWriter, r *http.Request) {
	health := models.HealthResponse{
		Status:         models.StatusHealthy,
		ModelAvailable: c.finder.IsAvailable(),
		Model:          c.finder.ModelName(),
		Uptime:         time.Since(c.startTime).Round(time.Second).String(),
		Endpoints:      []string{"/", "/find-events", "/health", "/metrics"},
		Timestamp:      time.Now(),
	}
	if !health.ModelAvailable {
		health.Status = models.StatusDegraded
	}
	if c.discordService != nil {
		health.Discord = c.discordService.GetStatus()
	}

	writeJSON(w, http.StatusOK, health)
}

// NotFoundHandler answers every unmapped path
func (c *Controller) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	log.Printf("404 Not Found for path: %s", r.URL.Path)
	writeJSON(w, http.StatusNotFound, models.NotFoundResponse{
		Message: fmt.Sprintf("Error: Resource not found at path %s", r.URL.Path),
	})
}
