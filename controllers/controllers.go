package controllers

import (
	"bytes"
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/mux"

	"eventfinder/services"
)

// Controller holds the HTTP handlers and the services they call
type Controller struct {
	finder         *services.EventFinder
	discordService *services.DiscordService
	viewsDir       string
	startTime      time.Time
}

// NewController creates a new controller instance. discordService may be nil.
func NewController(finder *services.EventFinder, discordService *services.DiscordService, viewsDir string) *Controller {
	return &Controller{
		finder:         finder,
		discordService: discordService,
		viewsDir:       viewsDir,
		startTime:      time.Now(),
	}
}

// RegisterRoutes attaches every endpoint and the 404 handler to r
func (c *Controller) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", c.IndexHandler).Methods(http.MethodGet)
	r.HandleFunc("/find-events", c.FindEventsHandler).Methods(http.MethodPost)
	r.HandleFunc("/health", c.HealthHandler).Methods(http.MethodGet)
	r.NotFoundHandler = http.HandlerFunc(c.NotFoundHandler)
}

// StartServices starts background services (the Discord bot)
func (c *Controller) StartServices(enableDiscord bool) error {
	switch {
	case c.discordService == nil || !enableDiscord:
		log.Printf("Discord service disabled")
	case !c.discordService.IsEnabled():
		log.Printf("Discord service requested but not properly configured (missing bot token)")
	default:
		if err := c.discordService.Start(); err != nil {
			log.Printf("Failed to start Discord service: %v", err)
			return err
		}
	}
	return nil
}

// StopServices stops all background services
func (c *Controller) StopServices() error {
	if c.discordService != nil {
		return c.discordService.Stop()
	}
	return nil
}

// renderTemplate renders views/<name>. It reports false without writing
// anything when the template is missing or broken.
func (c *Controller) renderTemplate(w http.ResponseWriter, name string, data interface{}) bool {
	templatePath := filepath.Join(c.viewsDir, name)

	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		log.Printf("Template %s not available: %v", templatePath, err)
		return false
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("Error executing template %s: %v", templatePath, err)
		return false
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
	return true
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}
