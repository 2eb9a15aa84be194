package controllers

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// RouterOptions configures the outer surface around the controller's routes
type RouterOptions struct {
	// Metrics is served at /metrics when set.
	Metrics        http.Handler
	StaticDir      string
	AllowedOrigins []string
}

// NewRouter assembles the full HTTP handler: metrics, static assets, the
// controller's endpoints and the CORS wrapper.
func NewRouter(c *Controller, opts RouterOptions) http.Handler {
	router := mux.NewRouter()
	if opts.Metrics != nil {
		router.Handle("/metrics", opts.Metrics).Methods(http.MethodGet)
	}
	if info, err := os.Stat(opts.StaticDir); opts.StaticDir != "" && err == nil && info.IsDir() {
		router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir))))
		log.Printf("Serving static files from %s", opts.StaticDir)
	} else {
		log.Printf("Warning: static directory %s not found, frontend assets disabled", opts.StaticDir)
	}
	c.RegisterRoutes(router)

	return cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(router)
}
