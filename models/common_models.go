package models

import "time"

// Response status constants
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// NotFoundResponse is the body returned for unmapped paths
type NotFoundResponse struct {
	Message string `json:"message"`
}

// HealthResponse represents the health endpoint body
type HealthResponse struct {
	Status         string                 `json:"status"`
	ModelAvailable bool                   `json:"model_available"`
	Model          string                 `json:"model,omitempty"`
	Uptime         string                 `json:"uptime"`
	Endpoints      []string               `json:"endpoints"`
	Discord        map[string]interface{} `json:"discord,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}
