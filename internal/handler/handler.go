package handler

import (
	"github.com/rs/zerolog"

	"github.com/maxviazov/orgs-directory-service/internal/metrics"
	"github.com/maxviazov/orgs-directory-service/internal/service"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

// Dependencies is everything Register needs. Metrics may be nil; CORSOrigins empty means "*".
type Dependencies struct {
	Pinger      Pinger
	Orgs        service.OrgService
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
	CORSOrigins []string
	// OpenAPIPath is where /openapi.yaml is read from.
	OpenAPIPath string
}
