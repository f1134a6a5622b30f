package config

import "github.com/kelseyhightower/envconfig"

// Database holds libsql/Turso database configuration. AuthToken is
// only needed for remote Turso databases; file: URLs work without it.
type Database struct {
	URL       string `envconfig:"EVALBOARD_DATABASE_URL" default:"file:evalboard.db"`
	AuthToken string `envconfig:"EVALBOARD_AUTH_TOKEN"`
}

// OTEL holds metrics exporter configuration.
type OTEL struct {
	Enabled  bool   `envconfig:"EVALBOARD_OTEL_ENABLED"`
	Endpoint string `envconfig:"EVALBOARD_OTEL_ENDPOINT"`
	Insecure bool   `envconfig:"EVALBOARD_OTEL_INSECURE" default:"true"`
}

// Server holds configuration for the comparison web server.
type Server struct {
	Database Database
	OTEL     OTEL

	Port int `envconfig:"EVALBOARD_PORT" default:"8080"`
	// PageSize is how many comparison rows one fetch requests.
	PageSize int `envconfig:"EVALBOARD_PAGE_SIZE" default:"50"`
	// ScrollThresholdPx is the near-bottom distance that triggers the
	// next page fetch.
	ScrollThresholdPx int `envconfig:"EVALBOARD_SCROLL_THRESHOLD_PX" default:"300"`
	// FilterDebounceMS is the trailing-edge debounce for filter input.
	FilterDebounceMS int `envconfig:"EVALBOARD_FILTER_DEBOUNCE_MS" default:"300"`
	// TraceBaseURL, when set, turns trace ids into links into the
	// tracing UI.
	TraceBaseURL string `envconfig:"EVALBOARD_TRACE_BASE_URL"`
}

// LoadServer loads server configuration from environment variables.
// envconfig recurses into the nested structs, so one pass covers the
// database and OTEL sections too.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
