// Package config loads the gateway server's process configuration from
// environment variables. There is no YAML/file-based configuration layer
// here — every setting this core needs is a single scalar, so env vars
// are the whole story.
package config

import (
	"strings"

	"github.com/qiangxue/go-env"

	"github.com/elasticgraph/elasticgraph-go/pkg/errors"
	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

const (
	defaultMaxPageSize               = 500
	defaultPageSize                  = 50
	defaultRequestTimeoutHeaderMaxMs = 30_000
	defaultSlowQueryThresholdMs      = 2_000
)

// Config is the gateway server's runtime configuration.
type Config struct {
	// clusterEndpoints maps a cluster name to its base URLs, derived from
	// RawClusterEndpoints once loaded. Unexported so go-env's reflection
	// leaves it alone; ClusterEndpoints() is the public accessor.
	clusterEndpoints map[string][]string

	// RawClusterEndpoints is "name=url[,name=url...]", e.g.
	// "main=http://es-main:9200,main=http://es-main-2:9200".
	RawClusterEndpoints string `env:"CLUSTER_ENDPOINTS"`

	// MaxPageSize bounds the page size a query may request.
	MaxPageSize int `env:"MAX_PAGE_SIZE"`

	// DefaultPageSize is used when a query requests no explicit page size.
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE"`

	// RequestTimeoutHeaderMaxMs bounds how long any single request may
	// run, overriding a caller's ElasticGraph-Request-Timeout-Ms header
	// when that header asks for longer.
	RequestTimeoutHeaderMaxMs int64 `env:"REQUEST_TIMEOUT_HEADER_MAX_MS"`

	// SlowQueryThresholdMs is the duration above which a completed query
	// is logged with a warning alongside its query text.
	SlowQueryThresholdMs int64 `env:"SLOW_QUERY_THRESHOLD_MS"`

	// DebugQuery, when true, logs every query's full text regardless of
	// its duration.
	DebugQuery bool `env:"DEBUG_QUERY"`

	// ServerPort is the port the gateway server's HTTP listener binds to.
	ServerPort string `env:"SERVER_PORT"`

	// CorsAllowedOrigins is a comma-separated list of origins allowed to
	// call /graphql from a browser.
	CorsAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`
}

// Load populates a Config from environment variables, applying defaults
// for anything left unset.
func Load(log logger.Logger) (*Config, error) {
	c := Config{
		MaxPageSize:               defaultMaxPageSize,
		DefaultPageSize:           defaultPageSize,
		RequestTimeoutHeaderMaxMs: defaultRequestTimeoutHeaderMaxMs,
		SlowQueryThresholdMs:      defaultSlowQueryThresholdMs,
		ServerPort:                "8000",
	}

	if err := env.New("", log.Infof).Load(&c); err != nil {
		return nil, errors.Wrap(err, "failed to load env variables", errors.WithErrorCode(errors.EConfig))
	}

	c.clusterEndpoints = parseClusterEndpoints(c.RawClusterEndpoints)

	if len(c.clusterEndpoints) == 0 {
		return nil, errors.New("CLUSTER_ENDPOINTS must name at least one cluster", errors.WithErrorCode(errors.EConfig))
	}

	return &c, nil
}

// ClusterEndpoints returns the cluster-name -> endpoint-list mapping
// parsed from RawClusterEndpoints.
func (c *Config) ClusterEndpoints() map[string][]string {
	return c.clusterEndpoints
}

// AllowedOrigins splits CorsAllowedOrigins into a trimmed slice, defaulting
// to "*" when unset.
func (c *Config) AllowedOrigins() []string {
	if c.CorsAllowedOrigins == "" {
		return []string{"*"}
	}
	origins := strings.Split(c.CorsAllowedOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}

// parseClusterEndpoints parses "name=url[,name=url...]" pairs into a
// cluster-name -> endpoint-list map, collecting repeated names' URLs
// together so a cluster can have more than one endpoint.
func parseClusterEndpoints(raw string) map[string][]string {
	endpoints := map[string][]string{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, url, ok := strings.Cut(pair, "=")
		if !ok || name == "" || url == "" {
			continue
		}
		endpoints[name] = append(endpoints[name], url)
	}
	return endpoints
}
