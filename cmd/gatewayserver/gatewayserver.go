// Package main is the gateway server process entrypoint: it loads config,
// builds the datastore clients and search router, wires the query
// executor behind a chi router, runs an in-process warm-up query, and
// serves /graphql, /metrics, and /healthz until told to shut down.
package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	gographql "github.com/graph-gophers/graphql-go"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	eggraphql "github.com/elasticgraph/elasticgraph-go/internal/api/graphql"
	egmiddleware "github.com/elasticgraph/elasticgraph-go/internal/api/middleware"
	"github.com/elasticgraph/elasticgraph-go/internal/apiserver/config"
	"github.com/elasticgraph/elasticgraph-go/internal/auth"
	"github.com/elasticgraph/elasticgraph-go/internal/httptypes"
	"github.com/elasticgraph/elasticgraph-go/internal/schema"
	"github.com/elasticgraph/elasticgraph-go/internal/search"
	"github.com/elasticgraph/elasticgraph-go/pkg/logger"
)

// warmUpSchema is the minimal SDL used for the boot-time warm-up query
// (spec §3's INTERNAL identity path). A host application replaces it with
// its own generated schema + resolvers; this lets the gateway boot and
// prove its own wiring even before a real schema is supplied.
const warmUpSchema = `
	schema { query: Query }
	type Query { ping: String! }
`

type warmUpResolver struct{}

func (warmUpResolver) Ping() string { return "pong" }

func main() {
	log := logger.New().With("component", "gatewayserver")

	cfg, err := config.Load(log)
	if err != nil {
		log.Errorf("invalid configuration: %v", err)
		os.Exit(1)
	}

	clients := map[string]*opensearch.Client{}
	for name, urls := range cfg.ClusterEndpoints() {
		client, clientErr := opensearch.NewClient(opensearch.Config{Addresses: urls})
		if clientErr != nil {
			log.Errorf("failed to build opensearch client for cluster %q: %v", name, clientErr)
			os.Exit(1)
		}
		clients[name] = client
	}

	router := search.NewRouter(clients, log, cfg.DebugQuery)
	def := schema.NewDefinition(schema.DefaultElementNames(), map[string]*schema.Type{})

	gqlSchema := gographql.MustParseSchema(warmUpSchema, &warmUpResolver{})
	executor := &eggraphql.Executor{
		Engine: eggraphql.NewGraphQLGoEngine(gqlSchema),
		Schema: def,
		Router: router,
		Logger: log,
		Config: eggraphql.Config{
			MaxRequestTimeoutMs:  cfg.RequestTimeoutHeaderMaxMs,
			SlowQueryThresholdMs: cfg.SlowQueryThresholdMs,
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runWarmUpQuery(ctx, executor, log)

	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           newRouter(executor, cfg),
		ReadHeaderTimeout: time.Minute,
	}

	metricsServer := &http.Server{
		Addr:              ":9090",
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Infof("metrics server listening on %s", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("metrics server failed: %v", err)
		}
	}()

	shutdownDone := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("starting graceful shutdown")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("failed to shut down HTTP server gracefully: %v", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("failed to shut down metrics server gracefully: %v", err)
		}
		close(shutdownDone)
	}()

	log.Infof("HTTP server listening on %s", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Errorf("HTTP server failed: %v", err)
	}

	<-shutdownDone
}

func newRouter(executor *eggraphql.Executor, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", auth.ClientNameHeader, eggraphql.RequestTimeoutHeader},
		AllowCredentials: true,
	}))
	r.Use(egmiddleware.PrometheusMiddleware)
	r.Use(egmiddleware.NewRequestIDMiddleware())
	r.Use(egmiddleware.NewUserAgentMiddleware())

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
		req, err := toHTTPTypesRequest(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		resp := executor.Handle(r.Context(), req)
		writeHTTPTypesResponse(w, resp)
	})

	return r
}

func toHTTPTypesRequest(r *http.Request) (*httptypes.Request, error) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	headers := map[string]string{}
	for name := range r.Header {
		headers[name] = r.Header.Get(name)
	}

	query := map[string][]string{}
	for name, values := range r.URL.Query() {
		query[name] = values
	}

	return &httptypes.Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   query,
		Headers: httptypes.NewHeaders(headers),
		Body:    body,
	}, nil
}

func writeHTTPTypesResponse(w http.ResponseWriter, resp *httptypes.Response) {
	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

func runWarmUpQuery(ctx context.Context, executor *eggraphql.Executor, log logger.Logger) {
	req := &httptypes.Request{
		Method:  http.MethodPost,
		Headers: httptypes.NewHeaders(map[string]string{"Content-Type": "application/graphql", auth.ClientNameHeader: auth.Internal.Name}),
		Body:    []byte("{ ping }"),
	}

	resp := executor.Handle(ctx, req)
	if resp.StatusCode != http.StatusOK {
		log.Errorf("warm-up query failed with status %d: %s", resp.StatusCode, string(resp.Body))
		return
	}
	log.Info("warm-up query succeeded")
}
