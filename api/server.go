package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"newsrag/ingest"
	"newsrag/rag"
)

type Ingester interface {
	Ingest(ctx context.Context, url string) (*ingest.Result, error)
}

type Querier interface {
	Query(ctx context.Context, question, model string) (*rag.Answer, error)
}

// Server exposes the ingest and query pipelines over HTTP.
type Server struct {
	ingester Ingester
	querier  Querier
	port     int
	logger   *zap.Logger
}

func NewServer(ingester Ingester, querier Querier, port int, logger *zap.Logger) *Server {
	return &Server{
		ingester: ingester,
		querier:  querier,
		port:     port,
		logger:   logger,
	}
}

// Router builds the route table. Split out from Start so tests can drive
// it through httptest.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/ingest", s.handleIngest).Methods(http.MethodPost)
	r.HandleFunc("/query", s.handleQuery).Methods(http.MethodPost)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Router())
}
