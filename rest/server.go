package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/mohitkumar/flowmvc/config"
	"github.com/mohitkumar/flowmvc/flash"
	"github.com/mohitkumar/flowmvc/flow"
	"github.com/mohitkumar/flowmvc/logger"
	"github.com/mohitkumar/flowmvc/metadata"
	"github.com/mohitkumar/flowmvc/mvc"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port            int
	metadataService metadata.MetadataService
	registry        *flow.Registry
	adapter         *mvc.FlowHandlerAdapter
}

// NewServer routes the metadata endpoints and dispatches every request under the
// configured context and servlet path to the flow handler adapter. flashManager may
// be nil when flash output is disabled.
func NewServer(httpPort int, mvcConfig config.MvcConfig, metadataService metadata.MetadataService, registry *flow.Registry,
	adapter *mvc.FlowHandlerAdapter, flashManager *flash.SessionFlashMapManager) (*Server, error) {

	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		metadataService: metadataService,
		registry:        registry,
		adapter:         adapter,
		Port:            httpPort,
	}

	router := mux.NewRouter()
	router.HandleFunc("/metadata/flow", s.HandleCreateFlow).Methods(http.MethodPost)
	router.HandleFunc("/metadata/flow", s.HandleListFlows).Methods(http.MethodGet)
	router.HandleFunc("/metadata/flow/{name:.+}", s.HandleGetFlow).Methods(http.MethodGet)
	router.HandleFunc("/metadata/flow/{name:.+}", s.HandleDeleteFlow).Methods(http.MethodDelete)

	var flowHandler http.Handler = adapter.HandlerFunc(s.flowHandler)
	if flashManager != nil {
		flowHandler = flashManager.Middleware(flowHandler)
	}
	flowHandler = mvc.PathMiddleware(mvcConfig.ContextPath, mvcConfig.ServletPath)(flowHandler)

	base := strings.TrimSuffix(mvcConfig.ContextPath, "/") + strings.TrimSuffix(mvcConfig.ServletPath, "/")
	if base != "" {
		router.Path(base).Handler(flowHandler)
	}
	router.PathPrefix(base + "/").Handler(flowHandler)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

// flowHandler selects the stored definition named by the request URL, requests for
// flows registered in code get the default behavior.
func (s *Server) flowHandler(r *http.Request) mvc.FlowHandler {
	flowId := s.adapter.FlowUrlHandler().FlowId(r)
	def, _ := s.registry.GetScriptDefinition(flowId)
	return NewDefinitionFlowHandler(def)
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server", zap.Error(err))
	}
	return err
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI, zap.String("method", r.Method))
		next.ServeHTTP(w, r)
	})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message map[string]any) {
	respondWithJSON(w, http.StatusOK, message)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
