package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/venuedex/internal/domain"
	dombatch "github.com/kailas-cloud/venuedex/internal/domain/batch"
	"github.com/kailas-cloud/venuedex/internal/domain/business"
	"github.com/kailas-cloud/venuedex/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/venuedex/internal/usecase/health"
)

const maxBodyBytes = 4 << 20

// Server serves the venuedex HTTP API.
type Server struct {
	search     Searcher
	semantic   SemanticSearcher
	embeddings EmbeddingGenerator
	businesses Businesses
	reembed    Reembedder
	health     HealthChecker
	logger     *zap.Logger

	errorHandlers []errorHandler
}

// Deps groups the use cases the server delegates to.
type Deps struct {
	Search     Searcher
	Semantic   SemanticSearcher
	Embeddings EmbeddingGenerator
	Businesses Businesses
	Reembed    Reembedder
	Health     HealthChecker
}

// NewServer creates an HTTP API server.
func NewServer(deps Deps, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search:     deps.Search,
		semantic:   deps.Semantic,
		embeddings: deps.Embeddings,
		businesses: deps.Businesses,
		reembed:    deps.Reembed,
		health:     deps.Health,
		logger:     logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrUpstreamFormat, http.StatusBadGateway, codeUpstreamFormat),
		sentinelHandler(domain.ErrUpstreamUnavailable, http.StatusServiceUnavailable, codeUpstreamUnavailable),
		validationHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r chi.Router) {
	r.Post("/search", s.Search)
	r.Post("/semantic/{collection}", s.SemanticSearch)
	r.Post("/embeddings", s.GenerateEmbedding)

	r.Route("/businesses", func(r chi.Router) {
		r.Get("/", s.ListBusinesses)
		r.Get("/updates", s.ListUpdates)
		r.Post("/embeddings", s.RegenerateEmbeddings)
		r.Get("/{alias}", s.GetBusiness)
		r.Put("/{alias}", s.UpsertBusiness)
		r.Patch("/{alias}/visited", s.SetVisited)
		r.Post("/{alias}/embedding", s.EmbedBusiness)
	})

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	resp, err := s.search.Search(r.Context(), req.Query, req.Viewport, req.UserLocation)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// SemanticSearch handles POST /semantic/{collection}.
func (s *Server) SemanticSearch(w http.ResponseWriter, r *http.Request) {
	var collection string
	if !bindPath(w, r, "collection", &collection) {
		return
	}

	var req semanticRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	opts, err := req.options()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	hits, err := s.semantic.Hits(r.Context(), req.Query, collection, opts)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]result.Scored[semanticDocument], 0, len(hits))
	for _, h := range hits {
		scored, err := result.Decode[semanticDocument](h)
		if err != nil {
			s.handleDomainError(w, &domain.UpstreamFormatError{Stage: "decode hit " + h.ID(), Err: err})
			return
		}
		delete(scored.Document, embeddingKey)
		items = append(items, scored)
	}

	writeJSON(w, http.StatusOK, semanticResponse{Results: items, Total: len(items)})
}

// GenerateEmbedding handles POST /embeddings.
func (s *Server) GenerateEmbedding(w http.ResponseWriter, r *http.Request) {
	var req embeddingRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.handleDomainError(w, domain.NewValidationError("text", "must not be empty"))
		return
	}

	vec, err := s.embeddings.GenerateEmbedding(r.Context(), req.Text)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, embeddingResponse{Embedding: vec, Dimensions: len(vec)})
}

// ListBusinesses handles GET /businesses.
func (s *Server) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	items, err := s.businesses.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBusinessList(items))
}

// ListUpdates handles GET /businesses/updates?lastSync=RFC3339.
func (s *Server) ListUpdates(w http.ResponseWriter, r *http.Request) {
	var lastSync *time.Time
	if err := runtime.BindQueryParameter("form", true, false, "lastSync", r.URL.Query(), &lastSync); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid format for parameter lastSync: "+err.Error())
		return
	}
	if lastSync == nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Query argument lastSync is required, but not found")
		return
	}

	items, err := s.businesses.UpdatedSince(r.Context(), *lastSync)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newBusinessList(items))
}

// GetBusiness handles GET /businesses/{alias}.
func (s *Server) GetBusiness(w http.ResponseWriter, r *http.Request) {
	var alias string
	if !bindPath(w, r, "alias", &alias) {
		return
	}

	b, err := s.businesses.Get(r.Context(), alias)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	b.Embedding = nil
	writeJSON(w, http.StatusOK, b)
}

// UpsertBusiness handles PUT /businesses/{alias}?embed=true.
func (s *Server) UpsertBusiness(w http.ResponseWriter, r *http.Request) {
	var alias string
	if !bindPath(w, r, "alias", &alias) {
		return
	}
	var embed *bool
	if err := runtime.BindQueryParameter("form", true, false, "embed", r.URL.Query(), &embed); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid format for parameter embed: "+err.Error())
		return
	}

	var b business.Business
	if !s.decodeBody(w, r, &b) {
		return
	}
	if b.Alias != "" && b.Alias != alias {
		s.handleDomainError(w, domain.NewValidationError("alias", "body alias does not match path"))
		return
	}
	b.Alias = alias

	created, err := s.businesses.Upsert(r.Context(), &b, embed != nil && *embed)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", "/businesses/"+alias)
	}
	b.Embedding = nil
	writeJSON(w, status, b)
}

// SetVisited handles PATCH /businesses/{alias}/visited.
func (s *Server) SetVisited(w http.ResponseWriter, r *http.Request) {
	var alias string
	if !bindPath(w, r, "alias", &alias) {
		return
	}
	var req visitedRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Visited == nil {
		s.handleDomainError(w, domain.NewValidationError("visited", "is required"))
		return
	}

	b, err := s.businesses.SetVisited(r.Context(), alias, *req.Visited)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// EmbedBusiness handles POST /businesses/{alias}/embedding.
func (s *Server) EmbedBusiness(w http.ResponseWriter, r *http.Request) {
	var alias string
	if !bindPath(w, r, "alias", &alias) {
		return
	}

	vec, err := s.businesses.EmbedStored(r.Context(), alias)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, embeddingResponse{Embedding: vec, Dimensions: len(vec)})
}

// RegenerateEmbeddings handles POST /businesses/embeddings.
func (s *Server) RegenerateEmbeddings(w http.ResponseWriter, r *http.Request) {
	// An empty body regenerates every stored record.
	var req reembedRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	results, err := s.reembed.Regenerate(r.Context(), req.Aliases)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]reembedItem, len(results))
	for i, res := range results {
		items[i] = reembedItemFrom(res)
	}
	writeJSON(w, http.StatusOK, reembedResponse{Items: items, Summary: dombatch.Summarize(results)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, report)
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func bindPath(w http.ResponseWriter, r *http.Request, name string, dst *string) bool {
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), dst,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed,
			fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
		return false
	}
	if strings.TrimSpace(*dst) == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, name+" is required")
		return false
	}
	return true
}

func reembedItemFrom(r dombatch.Result) reembedItem {
	item := reembedItem{Alias: r.ID(), Status: string(r.Status())}
	if err := r.Err(); err != nil {
		msg := safeDomainMessage(err)
		if errors.Is(err, domain.ErrValidation) {
			msg = err.Error()
		}
		item.Error = &msg
	}
	return item
}
